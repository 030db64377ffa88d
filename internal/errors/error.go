// Package errors provides custom error types for inventory-related operations.
package errors

import "errors"

var (
	// ErrProductNotFound is returned when a lookup by id finds no record.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a stock adjustment would drive the quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNegativePrice is returned when a creation or update supplies a negative price.
	ErrNegativePrice = errors.New("price must not be negative")
	// ErrNegativeQuantity is returned when a creation supplies a negative stock quantity.
	ErrNegativeQuantity = errors.New("stock quantity must not be negative")
)
