// Package inventory owns the live product set and its invariants.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a single inventory record.
type Product struct {
	ID            int64
	Name          string
	Price         decimal.Decimal
	StockQuantity int64
	Category      string
	LastUpdated   time.Time
}
