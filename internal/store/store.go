// Package store persists the full product set to a local JSON document.
package store

import "github.com/abgdnv/stocktake/internal/inventory"

// Store defines the whole-set persistence round-trip for the inventory.
// It abstracts the on-disk representation away from the repository.
type Store interface {
	// Save serializes the full record set, rewriting the whole document.
	// A failed save never leaves a truncated or corrupt document behind.
	Save(products []inventory.Product) error

	// Load restores the full record set. A missing document yields an empty
	// slice and no error; a malformed document yields an empty slice and a
	// descriptive error so the session can continue.
	Load() ([]inventory.Product, error)
}
