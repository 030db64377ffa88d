package inventory

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "github.com/abgdnv/stocktake/internal/errors"
	"github.com/shopspring/decimal"
)

// Repository is the sole owner of the in-memory product set. It assigns ids,
// enforces the non-negative stock invariant and answers queries. All returned
// products are value copies, so callers never alias live state.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]Product
	nextID   int64
}

// NewRepository creates an empty Repository with the next id set to 1.
func NewRepository() *Repository {
	return &Repository{
		products: make(map[int64]Product),
		nextID:   1,
	}
}

// Create validates price and quantity defensively, assigns the next id and
// inserts the new record. Field-level validation beyond that is the caller's job.
func (r *Repository) Create(name string, price decimal.Decimal, quantity int64, category string) (Product, error) {
	if price.IsNegative() {
		return Product{}, apperrors.ErrNegativePrice
	}
	if quantity < 0 {
		return Product{}, apperrors.ErrNegativeQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product := Product{
		ID:            r.nextID,
		Name:          name,
		Price:         price,
		StockQuantity: quantity,
		Category:      category,
		LastUpdated:   time.Now().UTC(),
	}
	r.nextID++
	r.products[product.ID] = product

	return product, nil
}

// Delete removes the record with the given id if present and reports whether
// removal occurred. The id is never reused.
func (r *Repository) Delete(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return false
	}
	delete(r.products, id)
	return true
}

// FindByID retrieves a product by its id.
// Returns ErrProductNotFound if no record exists with the given id.
func (r *Repository) FindByID(id int64) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, apperrors.ErrProductNotFound
	}
	return p, nil
}

// FindByName returns every record whose name contains the query,
// case-insensitively, ordered by ascending id. No match yields an empty slice,
// never an error. An empty query matches every record.
func (r *Repository) FindByName(query string) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(query)
	list := make([]Product, 0)
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			list = append(list, p)
		}
	}
	slices.SortFunc(list, func(a, b Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return list
}

// AdjustStock applies delta to the stock quantity of the record with the given
// id. A result below zero fails with ErrInsufficientStock and leaves the record
// untouched. On success LastUpdated advances and the updated record is returned.
func (r *Repository) AdjustStock(id int64, delta int64) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, apperrors.ErrProductNotFound
	}
	if p.StockQuantity+delta < 0 {
		return Product{}, apperrors.ErrInsufficientStock
	}
	p.StockQuantity += delta
	p.LastUpdated = time.Now().UTC()
	r.products[id] = p

	return p, nil
}

// UpdateDetails replaces the name, price and category of an existing record.
// Stock moves only through AdjustStock. Advances LastUpdated.
func (r *Repository) UpdateDetails(id int64, name string, price decimal.Decimal, category string) (Product, error) {
	if price.IsNegative() {
		return Product{}, apperrors.ErrNegativePrice
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, apperrors.ErrProductNotFound
	}
	p.Name = name
	p.Price = price
	p.Category = category
	p.LastUpdated = time.Now().UTC()
	r.products[id] = p

	return p, nil
}

// ListAll returns every record ordered by ascending id.
func (r *Repository) ListAll() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return list
}

// ListLowStock returns every record with a stock quantity at or below the
// threshold, ordered by ascending quantity, ties broken by ascending id.
// The threshold is taken literally: 0 means exactly "quantity 0".
func (r *Repository) ListLowStock(threshold int64) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Product, 0)
	for _, p := range r.products {
		if p.StockQuantity <= threshold {
			list = append(list, p)
		}
	}
	slices.SortFunc(list, func(a, b Product) int {
		if a.StockQuantity != b.StockQuantity {
			return cmp.Compare(a.StockQuantity, b.StockQuantity)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list
}

// TotalValue returns the exact decimal sum of price times stock quantity over
// all records.
func (r *Repository) TotalValue() decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, p := range r.products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(p.StockQuantity)))
	}
	return total
}

// LoadFrom replaces the entire live set with the given records and recomputes
// the next id as max id + 1, or 1 when empty. Used only at startup.
func (r *Repository) LoadFrom(records []Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[int64]Product, len(records))
	r.nextID = 1
	for _, p := range records {
		r.products[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
}
