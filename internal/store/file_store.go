package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abgdnv/stocktake/internal/inventory"
	"github.com/shopspring/decimal"
)

// Ensure FileStore implements the Store interface
var _ Store = (*FileStore)(nil)

// FileStore implements Store on a single JSON document.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// document is the persisted representation: an ordered array of products.
type document struct {
	Products []productRecord `json:"products"`
}

// productRecord mirrors inventory.Product on the wire. Price travels as a bare
// JSON number with exact decimal digits, never as a float64.
type productRecord struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Price         json.Number `json:"price"`
	StockQuantity int64       `json:"stockQuantity"`
	Category      string      `json:"category"`
	LastUpdated   string      `json:"lastUpdated"`
}

// Save writes the full record set as one JSON document. The document is
// encoded fully in memory, written to a temporary file in the target directory
// and renamed over the destination, so a failure mid-write cannot truncate the
// existing document.
func (s *FileStore) Save(products []inventory.Product) error {
	doc := document{Products: make([]productRecord, len(products))}
	for i, p := range products {
		doc.Products[i] = toRecord(p)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".inventory-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write inventory to %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Load reads the full record set. A missing file is an empty inventory, not an
// error. A malformed document yields an empty slice and a descriptive error.
func (s *FileStore) Load() ([]inventory.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []inventory.Product{}, nil
		}
		return []inventory.Product{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return []inventory.Product{}, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	products := make([]inventory.Product, 0, len(doc.Products))
	seen := make(map[int64]struct{}, len(doc.Products))
	for i, rec := range doc.Products {
		p, err := fromRecord(rec)
		if err != nil {
			return []inventory.Product{}, fmt.Errorf("invalid record at index %d in %s: %w", i, s.path, err)
		}
		if _, dup := seen[p.ID]; dup {
			return []inventory.Product{}, fmt.Errorf("invalid record at index %d in %s: duplicate id %d", i, s.path, p.ID)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	return products, nil
}

// Quarantine moves a damaged document aside so the next save cannot silently
// destroy recoverable data. Returns the new name.
func (s *FileStore) Quarantine() (string, error) {
	quarantined := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, quarantined); err != nil {
		return "", fmt.Errorf("failed to move damaged file aside: %w", err)
	}
	return quarantined, nil
}

// toRecord converts an inventory.Product to its persisted form.
func toRecord(p inventory.Product) productRecord {
	return productRecord{
		ID:            p.ID,
		Name:          p.Name,
		Price:         json.Number(p.Price.String()),
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		LastUpdated:   p.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// fromRecord converts a persisted record back, rejecting anything that would
// violate a repository invariant.
func fromRecord(rec productRecord) (inventory.Product, error) {
	if rec.ID <= 0 {
		return inventory.Product{}, fmt.Errorf("non-positive id %d", rec.ID)
	}
	if rec.Name == "" {
		return inventory.Product{}, fmt.Errorf("empty name for id %d", rec.ID)
	}
	if rec.Category == "" {
		return inventory.Product{}, fmt.Errorf("empty category for id %d", rec.ID)
	}
	price, err := decimal.NewFromString(rec.Price.String())
	if err != nil {
		return inventory.Product{}, fmt.Errorf("unparseable price %q for id %d: %w", rec.Price, rec.ID, err)
	}
	if price.IsNegative() {
		return inventory.Product{}, fmt.Errorf("negative price %s for id %d", price, rec.ID)
	}
	if rec.StockQuantity < 0 {
		return inventory.Product{}, fmt.Errorf("negative stock quantity %d for id %d", rec.StockQuantity, rec.ID)
	}
	updated, err := time.Parse(time.RFC3339, rec.LastUpdated)
	if err != nil {
		return inventory.Product{}, fmt.Errorf("unparseable timestamp %q for id %d: %w", rec.LastUpdated, rec.ID, err)
	}
	return inventory.Product{
		ID:            rec.ID,
		Name:          rec.Name,
		Price:         price,
		StockQuantity: rec.StockQuantity,
		Category:      rec.Category,
		LastUpdated:   updated.UTC(),
	}, nil
}
