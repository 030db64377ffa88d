// Package cli implements the interactive menu session over the inventory repository.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	apperrors "github.com/abgdnv/stocktake/internal/errors"
	"github.com/abgdnv/stocktake/internal/inventory"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Menu drives one interactive session. It validates user input at field level,
// calls repository operations and renders results. All invariant enforcement
// stays inside the repository; the menu never mutates state directly.
type Menu struct {
	repo             *inventory.Repository
	validate         *validator.Validate
	defaultThreshold int64
	in               *bufio.Scanner
	out              io.Writer
	logger           *slog.Logger
}

// NewMenu creates a Menu reading from in and writing to out, so sessions are
// scriptable in tests.
func NewMenu(repo *inventory.Repository, defaultThreshold int64, in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	return &Menu{
		repo:             repo,
		validate:         validator.New(),
		defaultThreshold: defaultThreshold,
		in:               bufio.NewScanner(in),
		out:              out,
		logger:           logger.With("component", "cli"),
	}
}

// productForm carries the user-supplied fields of an add/update action.
// Price is kept as text and parsed into a decimal after validation.
type productForm struct {
	Name     string `validate:"required,max=100"`
	Price    string `validate:"required"`
	Quantity int64  `validate:"min=0"`
	Category string `validate:"required,max=100"`
}

// Run loops until the exit choice, input EOF or context cancellation.
func (m *Menu) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			m.printf("\nSession interrupted.\n")
			m.logger.Info("Session interrupted", "reason", ctx.Err())
			return nil
		default:
		}

		m.printMenu()
		choice, ok := m.prompt("Choice: ")
		if !ok {
			m.logger.Info("Input closed, ending session")
			return m.in.Err()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.addProduct()
		case "2":
			m.renderTable(m.repo.ListAll())
		case "3":
			m.findByID()
		case "4":
			m.searchByName()
		case "5":
			m.restock()
		case "6":
			m.recordSale()
		case "7":
			m.setStock()
		case "8":
			m.updateDetails()
		case "9":
			m.lowStockReport()
		case "10":
			m.printf("Total inventory value: %s\n", m.repo.TotalValue().StringFixed(2))
		case "11":
			m.deleteProduct()
		case "0":
			m.logger.Info("Exit requested")
			return nil
		default:
			m.printf("Unknown choice: %s\n", strings.TrimSpace(choice))
		}
	}
}

func (m *Menu) printMenu() {
	m.printf(`
=== Stocktake ===
 1. Add product
 2. List all products
 3. Find product by id
 4. Search products by name
 5. Restock
 6. Record sale
 7. Set stock level
 8. Update product details
 9. Low stock report
10. Total inventory value
11. Delete product
 0. Save and exit
`)
}

// addProduct prompts for all fields, validates them and creates the record.
func (m *Menu) addProduct() {
	form, ok := m.readProductForm()
	if !ok {
		return
	}
	price, ok := m.parsePrice(form.Price)
	if !ok {
		return
	}
	product, err := m.repo.Create(form.Name, price, form.Quantity, form.Category)
	if err != nil {
		m.logger.Warn("Create rejected", "error", err)
		m.printf("Could not add product: %v\n", err)
		return
	}
	m.logger.Debug("Product created", "id", product.ID, "name", product.Name)
	m.printf("Added product #%d: %s\n", product.ID, product.Name)
}

func (m *Menu) findByID() {
	id, ok := m.readID()
	if !ok {
		return
	}
	product, err := m.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			m.printf("Product with id %d not found.\n", id)
			return
		}
		m.printf("Lookup failed: %v\n", err)
		return
	}
	m.renderTable([]inventory.Product{product})
}

func (m *Menu) searchByName() {
	query, ok := m.prompt("Name contains: ")
	if !ok {
		return
	}
	query = strings.TrimSpace(query)
	if query == "" {
		m.printf("Search text must not be empty.\n")
		return
	}
	matches := m.repo.FindByName(query)
	if len(matches) == 0 {
		m.printf("No products match %q.\n", query)
		return
	}
	m.renderTable(matches)
}

// restock adds a positive quantity to a record's stock.
func (m *Menu) restock() {
	id, ok := m.readID()
	if !ok {
		return
	}
	qty, ok := m.readPositiveInt("Quantity to add: ")
	if !ok {
		return
	}
	m.applyAdjustment(id, qty)
}

// recordSale removes a positive quantity from a record's stock.
func (m *Menu) recordSale() {
	id, ok := m.readID()
	if !ok {
		return
	}
	qty, ok := m.readPositiveInt("Quantity sold: ")
	if !ok {
		return
	}
	m.applyAdjustment(id, -qty)
}

// setStock sets the exact stock level; the delta is computed against the
// current quantity and applied through the same adjustment path.
func (m *Menu) setStock() {
	id, ok := m.readID()
	if !ok {
		return
	}
	target, ok := m.readInt64("New stock level: ")
	if !ok {
		return
	}
	if target < 0 {
		m.printf("Stock level must not be negative.\n")
		return
	}
	current, err := m.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			m.printf("Product with id %d not found.\n", id)
			return
		}
		m.printf("Lookup failed: %v\n", err)
		return
	}
	m.applyAdjustment(id, target-current.StockQuantity)
}

func (m *Menu) applyAdjustment(id, delta int64) {
	product, err := m.repo.AdjustStock(id, delta)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrProductNotFound):
			m.printf("Product with id %d not found.\n", id)
		case errors.Is(err, apperrors.ErrInsufficientStock):
			m.logger.Warn("Stock adjustment rejected", "id", id, "delta", delta)
			m.printf("Not enough stock for product #%d.\n", id)
		default:
			m.printf("Stock adjustment failed: %v\n", err)
		}
		return
	}
	m.logger.Debug("Stock adjusted", "id", id, "delta", delta, "stock", product.StockQuantity)
	m.printf("Product #%d stock is now %d.\n", product.ID, product.StockQuantity)
}

func (m *Menu) updateDetails() {
	id, ok := m.readID()
	if !ok {
		return
	}
	form, ok := m.readDetailsForm()
	if !ok {
		return
	}
	price, ok := m.parsePrice(form.Price)
	if !ok {
		return
	}
	product, err := m.repo.UpdateDetails(id, form.Name, price, form.Category)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			m.printf("Product with id %d not found.\n", id)
			return
		}
		m.printf("Could not update product: %v\n", err)
		return
	}
	m.logger.Debug("Product updated", "id", product.ID)
	m.printf("Updated product #%d.\n", product.ID)
}

// lowStockReport uses the configured default only when the user supplies no
// value; an explicit 0 means literally zero.
func (m *Menu) lowStockReport() {
	line, ok := m.prompt(fmt.Sprintf("Threshold [default %d]: ", m.defaultThreshold))
	if !ok {
		return
	}
	threshold := m.defaultThreshold
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil || parsed < 0 {
			m.printf("Invalid threshold: %s\n", trimmed)
			return
		}
		threshold = parsed
	}
	list := m.repo.ListLowStock(threshold)
	if len(list) == 0 {
		m.printf("No products at or below stock level %d.\n", threshold)
		return
	}
	m.renderTable(list)
}

func (m *Menu) deleteProduct() {
	id, ok := m.readID()
	if !ok {
		return
	}
	if !m.repo.Delete(id) {
		m.printf("Product with id %d not found.\n", id)
		return
	}
	m.logger.Debug("Product deleted", "id", id)
	m.printf("Deleted product #%d.\n", id)
}

func (m *Menu) readProductForm() (productForm, bool) {
	name, ok := m.prompt("Name: ")
	if !ok {
		return productForm{}, false
	}
	priceText, ok := m.prompt("Price: ")
	if !ok {
		return productForm{}, false
	}
	qty, ok := m.readInt64("Quantity: ")
	if !ok {
		return productForm{}, false
	}
	category, ok := m.prompt("Category: ")
	if !ok {
		return productForm{}, false
	}
	form := productForm{
		Name:     strings.TrimSpace(name),
		Price:    strings.TrimSpace(priceText),
		Quantity: qty,
		Category: strings.TrimSpace(category),
	}
	if !m.validateForm(form) {
		return productForm{}, false
	}
	return form, true
}

// readDetailsForm reads the updatable fields; quantity is not part of an update.
func (m *Menu) readDetailsForm() (productForm, bool) {
	name, ok := m.prompt("New name: ")
	if !ok {
		return productForm{}, false
	}
	priceText, ok := m.prompt("New price: ")
	if !ok {
		return productForm{}, false
	}
	category, ok := m.prompt("New category: ")
	if !ok {
		return productForm{}, false
	}
	form := productForm{
		Name:     strings.TrimSpace(name),
		Price:    strings.TrimSpace(priceText),
		Category: strings.TrimSpace(category),
	}
	if !m.validateForm(form) {
		return productForm{}, false
	}
	return form, true
}

func (m *Menu) validateForm(form productForm) bool {
	if err := m.validate.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				m.printf("Invalid %s: failed on rule %q\n", fieldErr.Field(), fieldErr.Tag())
			}
			m.logger.Warn("Validation errors occurred", "error", err)
			return false
		}
		m.printf("Invalid input: %v\n", err)
		return false
	}
	return true
}

func (m *Menu) parsePrice(text string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(text)
	if err != nil {
		m.printf("Invalid price: %s\n", text)
		return decimal.Decimal{}, false
	}
	if price.IsNegative() {
		m.printf("Price must not be negative.\n")
		return decimal.Decimal{}, false
	}
	return price, true
}

func (m *Menu) readID() (int64, bool) {
	return m.readInt64("Product id: ")
}

func (m *Menu) readInt64(label string) (int64, bool) {
	line, ok := m.prompt(label)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		m.printf("Invalid number: %s\n", strings.TrimSpace(line))
		return 0, false
	}
	return value, true
}

func (m *Menu) readPositiveInt(label string) (int64, bool) {
	value, ok := m.readInt64(label)
	if !ok {
		return 0, false
	}
	if value <= 0 {
		m.printf("Quantity must be positive.\n")
		return 0, false
	}
	return value, true
}

// prompt prints the label and reads one line; false means the input is closed.
func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
