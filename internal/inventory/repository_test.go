package inventory

import (
	"testing"
	"time"

	apperrors "github.com/abgdnv/stocktake/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustDecimal is a test helper converting a literal to a decimal.
func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func Test_Repository_Create(t *testing.T) {
	testCases := []struct {
		name        string
		productName string
		price       string
		quantity    int64
		category    string
		expectError error
	}{
		{
			name:        "Success - valid product",
			productName: "Wireless Mouse",
			price:       "29.99",
			quantity:    50,
			category:    "Electronics",
			expectError: nil,
		},
		{
			name:        "Success - zero price and quantity",
			productName: "Sample Sticker",
			price:       "0",
			quantity:    0,
			category:    "Promo",
			expectError: nil,
		},
		{
			name:        "Error - negative price",
			productName: "Broken Pricing",
			price:       "-0.01",
			quantity:    1,
			category:    "Electronics",
			expectError: apperrors.ErrNegativePrice,
		},
		{
			name:        "Error - negative quantity",
			productName: "Broken Quantity",
			price:       "1.00",
			quantity:    -1,
			category:    "Electronics",
			expectError: apperrors.ErrNegativeQuantity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := NewRepository()
			before := time.Now().UTC()
			// when
			created, err := repo.Create(tc.productName, mustDecimal(t, tc.price), tc.quantity, tc.category)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Empty(t, repo.ListAll())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), created.ID)
			assert.Equal(t, tc.productName, created.Name)
			assert.True(t, created.Price.Equal(mustDecimal(t, tc.price)))
			assert.Equal(t, tc.quantity, created.StockQuantity)
			assert.Equal(t, tc.category, created.Category)
			assert.False(t, created.LastUpdated.Before(before))
		})
	}
}

func Test_Repository_Create_IdsStrictlyIncrease(t *testing.T) {
	// given
	repo := NewRepository()
	price := mustDecimal(t, "1.00")
	// when
	var lastID int64
	for i := 0; i < 5; i++ {
		created, err := repo.Create("Widget", price, 1, "Misc")
		// then
		require.NoError(t, err)
		assert.Greater(t, created.ID, lastID)
		lastID = created.ID
	}
}

func Test_Repository_Delete_DoesNotReleaseID(t *testing.T) {
	// given
	repo := NewRepository()
	price := mustDecimal(t, "1.00")
	first, err := repo.Create("First", price, 1, "Misc")
	require.NoError(t, err)
	second, err := repo.Create("Second", price, 1, "Misc")
	require.NoError(t, err)
	// when: deleting the record holding the max id
	require.True(t, repo.Delete(second.ID))
	third, err := repo.Create("Third", price, 1, "Misc")
	// then: the deleted id is not reused
	require.NoError(t, err)
	assert.Equal(t, second.ID+1, third.ID)
	assert.Greater(t, third.ID, first.ID)
}

func Test_Repository_Delete(t *testing.T) {
	// given
	repo := NewRepository()
	created, err := repo.Create("Office Chair", mustDecimal(t, "199.99"), 15, "Furniture")
	require.NoError(t, err)
	// when / then
	assert.True(t, repo.Delete(created.ID))
	assert.False(t, repo.Delete(created.ID), "second delete must report absence")
	_, err = repo.FindByID(created.ID)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func Test_Repository_FindByID(t *testing.T) {
	// given
	repo := NewRepository()
	created, err := repo.Create("Desk Lamp", mustDecimal(t, "12.50"), 7, "Lighting")
	require.NoError(t, err)
	// when / then
	found, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = repo.FindByID(999)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func Test_Repository_FindByName(t *testing.T) {
	// given
	repo := NewRepository()
	price := mustDecimal(t, "10.00")
	_, err := repo.Create("Wireless Mouse", price, 5, "Electronics")
	require.NoError(t, err)
	_, err = repo.Create("Wired Mouse", price, 5, "Electronics")
	require.NoError(t, err)
	_, err = repo.Create("Office Chair", price, 5, "Furniture")
	require.NoError(t, err)

	testCases := []struct {
		name          string
		query         string
		expectedNames []string
	}{
		{
			name:          "Success - case-insensitive substring",
			query:         "mOuSe",
			expectedNames: []string{"Wireless Mouse", "Wired Mouse"},
		},
		{
			name:          "Success - no match yields empty slice",
			query:         "keyboard",
			expectedNames: []string{},
		},
		{
			name:          "Success - empty query matches everything",
			query:         "",
			expectedNames: []string{"Wireless Mouse", "Wired Mouse", "Office Chair"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			matches := repo.FindByName(tc.query)
			// then
			require.NotNil(t, matches)
			names := make([]string, len(matches))
			for i, p := range matches {
				names[i] = p.Name
			}
			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func Test_Repository_AdjustStock(t *testing.T) {
	testCases := []struct {
		name          string
		startQuantity int64
		delta         int64
		expectedStock int64
		expectError   error
	}{
		{
			name:          "Success - restock",
			startQuantity: 10,
			delta:         5,
			expectedStock: 15,
		},
		{
			name:          "Success - sale down to zero",
			startQuantity: 10,
			delta:         -10,
			expectedStock: 0,
		},
		{
			name:          "Error - would go negative",
			startQuantity: 15,
			delta:         -20,
			expectError:   apperrors.ErrInsufficientStock,
		},
		{
			name:          "Error - one past the full quantity",
			startQuantity: 7,
			delta:         -8,
			expectError:   apperrors.ErrInsufficientStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := NewRepository()
			created, err := repo.Create("Widget", mustDecimal(t, "2.50"), tc.startQuantity, "Misc")
			require.NoError(t, err)
			// when
			updated, err := repo.AdjustStock(created.ID, tc.delta)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				unchanged, findErr := repo.FindByID(created.ID)
				require.NoError(t, findErr)
				assert.Equal(t, tc.startQuantity, unchanged.StockQuantity)
				assert.Equal(t, created.LastUpdated, unchanged.LastUpdated, "failed adjustment must not touch LastUpdated")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStock, updated.StockQuantity)
			assert.False(t, updated.LastUpdated.Before(created.LastUpdated))
		})
	}
}

func Test_Repository_AdjustStock_UnknownID(t *testing.T) {
	// given
	repo := NewRepository()
	// when
	_, err := repo.AdjustStock(42, 1)
	// then
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func Test_Repository_UpdateDetails(t *testing.T) {
	// given
	repo := NewRepository()
	created, err := repo.Create("Old Name", mustDecimal(t, "5.00"), 3, "Old Category")
	require.NoError(t, err)
	// when
	updated, err := repo.UpdateDetails(created.ID, "New Name", mustDecimal(t, "6.50"), "New Category")
	// then
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.True(t, updated.Price.Equal(mustDecimal(t, "6.50")))
	assert.Equal(t, "New Category", updated.Category)
	assert.Equal(t, created.StockQuantity, updated.StockQuantity, "details update must not touch stock")
	assert.False(t, updated.LastUpdated.Before(created.LastUpdated))

	// negative price is rejected and nothing changes
	_, err = repo.UpdateDetails(created.ID, "Bad", mustDecimal(t, "-1"), "Bad")
	assert.ErrorIs(t, err, apperrors.ErrNegativePrice)
	unchanged, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", unchanged.Name)

	// unknown id
	_, err = repo.UpdateDetails(999, "Ghost", mustDecimal(t, "1"), "None")
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func Test_Repository_ListAll_OrderedByID(t *testing.T) {
	// given
	repo := NewRepository()
	price := mustDecimal(t, "1.00")
	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := repo.Create(name, price, 1, "Misc")
		require.NoError(t, err)
	}
	require.True(t, repo.Delete(2))
	// when
	list := repo.ListAll()
	// then
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 3, 4}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func Test_Repository_ListLowStock(t *testing.T) {
	// given
	repo := NewRepository()
	price := mustDecimal(t, "1.00")
	for _, q := range []int64{0, 3, 5, 6, 10} {
		_, err := repo.Create("Widget", price, q, "Misc")
		require.NoError(t, err)
	}
	// when
	list := repo.ListLowStock(5)
	// then
	require.Len(t, list, 3)
	quantities := []int64{list[0].StockQuantity, list[1].StockQuantity, list[2].StockQuantity}
	assert.Equal(t, []int64{0, 3, 5}, quantities)
}

func Test_Repository_ListLowStock_ZeroThresholdIsLiteral(t *testing.T) {
	// given
	repo := NewRepository()
	price := mustDecimal(t, "1.00")
	_, err := repo.Create("Out of stock", price, 0, "Misc")
	require.NoError(t, err)
	_, err = repo.Create("In stock", price, 4, "Misc")
	require.NoError(t, err)
	// when
	list := repo.ListLowStock(0)
	// then
	require.Len(t, list, 1)
	assert.Equal(t, "Out of stock", list[0].Name)
}

func Test_Repository_ListLowStock_TiesOrderedByID(t *testing.T) {
	// given
	repo := NewRepository()
	price := mustDecimal(t, "1.00")
	for i := 0; i < 3; i++ {
		_, err := repo.Create("Widget", price, 2, "Misc")
		require.NoError(t, err)
	}
	// when
	list := repo.ListLowStock(2)
	// then
	require.Len(t, list, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func Test_Repository_TotalValue_ExactDecimalSum(t *testing.T) {
	// given
	repo := NewRepository()
	items := []struct {
		price    string
		quantity int64
	}{
		{"99.99", 100},
		{"29.99", 50},
		{"199.99", 15},
	}
	for _, item := range items {
		_, err := repo.Create("Widget", mustDecimal(t, item.price), item.quantity, "Misc")
		require.NoError(t, err)
	}
	// when
	total := repo.TotalValue()
	// then: 9999.00 + 1499.50 + 2999.85, summed without float drift
	assert.True(t, total.Equal(mustDecimal(t, "14498.35")), "got %s", total)
}

func Test_Repository_TotalValue_Empty(t *testing.T) {
	// given
	repo := NewRepository()
	// when / then
	assert.True(t, repo.TotalValue().IsZero())
}

func Test_Repository_LoadFrom(t *testing.T) {
	testCases := []struct {
		name           string
		records        []Product
		expectedNextID int64
	}{
		{
			name:           "Success - empty set resets next id to 1",
			records:        []Product{},
			expectedNextID: 1,
		},
		{
			name: "Success - next id is max id plus one",
			records: []Product{
				{ID: 3, Name: "C", Price: decimal.New(100, -2), StockQuantity: 1, Category: "Misc", LastUpdated: time.Now().UTC()},
				{ID: 7, Name: "G", Price: decimal.New(100, -2), StockQuantity: 1, Category: "Misc", LastUpdated: time.Now().UTC()},
			},
			expectedNextID: 8,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := NewRepository()
			_, err := repo.Create("Preexisting", decimal.New(100, -2), 1, "Misc")
			require.NoError(t, err)
			// when
			repo.LoadFrom(tc.records)
			// then
			assert.Len(t, repo.ListAll(), len(tc.records))
			created, err := repo.Create("Next", decimal.New(100, -2), 1, "Misc")
			require.NoError(t, err)
			assert.Equal(t, tc.expectedNextID, created.ID)
		})
	}
}

func Test_Repository_Scenario_CreateDeleteLookup(t *testing.T) {
	// given
	repo := NewRepository()
	// when
	mouse, err := repo.Create("Wireless Mouse", mustDecimal(t, "29.99"), 50, "Electronics")
	require.NoError(t, err)
	chair, err := repo.Create("Office Chair", mustDecimal(t, "199.99"), 15, "Furniture")
	require.NoError(t, err)
	// then
	assert.Equal(t, int64(1), mouse.ID)
	assert.Equal(t, int64(2), chair.ID)

	assert.True(t, repo.Delete(mouse.ID))
	_, err = repo.FindByID(mouse.ID)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

	found, err := repo.FindByID(chair.ID)
	require.NoError(t, err)
	assert.Equal(t, "Office Chair", found.Name)

	// a sale larger than the stock is rejected in full
	_, err = repo.AdjustStock(chair.ID, -20)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	unchanged, err := repo.FindByID(chair.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), unchanged.StockQuantity)
}
