package pricing

import (
	"testing"

	"github.com/noshco/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) map[int64]*models.Product {
	t.Helper()
	return map[int64]*models.Product{
		4: {
			ID:        4,
			Name:      "Cashews Plain",
			Category:  "Nuts",
			Price500g: decimal.RequireFromString("149.00"),
			Price1kg:  decimal.RequireFromString("259.00"),
		},
		23: {
			ID:        23,
			Name:      "Dates",
			Category:  "Dried Fruit",
			Price500g: decimal.RequireFromString("45.00"),
			Price1kg:  decimal.RequireFromString("69.00"),
		},
	}
}

func TestPriceItemsSingleLine(t *testing.T) {
	products := testCatalog(t)

	lines, total, err := PriceItems(products, []Item{
		{ProductID: 4, Size: models.Size500g, Quantity: 3},
	}, 0)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, int64(4), lines[0].ProductID)
	assert.Equal(t, "Cashews Plain", lines[0].Name)
	assert.Equal(t, models.Size500g, lines[0].Size)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("149.00")),
		"unit price snapshot should come from the catalog")
	assert.Equal(t, "447.00", total.StringFixed(2))
}

func TestPriceItemsMixedSizes(t *testing.T) {
	products := testCatalog(t)

	lines, total, err := PriceItems(products, []Item{
		{ProductID: 4, Size: models.Size1kg, Quantity: 1},
		{ProductID: 23, Size: models.Size500g, Quantity: 2},
	}, 0)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("259.00")),
		"1kg line should use the 1kg price point")
	assert.True(t, lines[1].UnitPrice.Equal(decimal.RequireFromString("45.00")))
	// 259.00 + 90.00
	assert.Equal(t, "349.00", total.StringFixed(2))
}

func TestPriceItemsRoundsHalfAwayFromZero(t *testing.T) {
	// A sub-cent price exercises the currency rounding convention: 0.125
	// rounds up to 0.13, not to the even 0.12.
	products := map[int64]*models.Product{
		1: {
			ID:        1,
			Name:      "Sample",
			Price500g: decimal.RequireFromString("0.125"),
		},
	}

	_, total, err := PriceItems(products, []Item{
		{ProductID: 1, Size: models.Size500g, Quantity: 1},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "0.13", total.StringFixed(2))
}

func TestPriceItemsUnknownProduct(t *testing.T) {
	products := testCatalog(t)

	_, _, err := PriceItems(products, []Item{
		{ProductID: 4, Size: models.Size500g, Quantity: 1},
		{ProductID: 999, Size: models.Size500g, Quantity: 1},
	}, 0)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(999), notFound.ProductID)
}

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name    string
		items   []Item
		wantErr string
	}{
		{
			name:    "empty basket",
			items:   nil,
			wantErr: "at least one item",
		},
		{
			name:    "invalid size",
			items:   []Item{{ProductID: 1, Size: "2kg", Quantity: 1}},
			wantErr: "invalid size",
		},
		{
			name:    "zero quantity",
			items:   []Item{{ProductID: 1, Size: models.Size500g, Quantity: 0}},
			wantErr: "quantity must be positive",
		},
		{
			name:    "negative quantity",
			items:   []Item{{ProductID: 1, Size: models.Size1kg, Quantity: -2}},
			wantErr: "quantity must be positive",
		},
		{
			name:    "over cap",
			items:   []Item{{ProductID: 1, Size: models.Size500g, Quantity: 101}},
			wantErr: "exceeds maximum",
		},
		{
			name:    "invalid product id",
			items:   []Item{{ProductID: 0, Size: models.Size500g, Quantity: 1}},
			wantErr: "invalid product id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItems(tt.items, 0)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Contains(t, validation.Reason, tt.wantErr)
		})
	}
}

func TestValidateItemsCustomCap(t *testing.T) {
	items := []Item{{ProductID: 1, Size: models.Size500g, Quantity: 10}}
	require.NoError(t, ValidateItems(items, 10))

	err := ValidateItems([]Item{{ProductID: 1, Size: models.Size500g, Quantity: 11}}, 10)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestPriceItemsAbortsWholeBasketOnError(t *testing.T) {
	products := testCatalog(t)

	lines, total, err := PriceItems(products, []Item{
		{ProductID: 4, Size: models.Size500g, Quantity: 1},
		{ProductID: 4, Size: "bogus", Quantity: 1},
	}, 0)

	require.Error(t, err)
	assert.Nil(t, lines, "no partial pricing on error")
	assert.True(t, total.IsZero())
}
