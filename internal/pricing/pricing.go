// Package pricing computes authoritative order totals from catalog prices.
// Client-supplied prices or totals are never consulted: every line is priced
// from the product row current at read time.
package pricing

import (
	"fmt"

	"github.com/noshco/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultQuantityCap bounds a single line item's quantity.
const DefaultQuantityCap = 100

type Item struct {
	ProductID int64
	Size      models.Size
	Quantity  int
}

// ValidationError reports malformed basket input. It maps to a 400 response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError reports a basket line referencing an unknown product.
type NotFoundError struct {
	ProductID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// ValidateItems checks basket shape before any database work: non-empty,
// known sizes, positive quantities within the cap. Any failure aborts the
// whole basket.
func ValidateItems(items []Item, quantityCap int) error {
	if quantityCap <= 0 {
		quantityCap = DefaultQuantityCap
	}
	if len(items) == 0 {
		return &ValidationError{Reason: "order must contain at least one item"}
	}
	for i, item := range items {
		if item.ProductID <= 0 {
			return &ValidationError{Reason: fmt.Sprintf("item %d: invalid product id", i)}
		}
		if !item.Size.Valid() {
			return &ValidationError{Reason: fmt.Sprintf("item %d: invalid size %q", i, item.Size)}
		}
		if item.Quantity <= 0 {
			return &ValidationError{Reason: fmt.Sprintf("item %d: quantity must be positive", i)}
		}
		if item.Quantity > quantityCap {
			return &ValidationError{Reason: fmt.Sprintf("item %d: quantity %d exceeds maximum of %d", i, item.Quantity, quantityCap)}
		}
	}
	return nil
}

// PriceItems produces priced line-item snapshots and the order total from the
// given product rows. Unit prices come from the product's per-size price
// point; subtotals and the total are rounded to 2 decimal places, half away
// from zero. Errors abort the whole calculation, never a partial result.
func PriceItems(products map[int64]*models.Product, items []Item, quantityCap int) (models.OrderItems, decimal.Decimal, error) {
	if err := ValidateItems(items, quantityCap); err != nil {
		return nil, decimal.Zero, err
	}

	lines := make(models.OrderItems, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, decimal.Zero, &NotFoundError{ProductID: item.ProductID}
		}

		unitPrice := product.Price(item.Size)
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)

		lines = append(lines, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      item.Size,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	return lines, total.Round(2), nil
}
