package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/models"
	"github.com/noshco/storefront/internal/pricing"
)

// StockError reports a decrement that would oversell. It names the shortfall
// so the storefront can tell the customer what is still available.
type StockError struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	Size      models.Size `json:"size"`
	Available int         `json:"available"`
	Requested int         `json:"requested"`
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): %d available, %d requested",
		e.Name, e.Size, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error {
	return database.ErrInsufficientStock
}

type stockKey struct {
	ProductID int64
	Size      models.Size
}

// aggregateQuantities sums requested quantities per (product, size) and
// returns the distinct product ids in ascending order. Checking each basket
// line independently would let two lines that each fit pass while their sum
// oversells, so the ledger always aggregates before checking. Ascending lock
// order keeps concurrent multi-product orders from deadlocking.
func aggregateQuantities(items []pricing.Item) (map[stockKey]int, []int64) {
	totals := make(map[stockKey]int, len(items))
	seen := make(map[int64]bool, len(items))
	var ids []int64

	for _, item := range items {
		totals[stockKey{ProductID: item.ProductID, Size: item.Size}] += item.Quantity
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return totals, ids
}

// lockAndDecrementStock locks every touched product row, verifies the
// aggregated per-size quantities against current stock, and applies the
// decrements. Any shortfall or missing product aborts with no rows changed;
// the caller's transaction rollback discards everything. The locked product
// rows are returned so the caller can price line items from the same reads.
func lockAndDecrementStock(ctx context.Context, tx *sql.Tx, items []pricing.Item) (map[int64]*models.Product, error) {
	totals, ids := aggregateQuantities(items)

	products := make(map[int64]*models.Product, len(ids))
	for _, id := range ids {
		product := &models.Product{}
		query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
		if err := scanProduct(tx.QueryRowContext(ctx, query, id), product); err != nil {
			if err == sql.ErrNoRows {
				return nil, &pricing.NotFoundError{ProductID: id}
			}
			return nil, fmt.Errorf("lock product %d: %w", id, err)
		}
		products[id] = product
	}

	for key, requested := range totals {
		product := products[key.ProductID]
		if available := product.Stock(key.Size); available < requested {
			return nil, &StockError{
				ProductID: product.ID,
				Name:      product.Name,
				Size:      key.Size,
				Available: available,
				Requested: requested,
			}
		}
	}

	for _, id := range ids {
		product := products[id]
		new500 := product.Stock500g - totals[stockKey{ProductID: id, Size: models.Size500g}]
		new1kg := product.Stock1kg - totals[stockKey{ProductID: id, Size: models.Size1kg}]

		// The row is locked and the sufficiency check already passed, so the
		// new counts cannot go negative; the schema CHECK constraints remain
		// as a backstop.
		_, err := tx.ExecContext(ctx,
			`UPDATE products
			 SET stock_500g = $2, stock_1kg = $3, updated_at = NOW()
			 WHERE id = $1`,
			id, new500, new1kg)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for product %d: %w", id, err)
		}
	}

	return products, nil
}
