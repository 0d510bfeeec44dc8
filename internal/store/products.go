package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, category, price_500g, price_1kg, stock_500g, stock_1kg, is_special, image_url, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, p *models.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Price500g,
		&p.Price1kg,
		&p.Stock500g,
		&p.Stock1kg,
		&p.IsSpecial,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

type CreateProductParams struct {
	Name      string
	Category  string
	Price500g decimal.Decimal
	Price1kg  decimal.Decimal
	Stock500g int
	Stock1kg  int
	ImageURL  *string
}

func CreateProduct(ctx context.Context, db *sql.DB, params CreateProductParams) (*models.Product, error) {
	product := &models.Product{}

	query := `
		INSERT INTO products (name, category, price_500g, price_1kg, stock_500g, stock_1kg, is_special, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, NOW(), NOW())
		RETURNING ` + productColumns

	err := scanProduct(db.QueryRowContext(ctx, query,
		params.Name,
		params.Category,
		params.Price500g,
		params.Price1kg,
		params.Stock500g,
		params.Stock1kg,
		params.ImageURL,
	), product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	product := &models.Product{}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	err := scanProduct(db.QueryRowContext(ctx, query, id), product)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

// ListProducts returns the catalog, optionally filtered by category. The
// catalog is small so the storefront always fetches it whole.
func ListProducts(ctx context.Context, db *sql.DB, category string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// SetProductStock is the admin override: it writes absolute counts for both
// sizes, bypassing the decrement path used by checkout.
func SetProductStock(ctx context.Context, db *sql.DB, id int64, stock500g, stock1kg int) (*models.Product, error) {
	product := &models.Product{}

	query := `
		UPDATE products
		SET stock_500g = $2, stock_1kg = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	err := scanProduct(db.QueryRowContext(ctx, query, id, stock500g, stock1kg), product)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("set product stock: %w", err)
	}

	return product, nil
}

func SetProductSpecial(ctx context.Context, db *sql.DB, id int64, isSpecial bool) (*models.Product, error) {
	product := &models.Product{}

	query := `
		UPDATE products
		SET is_special = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	err := scanProduct(db.QueryRowContext(ctx, query, id, isSpecial), product)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("set product special: %w", err)
	}

	return product, nil
}

func SetProductPrices(ctx context.Context, db *sql.DB, id int64, price500g, price1kg decimal.Decimal) (*models.Product, error) {
	product := &models.Product{}

	query := `
		UPDATE products
		SET price_500g = $2, price_1kg = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	err := scanProduct(db.QueryRowContext(ctx, query, id, price500g, price1kg), product)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("set product prices: %w", err)
	}

	return product, nil
}
