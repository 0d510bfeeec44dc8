package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/models"
	"github.com/noshco/storefront/internal/pricing"
)

type CreateOrderRequest struct {
	Items         []pricing.Item
	PudoLocation  string
	PaymentMethod string
	CustomerEmail string
	CustomerPhone string
	QuantityCap   int
}

const orderColumns = `id, status, total, items, pudo_location, payment_method, payment_verified, payfast_transaction_id, customer_email, customer_phone, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, o *models.Order) error {
	return row.Scan(
		&o.ID,
		&o.Status,
		&o.Total,
		&o.Items,
		&o.PudoLocation,
		&o.PaymentMethod,
		&o.PaymentVerified,
		&o.PayfastTransactionID,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// CreateOrder runs the whole checkout as one transaction: lock the touched
// product rows, verify and apply the aggregated stock decrements, price the
// basket from the locked rows, and insert the order with status pending.
// Either everything commits or nothing does: an order row exists only if
// stock was reserved for it.
func CreateOrder(ctx context.Context, db *sql.DB, req CreateOrderRequest) (*models.Order, error) {
	if err := pricing.ValidateItems(req.Items, req.QuantityCap); err != nil {
		return nil, err
	}

	settings, err := GetShopSettings(ctx, db)
	if err != nil {
		return nil, err
	}
	if !settings.IsOpen {
		return nil, &ShopClosedError{Message: settings.ClosedMessage}
	}

	var order *models.Order

	err = database.WithRetry(ctx, db, database.TxOptions{
		IsolationLevel: sql.LevelSerializable,
		MaxRetries:     3,
	}, func(tx *sql.Tx) error {
		products, err := lockAndDecrementStock(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		lineItems, total, err := pricing.PriceItems(products, req.Items, req.QuantityCap)
		if err != nil {
			return err
		}

		order = &models.Order{}
		err = scanOrder(tx.QueryRowContext(ctx,
			`INSERT INTO orders (id, status, total, items, pudo_location, payment_method, payment_verified, payfast_transaction_id, customer_email, customer_phone, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, FALSE, '', $7, $8, NOW(), NOW())
			 RETURNING `+orderColumns,
			uuid.NewString(),
			models.OrderStatusPending,
			total,
			lineItems,
			req.PudoLocation,
			req.PaymentMethod,
			req.CustomerEmail,
			req.CustomerPhone,
		), order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return order, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id string) (*models.Order, error) {
	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	err := scanOrder(db.QueryRowContext(ctx, query, id), order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

// SettleOrderPayment moves a pending order to its terminal status and records
// the gateway transaction. The status guard makes duplicate gateway
// notifications a no-op: the first one wins, later ones report applied=false.
func SettleOrderPayment(ctx context.Context, db *sql.DB, id, status string, verified bool, transactionID string) (bool, error) {
	if status != models.OrderStatusPaid && status != models.OrderStatusFailed {
		return false, fmt.Errorf("settle order payment: invalid target status %q", status)
	}

	var applied bool

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE orders
			 SET status = $2, payment_verified = $3, payfast_transaction_id = $4, updated_at = NOW()
			 WHERE id = $1 AND status = $5`,
			id, status, verified, transactionID, models.OrderStatusPending)
		if err != nil {
			return fmt.Errorf("settle order payment: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}

		applied = rowsAffected == 1
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

// ListOrders pages through orders newest-first for the admin dashboard.
func ListOrders(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return NewOffsetPage(orders, total, page, pageSize), nil
}
