package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/models"
)

// The shop_settings table holds exactly one row (id = 1), seeded by the
// initial migration.

// ShopClosedError rejects checkout while the shop is closed. Message is the
// admin-set notice shown to customers; Error falls back to a generic one.
type ShopClosedError struct {
	Message string
}

func (e *ShopClosedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "The shop is currently closed"
}

func (e *ShopClosedError) Unwrap() error {
	return database.ErrShopClosed
}

func GetShopSettings(ctx context.Context, db *sql.DB) (*models.ShopSettings, error) {
	settings := &models.ShopSettings{}

	query := `SELECT is_open, closed_message, updated_at FROM shop_settings WHERE id = 1`

	err := db.QueryRowContext(ctx, query).Scan(
		&settings.IsOpen,
		&settings.ClosedMessage,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get shop settings: %w", err)
	}

	return settings, nil
}

func SetShopSettings(ctx context.Context, db *sql.DB, isOpen bool, closedMessage string) (*models.ShopSettings, error) {
	settings := &models.ShopSettings{}

	query := `
		UPDATE shop_settings
		SET is_open = $1, closed_message = $2, updated_at = NOW()
		WHERE id = 1
		RETURNING is_open, closed_message, updated_at`

	err := db.QueryRowContext(ctx, query, isOpen, closedMessage).Scan(
		&settings.IsOpen,
		&settings.ClosedMessage,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("set shop settings: %w", err)
	}

	return settings, nil
}
