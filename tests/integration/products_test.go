package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/store"
	"github.com/shopspring/decimal"
)

func TestCreateAndGetProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	created := createTestProduct(t, db, "Walnut Halves", "145.00", "259.00", 12, 6)

	fetched, err := store.GetProduct(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if fetched.Name != "Walnut Halves" {
		t.Errorf("Expected name Walnut Halves, got %q", fetched.Name)
	}
	if got := fetched.Price500g.StringFixed(2); got != "145.00" {
		t.Errorf("Expected price500g 145.00, got %s", got)
	}
	if fetched.Stock500g != 12 || fetched.Stock1kg != 6 {
		t.Errorf("Expected stock 12/6, got %d/%d", fetched.Stock500g, fetched.Stock1kg)
	}
	if fetched.IsSpecial {
		t.Error("New product should not be special")
	}
}

func TestGetProductNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := store.GetProduct(context.Background(), db, 9999)
	if !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got: %v", err)
	}
}

func TestSetProductStockOverride(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	product := createTestProduct(t, db, "Oats", "39.00", "59.00", 0, 0)

	updated, err := store.SetProductStock(ctx, db, product.ID, 40, 25)
	if err != nil {
		t.Fatalf("Set product stock: %v", err)
	}
	if updated.Stock500g != 40 || updated.Stock1kg != 25 {
		t.Errorf("Expected stock 40/25, got %d/%d", updated.Stock500g, updated.Stock1kg)
	}
}

func TestSetProductSpecial(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	product := createTestProduct(t, db, "Jelly Beans", "89.00", "159.00", 10, 10)

	updated, err := store.SetProductSpecial(ctx, db, product.ID, true)
	if err != nil {
		t.Fatalf("Set product special: %v", err)
	}
	if !updated.IsSpecial {
		t.Error("Product should be marked special")
	}

	updated, err = store.SetProductSpecial(ctx, db, product.ID, false)
	if err != nil {
		t.Fatalf("Unset product special: %v", err)
	}
	if updated.IsSpecial {
		t.Error("Product should no longer be special")
	}
}

func TestListProductsByCategory(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	createTestProduct(t, db, "Almonds Plain", "125.00", "229.00", 10, 10)
	_, err := store.CreateProduct(ctx, db, store.CreateProductParams{
		Name:      "Mango Strips",
		Category:  "Dried Fruit",
		Price500g: decimal.RequireFromString("179.00"),
		Price1kg:  decimal.RequireFromString("309.00"),
	})
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	all, err := store.ListProducts(ctx, db, "")
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 products, got %d", len(all))
	}

	dried, err := store.ListProducts(ctx, db, "Dried Fruit")
	if err != nil {
		t.Fatalf("List products by category: %v", err)
	}
	if len(dried) != 1 || dried[0].Name != "Mango Strips" {
		t.Errorf("Expected only Mango Strips in Dried Fruit, got %v", dried)
	}
}

func TestShopSettings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	settings, err := store.GetShopSettings(ctx, db)
	if err != nil {
		t.Fatalf("Get shop settings: %v", err)
	}
	if !settings.IsOpen {
		t.Error("Shop should be open after migration")
	}

	settings, err = store.SetShopSettings(ctx, db, false, "Back on Monday")
	if err != nil {
		t.Fatalf("Set shop settings: %v", err)
	}
	if settings.IsOpen {
		t.Error("Shop should be closed")
	}
	if settings.ClosedMessage != "Back on Monday" {
		t.Errorf("Expected closed message, got %q", settings.ClosedMessage)
	}
}
