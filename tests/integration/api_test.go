package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noshco/storefront/internal/config"
	"github.com/noshco/storefront/internal/httpapi"
	"github.com/noshco/storefront/internal/store"
)

func TestOrderEndpointShopClosed(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	product := createTestProduct(t, db, "Jelly Beans", "89.00", "159.00", 10, 10)

	cfg := &config.Config{
		Server: config.ServerConfig{Development: true},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Orders: config.OrderConfig{QuantityCap: 100},
	}

	gin.SetMode(gin.TestMode)
	router := httpapi.NewRouter(httpapi.NewHandler(db, cfg), cfg)

	body := fmt.Sprintf(`{"items":[{"id":%d,"size":"500g","quantity":1}]}`, product.ID)

	if _, err := store.SetShopSettings(ctx, db, false, "Back on Monday"); err != nil {
		t.Fatalf("Close shop: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 while closed, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if resp["error"] != "Back on Monday" {
		t.Errorf("Expected closed message in response, got %q", resp["error"])
	}
	if count := countOrders(t, db); count != 0 {
		t.Errorf("Expected no orders while closed, got %d", count)
	}

	if _, err := store.SetShopSettings(ctx, db, true, ""); err != nil {
		t.Fatalf("Reopen shop: %v", err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 after reopening, got %d: %s", rec.Code, rec.Body.String())
	}
}
