// Package httpapi exposes the storefront over HTTP: public catalog and
// checkout endpoints, the PayFast webhook, and admin management routes.
package httpapi

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noshco/storefront/internal/config"
	"github.com/noshco/storefront/internal/logging"
	"github.com/noshco/storefront/internal/payfast"
)

type Handler struct {
	db       *sql.DB
	cfg      *config.Config
	verifier *payfast.Verifier
	log      *slog.Logger
}

func NewHandler(db *sql.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:       db,
		cfg:      cfg,
		verifier: payfast.NewVerifier(cfg, payfast.DBStore{DB: db}, logging.New("payfast")),
		log:      logging.New("httpapi"),
	}
}

// internalError responds with a generic 500 carrying a correlation id for
// support lookup. Error details are only echoed in development mode.
func (h *Handler) internalError(c *gin.Context, err error) {
	errorID := fmt.Sprintf("ERR-%d-%04x", time.Now().UnixMilli(), rand.Intn(1<<16))

	logging.From(c).Error("request failed",
		"error_id", errorID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err)

	body := gin.H{"error": "Internal Server Error", "errorId": errorID}
	if h.cfg.Server.Development {
		body["detail"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
