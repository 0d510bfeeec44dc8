package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/models"
	"github.com/noshco/storefront/internal/pricing"
	"github.com/noshco/storefront/internal/store"
)

type createOrderRequest struct {
	Items []struct {
		ID       int64       `json:"id"`
		Size     models.Size `json:"size"`
		Quantity int         `json:"quantity"`
	} `json:"items"`
	PudoLocation  string `json:"pudoLocation"`
	PaymentMethod string `json:"paymentMethod"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

// CreateOrder prices the basket server-side and reserves stock atomically.
// Any price or total fields a client smuggles into the body are simply not
// part of the request type and never read.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]pricing.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, pricing.Item{
			ProductID: item.ID,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}

	order, err := store.CreateOrder(c.Request.Context(), h.db, store.CreateOrderRequest{
		Items:         items,
		PudoLocation:  req.PudoLocation,
		PaymentMethod: req.PaymentMethod,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		QuantityCap:   h.cfg.Orders.QuantityCap,
	})
	if err != nil {
		var validationErr *pricing.ValidationError
		var notFoundErr *pricing.NotFoundError
		var stockErr *store.StockError
		var closedErr *store.ShopClosedError
		switch {
		case errors.As(err, &closedErr):
			respondError(c, http.StatusServiceUnavailable, closedErr.Error())
		case errors.As(err, &validationErr):
			respondError(c, http.StatusBadRequest, validationErr.Reason)
		case errors.As(err, &notFoundErr):
			respondError(c, http.StatusBadRequest, notFoundErr.Error())
		case errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": stockErr.Error(),
				"stock": stockErr,
			})
		case errors.Is(err, database.ErrInsufficientStock):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := store.GetOrder(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "Order not found")
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	result, err := store.ListOrders(c.Request.Context(), h.db, page, pageSize)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
