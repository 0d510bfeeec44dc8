package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/store"
	"github.com/shopspring/decimal"
)

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := store.ListProducts(c.Request.Context(), h.db, c.Query("category"))
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := store.GetProduct(c.Request.Context(), h.db, id)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category" binding:"required"`
	Price500g string  `json:"price500g" binding:"required"`
	Price1kg  string  `json:"price1kg" binding:"required"`
	Stock500g int     `json:"stock500g"`
	Stock1kg  int     `json:"stock1kg"`
	ImageURL  *string `json:"imageUrl"`
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	price500g, price1kg, ok := parsePrices(c, req.Price500g, req.Price1kg)
	if !ok {
		return
	}
	if req.Stock500g < 0 || req.Stock1kg < 0 {
		respondError(c, http.StatusBadRequest, "Stock counts must be non-negative")
		return
	}

	product, err := store.CreateProduct(c.Request.Context(), h.db, store.CreateProductParams{
		Name:      req.Name,
		Category:  req.Category,
		Price500g: price500g,
		Price1kg:  price1kg,
		Stock500g: req.Stock500g,
		Stock1kg:  req.Stock1kg,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

type setStockRequest struct {
	Stock500g int `json:"stock500g"`
	Stock1kg  int `json:"stock1kg"`
}

// SetProductStock is the admin override writing absolute counts. It does not
// go through the checkout decrement path.
func (h *Handler) SetProductStock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Stock500g < 0 || req.Stock1kg < 0 {
		respondError(c, http.StatusBadRequest, "Stock counts must be non-negative")
		return
	}

	product, err := store.SetProductStock(c.Request.Context(), h.db, id, req.Stock500g, req.Stock1kg)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

type setSpecialRequest struct {
	IsSpecial bool `json:"isSpecial"`
}

func (h *Handler) SetProductSpecial(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req setSpecialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := store.SetProductSpecial(c.Request.Context(), h.db, id, req.IsSpecial)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

type setPricesRequest struct {
	Price500g string `json:"price500g" binding:"required"`
	Price1kg  string `json:"price1kg" binding:"required"`
}

func (h *Handler) SetProductPrices(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req setPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	price500g, price1kg, ok := parsePrices(c, req.Price500g, req.Price1kg)
	if !ok {
		return
	}

	product, err := store.SetProductPrices(c.Request.Context(), h.db, id, price500g, price1kg)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func parsePrices(c *gin.Context, raw500g, raw1kg string) (decimal.Decimal, decimal.Decimal, bool) {
	price500g, err := decimal.NewFromString(raw500g)
	if err != nil || price500g.IsNegative() {
		respondError(c, http.StatusBadRequest, "Invalid price500g")
		return decimal.Zero, decimal.Zero, false
	}
	price1kg, err := decimal.NewFromString(raw1kg)
	if err != nil || price1kg.IsNegative() {
		respondError(c, http.StatusBadRequest, "Invalid price1kg")
		return decimal.Zero, decimal.Zero, false
	}
	return price500g.Round(2), price1kg.Round(2), true
}
