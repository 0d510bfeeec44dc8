package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noshco/storefront/internal/store"
)

func (h *Handler) GetShopStatus(c *gin.Context) {
	settings, err := store.GetShopSettings(c.Request.Context(), h.db)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

type setShopStatusRequest struct {
	IsOpen        *bool  `json:"isOpen" binding:"required"`
	ClosedMessage string `json:"closedMessage"`
}

func (h *Handler) SetShopStatus(c *gin.Context) {
	var req setShopStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := store.SetShopSettings(c.Request.Context(), h.db, *req.IsOpen, req.ClosedMessage)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
