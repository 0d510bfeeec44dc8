package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/payfast"
)

const maxNotifyBody = 64 * 1024

// PayfastNotify receives ITN callbacks from the payment gateway. The raw
// body bytes are captured before any parsing because the server-to-server
// re-validation must replay them exactly as received. The gateway retries
// until it sees a 200, so processed notifications, idempotent duplicates
// included, always answer 200 "OK".
func (h *Handler) PayfastNotify(c *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotifyBody))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unreadable notification body")
		return
	}

	_, err = h.verifier.HandleNotification(c.Request.Context(), rawBody)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "Order not found")
		case errors.Is(err, payfast.ErrSignatureInvalid),
			errors.Is(err, payfast.ErrMerchantMismatch),
			errors.Is(err, payfast.ErrServerValidationFailed),
			errors.Is(err, payfast.ErrMissingOrderReference),
			errors.Is(err, payfast.ErrAmountMismatch):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			h.internalError(c, err)
		}
		return
	}

	c.String(http.StatusOK, "OK")
}
