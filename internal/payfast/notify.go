package payfast

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/noshco/storefront/internal/config"
	"github.com/noshco/storefront/internal/models"
	"github.com/noshco/storefront/internal/store"
	"github.com/shopspring/decimal"
)

var (
	ErrSignatureInvalid       = errors.New("notification signature invalid")
	ErrMerchantMismatch       = errors.New("notification merchant id mismatch")
	ErrServerValidationFailed = errors.New("gateway server validation failed")
	ErrMissingOrderReference  = errors.New("notification missing order reference")
	ErrAmountMismatch         = errors.New("notification amount does not match order total")
)

// PayFast payment_status tokens that terminate an order.
const (
	statusComplete  = "COMPLETE"
	statusFailed    = "FAILED"
	statusCancelled = "CANCELLED"
)

// amountTolerance absorbs decimal rounding between the gateway and us.
var amountTolerance = decimal.New(1, -2)

// OrderStore is the slice of order persistence the verifier needs.
type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	SettlePayment(ctx context.Context, id, status string, verified bool, transactionID string) (bool, error)
}

// DBStore adapts the SQL store to OrderStore.
type DBStore struct {
	DB *sql.DB
}

func (s DBStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return store.GetOrder(ctx, s.DB, id)
}

func (s DBStore) SettlePayment(ctx context.Context, id, status string, verified bool, transactionID string) (bool, error) {
	return store.SettleOrderPayment(ctx, s.DB, id, status, verified, transactionID)
}

// Result describes a processed notification. Applied is false for idempotent
// no-ops: duplicate deliveries and non-terminal status updates.
type Result struct {
	OrderID       string
	PaymentStatus string
	OrderStatus   string
	TransactionID string
	Applied       bool
}

// Verifier authenticates inbound ITN callbacks and settles orders.
type Verifier struct {
	merchantID string
	passphrase string
	validator  *Validator
	orders     OrderStore
	log        *slog.Logger
}

func NewVerifier(cfg *config.Config, orders OrderStore, log *slog.Logger) *Verifier {
	return &Verifier{
		merchantID: cfg.PayFast.MerchantID,
		passphrase: cfg.PayFast.Passphrase,
		validator: &Validator{
			URL:    cfg.PayFastValidateURL(),
			Client: &http.Client{Timeout: cfg.PayFast.ValidateTimeout},
		},
		orders: orders,
		log:    log,
	}
}

// HandleNotification runs the full verification sequence over the raw ITN
// body. Each step short-circuits: a failed check rejects the notification
// without touching the order. A verified notification for an order already
// in a terminal state is accepted but changes nothing, so gateway retries
// converge instead of erroring.
func (v *Verifier) HandleNotification(ctx context.Context, rawBody []byte) (*Result, error) {
	params, err := parseParams(rawBody)
	if err != nil {
		return nil, err
	}

	orderRef := params["m_payment_id"]
	transactionID := params["pf_payment_id"]
	paymentStatus := params["payment_status"]

	if !VerifySignature(params, v.passphrase) {
		v.log.Error("payfast notification rejected: bad signature",
			"order_id", orderRef, "pf_payment_id", transactionID)
		return nil, ErrSignatureInvalid
	}

	if params["merchant_id"] != v.merchantID {
		v.log.Error("payfast notification rejected: merchant mismatch",
			"order_id", orderRef, "merchant_id", params["merchant_id"])
		return nil, ErrMerchantMismatch
	}

	if err := v.validator.Validate(ctx, rawBody); err != nil {
		v.log.Error("payfast notification rejected: server validation failed",
			"order_id", orderRef, "pf_payment_id", transactionID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrServerValidationFailed, err)
	}

	if orderRef == "" {
		v.log.Error("payfast notification rejected: no order reference",
			"pf_payment_id", transactionID)
		return nil, ErrMissingOrderReference
	}

	order, err := v.orders.GetOrder(ctx, orderRef)
	if err != nil {
		v.log.Error("payfast notification rejected: order lookup failed",
			"order_id", orderRef, "error", err)
		return nil, err
	}

	gross, err := decimal.NewFromString(params["amount_gross"])
	if err != nil {
		v.log.Error("payfast notification rejected: unparseable amount",
			"order_id", order.ID, "amount_gross", params["amount_gross"])
		return nil, fmt.Errorf("%w: bad amount %q", ErrAmountMismatch, params["amount_gross"])
	}
	if gross.Sub(order.Total).Abs().GreaterThan(amountTolerance) {
		v.log.Error("payfast notification rejected: amount mismatch",
			"order_id", order.ID, "amount_gross", gross, "order_total", order.Total)
		return nil, ErrAmountMismatch
	}

	result := &Result{
		OrderID:       order.ID,
		PaymentStatus: paymentStatus,
		OrderStatus:   order.Status,
		TransactionID: transactionID,
	}

	if order.Status != models.OrderStatusPending {
		v.log.Info("payfast notification ignored: order already settled",
			"order_id", order.ID, "status", order.Status, "pf_payment_id", transactionID)
		return result, nil
	}

	var target string
	var verified bool
	switch paymentStatus {
	case statusComplete:
		target = models.OrderStatusPaid
		verified = true
	case statusFailed, statusCancelled:
		target = models.OrderStatusFailed
	default:
		// The gateway may still be mid-flow. Acknowledge and wait for a
		// terminal status.
		v.log.Info("payfast notification acknowledged without transition",
			"order_id", order.ID, "payment_status", paymentStatus)
		return result, nil
	}

	applied, err := v.orders.SettlePayment(ctx, order.ID, target, verified, transactionID)
	if err != nil {
		return nil, err
	}

	result.Applied = applied
	if applied {
		result.OrderStatus = target
	}

	v.log.Info("payfast notification processed",
		"order_id", order.ID,
		"payment_status", paymentStatus,
		"order_status", result.OrderStatus,
		"amount_gross", gross,
		"order_total", order.Total,
		"pf_payment_id", transactionID,
		"applied", applied)

	return result, nil
}
