package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Size is a pack size sold by the shop. Every product carries an
// independent price and stock count per size.
type Size string

const (
	Size500g Size = "500g"
	Size1kg  Size = "1kg"
)

func (s Size) Valid() bool {
	return s == Size500g || s == Size1kg
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price500g decimal.Decimal `json:"price500g"`
	Price1kg  decimal.Decimal `json:"price1kg"`
	Stock500g int             `json:"stock500g"`
	Stock1kg  int             `json:"stock1kg"`
	IsSpecial bool            `json:"isSpecial"`
	ImageURL  *string         `json:"imageUrl,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Price returns the unit price for the given size.
func (p *Product) Price(size Size) decimal.Decimal {
	if size == Size1kg {
		return p.Price1kg
	}
	return p.Price500g
}

// Stock returns the current stock count for the given size.
func (p *Product) Stock(size Size) int {
	if size == Size1kg {
		return p.Stock1kg
	}
	return p.Stock500g
}

// Order statuses. Pending transitions to exactly one of paid or failed;
// both are terminal.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

type Order struct {
	ID                   string          `json:"id"`
	Status               string          `json:"status"`
	Total                decimal.Decimal `json:"total"`
	Items                OrderItems      `json:"items"`
	PudoLocation         string          `json:"pudoLocation,omitempty"`
	PaymentMethod        string          `json:"paymentMethod,omitempty"`
	PaymentVerified      bool            `json:"paymentVerified"`
	PayfastTransactionID string          `json:"payfastTransactionId,omitempty"`
	CustomerEmail        string          `json:"customerEmail,omitempty"`
	CustomerPhone        string          `json:"customerPhone,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// OrderItem is a snapshot of a purchased line taken at order-creation time.
// Name and unit price are copied from the product row so later catalog edits
// never change what the customer was charged.
type OrderItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Size      Size            `json:"size"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderItems is stored as a single JSONB document embedded in the order row.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OrderItems) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = nil
		return nil
	default:
		return fmt.Errorf("scan order items: unsupported type %T", src)
	}
}

// ShopSettings is the single-row shop availability record. When the shop is
// closed, new orders are rejected but existing orders remain readable.
type ShopSettings struct {
	IsOpen        bool      `json:"isOpen"`
	ClosedMessage string    `json:"closedMessage,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
