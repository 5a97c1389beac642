package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Checkout always produces OrderStatusPending; the later
// statuses belong to fulfillment flows.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is the immutable record of a completed checkout. Total is computed
// once at creation and never recalculated.
type Order struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Status    string          `json:"status" gorm:"type:varchar(20)"`
	Total     decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	Items     []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem is one line within an order. Price is a snapshot of the product
// price at checkout time; later catalog price changes must not affect it.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2)"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time       `json:"created_at"`
}
