package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store. Stock is only ever decremented
// by the checkout commit, never at add-to-cart time.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"required"`
	Stock       int             `json:"stock" gorm:"not null;check:stock >= 0" validate:"gte=0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
