package repositories

import (
	"lapak/internal/models"
)

// OrderRepository defines the interface for order data access. There is no
// standalone Create: orders only come into existence through the atomic
// checkout commit.
type OrderRepository interface {
	// CreateFromCart commits a checkout as a single all-or-nothing unit:
	// persist the order with its items, decrement stock for every cart
	// line (failing with models.InsufficientStockError if any decrement
	// would drive stock negative), and clear the cart. On error nothing
	// is persisted.
	CreateFromCart(order *models.Order, cart *models.Cart) error
	// GetAllByUserID returns the user's orders newest first, with items
	// and product details loaded.
	GetAllByUserID(userID string) ([]models.Order, error)
}
