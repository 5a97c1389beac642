package repositories

import (
	"lapak/internal/models"
)

// CartRepository defines the interface for cart data access. Item lookups by
// ID are always scoped to the owning user, so a non-owned item and a missing
// one are both reported as models.ErrNotFound.
type CartRepository interface {
	// GetOrCreateByUserID returns the user's cart with items and product
	// details loaded, creating an empty cart on first access.
	GetOrCreateByUserID(userID string) (*models.Cart, error)
	// FindItemByProduct returns the cart's line for a product, or
	// models.ErrNotFound when the product is not in the cart yet.
	FindItemByProduct(cartID, productID string) (*models.CartItem, error)
	// FindItemForUser returns an item by ID with its product loaded,
	// only if it belongs to the given user's cart.
	FindItemForUser(userID, itemID string) (*models.CartItem, error)
	// SaveItem creates the item, or overwrites its quantity when it
	// already exists.
	SaveItem(item *models.CartItem) error
	DeleteItem(itemID string) error
}
