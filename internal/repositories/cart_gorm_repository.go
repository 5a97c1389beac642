package repositories

import (
	"fmt"

	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreateByUserID returns the user's cart with items and product details
// preloaded. A user without a cart gets an empty one created on the spot.
func (r *GORMCartRepository) GetOrCreateByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").First(&cart, "user_id = ?", userID).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}

	cart = models.Cart{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	if createErr := r.db.Create(&cart).Error; createErr != nil {
		// A concurrent first request may have created the cart between the
		// miss and the insert; the unique user_id index rejects the loser.
		// Re-fetch once before giving up.
		var existing models.Cart
		if err := r.db.Preload("Items.Product").First(&existing, "user_id = ?", userID).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, createErr)
		}
		return &existing, nil
	}
	return &cart, nil
}

// FindItemByProduct returns the cart's line for a product, if any.
func (r *GORMCartRepository) FindItemByProduct(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cart item for product %s: %w", productID, err)
	}
	return &item, nil
}

// FindItemForUser looks up an item by ID scoped to the owning user's cart.
// The join keeps a non-owned item indistinguishable from a missing one.
func (r *GORMCartRepository) FindItemForUser(userID, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		Preload("Product").
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// SaveItem creates the item or overwrites the existing row's quantity.
func (r *GORMCartRepository) SaveItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	// Omit the joined product so saving a line never writes the catalog.
	if err := r.db.Omit("Product").Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// DeleteItem removes a cart item by its ID.
func (r *GORMCartRepository) DeleteItem(itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
