package repositories

import (
	"fmt"

	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// CreateFromCart commits a checkout inside a single database transaction:
// the order row, its items, one conditional stock decrement per cart line,
// and the cart wipe either all land or none do.
//
// The decrement is guarded by "stock >= quantity" in the WHERE clause, so
// two checkouts racing for the last units can never both succeed: the loser
// matches zero rows, which aborts and rolls back its whole transaction.
func (r *GORMOrderRepository) CreateFromCart(order *models.Order, cart *models.Cart) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range cart.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", line.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				name := line.ProductID
				if line.Product != nil {
					name = line.Product.Name
				}
				return &models.InsufficientStockError{ProductName: name}
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart %s: %w", cart.ID, err)
		}
		return nil
	})
}

// GetAllByUserID retrieves the user's orders newest first, with items and
// product details preloaded.
func (r *GORMOrderRepository) GetAllByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}
