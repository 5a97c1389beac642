package services

import (
	"fmt"
	"log"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/shopspring/decimal"
)

// EventPublisher publishes order lifecycle events to the message broker.
type EventPublisher interface {
	PublishOrderCreated(order *models.Order) error
}

// OrderService handles checkout and order history.
type OrderService struct {
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. The publisher may be nil, in
// which case no events are emitted.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		publisher: publisher,
	}
}

// Checkout turns the user's cart into a pending order.
//
// Stock is re-validated against current values regardless of what the cart
// checks saw earlier, the total and the per-line prices are taken from the
// products as read here, and the commit itself (order + items + stock
// decrements + cart wipe) is a single atomic unit in the repository. A race
// lost between the validation read and the commit surfaces as
// models.InsufficientStockError from CreateFromCart; the caller can retry.
func (s *OrderService) Checkout(userID string) (*models.Order, error) {
	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	total := decimal.Zero
	for _, line := range cart.Items {
		if line.Product == nil {
			return nil, fmt.Errorf("cart item %s references missing product %s", line.ID, line.ProductID)
		}
		if line.Product.Stock < line.Quantity {
			return nil, &models.InsufficientStockError{ProductName: line.Product.Name}
		}
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := &models.Order{
		UserID: userID,
		Status: models.OrderStatusPending,
		Total:  total,
	}
	for _, line := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			// Price snapshot: future catalog price changes must not
			// touch this order.
			Price: line.Product.Price,
		})
	}

	if err := s.orderRepo.CreateFromCart(order, cart); err != nil {
		return nil, err
	}

	// Join product details for the response from the already-loaded cart
	// lines; order.Items and cart.Items are index-aligned by construction.
	for i := range order.Items {
		order.Items[i].Product = cart.Items[i].Product
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(order); err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUserID(userID)
}
