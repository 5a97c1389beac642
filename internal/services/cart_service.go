package services

import (
	"errors"
	"fmt"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// CartService handles business logic for the shopping cart. Stock checks
// here are advisory early feedback only: nothing is reserved, and checkout
// re-validates against current stock before committing.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart with items and product details, creating
// an empty cart on first access.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreateByUserID(userID)
}

// AddItem puts a product into the user's cart. A product already in the
// cart gets its quantity increased rather than a second line.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", models.ErrInvalidInput)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %s does not exist", models.ErrInvalidInput, productID)
		}
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItemByProduct(cart.ID, productID)
	switch {
	case err == nil:
		newQuantity := item.Quantity + quantity
		if product.Stock < newQuantity {
			return nil, &models.InsufficientStockError{ProductName: product.Name}
		}
		item.Quantity = newQuantity
	case errors.Is(err, models.ErrNotFound):
		if product.Stock < quantity {
			return nil, &models.InsufficientStockError{ProductName: product.Name}
		}
		item = &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
	default:
		return nil, err
	}

	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// UpdateItem overwrites a cart line's quantity. The stock check is absolute,
// not additive. The lookup is ownership-scoped, so another user's item ID
// behaves exactly like a missing one.
func (s *CartService) UpdateItem(userID, itemID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", models.ErrInvalidInput)
	}

	item, err := s.cartRepo.FindItemForUser(userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Product == nil {
		return nil, fmt.Errorf("cart item %s references missing product %s", item.ID, item.ProductID)
	}
	if item.Product.Stock < quantity {
		return nil, &models.InsufficientStockError{ProductName: item.Product.Name}
	}

	item.Quantity = quantity
	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a cart line after the ownership-scoped lookup.
func (s *CartService) RemoveItem(userID, itemID string) error {
	if _, err := s.cartRepo.FindItemForUser(userID, itemID); err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(itemID)
}
