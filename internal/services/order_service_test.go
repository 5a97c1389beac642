package services_test

import (
	"fmt"
	"testing"

	"lapak/internal/models"
	"lapak/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func checkoutCart() *models.Cart {
	return &models.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Items: []models.CartItem{
			{
				ID:        "item-a",
				CartID:    "cart-1",
				ProductID: "prod-a",
				Quantity:  2,
				Product:   &models.Product{ID: "prod-a", Name: "Headphones", Price: decimal.RequireFromString("499.00"), Stock: 50},
			},
			{
				ID:        "item-b",
				CartID:    "cart-1",
				ProductID: "prod-b",
				Quantity:  1,
				Product:   &models.Product{ID: "prod-b", Name: "Turntable", Price: decimal.RequireFromString("599.00"), Stock: 1},
			},
		},
	}
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCarts := new(MockCartRepository)
	service := services.NewOrderService(mockOrders, mockCarts, nil)

	mockCarts.On("GetOrCreateByUserID", "user-1").Return(&models.Cart{ID: "cart-1", UserID: "user-1"}, nil).Once()

	order, err := service.Checkout("user-1")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, models.ErrEmptyCart)
	mockOrders.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_InsufficientStock(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCarts := new(MockCartRepository)
	service := services.NewOrderService(mockOrders, mockCarts, nil)

	cart := checkoutCart()
	cart.Items[1].Quantity = 3 // Turntable has stock 1

	mockCarts.On("GetOrCreateByUserID", "user-1").Return(cart, nil).Once()

	order, err := service.Checkout("user-1")

	assert.Nil(t, order)
	var stockErr *models.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Turntable", stockErr.ProductName)
	// Pure validation failure: the atomic commit is never attempted.
	mockOrders.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_Success(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCarts := new(MockCartRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewOrderService(mockOrders, mockCarts, mockPublisher)

	cart := checkoutCart()
	mockCarts.On("GetOrCreateByUserID", "user-1").Return(cart, nil).Once()
	mockOrders.On("CreateFromCart", mock.AnythingOfType("*models.Order"), cart).Return(nil).Once()
	mockPublisher.On("PublishOrderCreated", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.Checkout("user-1")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	// 499.00 * 2 + 599.00 * 1
	assert.True(t, order.Total.Equal(decimal.RequireFromString("1597.00")),
		"total = %s", order.Total)

	assert.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("499.00")))
	assert.True(t, order.Items[1].Price.Equal(decimal.RequireFromString("599.00")))
	// Product details are joined onto the returned order.
	assert.Equal(t, "Headphones", order.Items[0].Product.Name)

	mockOrders.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestOrderService_Checkout_PriceSnapshotIgnoresLaterChanges(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCarts := new(MockCartRepository)
	service := services.NewOrderService(mockOrders, mockCarts, nil)

	cart := checkoutCart()
	mockCarts.On("GetOrCreateByUserID", "user-1").Return(cart, nil).Once()
	mockOrders.On("CreateFromCart", mock.AnythingOfType("*models.Order"), cart).Return(nil).Once()

	order, err := service.Checkout("user-1")
	assert.NoError(t, err)

	// A later catalog price change must not affect the committed order.
	cart.Items[0].Product.Price = decimal.RequireFromString("999.00")
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("499.00")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("1597.00")))
}

func TestOrderService_Checkout_CommitRace(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCarts := new(MockCartRepository)
	service := services.NewOrderService(mockOrders, mockCarts, nil)

	cart := checkoutCart()
	mockCarts.On("GetOrCreateByUserID", "user-1").Return(cart, nil).Once()
	// A concurrent checkout won the stock between validation and commit;
	// the repository reports it from inside the rolled-back transaction.
	mockOrders.On("CreateFromCart", mock.AnythingOfType("*models.Order"), cart).
		Return(&models.InsufficientStockError{ProductName: "Turntable"}).Once()

	order, err := service.Checkout("user-1")

	assert.Nil(t, order)
	var stockErr *models.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Turntable", stockErr.ProductName)
}

func TestOrderService_Checkout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCarts := new(MockCartRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewOrderService(mockOrders, mockCarts, mockPublisher)

	cart := checkoutCart()
	mockCarts.On("GetOrCreateByUserID", "user-1").Return(cart, nil).Once()
	mockOrders.On("CreateFromCart", mock.AnythingOfType("*models.Order"), cart).Return(nil).Once()
	mockPublisher.On("PublishOrderCreated", mock.AnythingOfType("*models.Order")).
		Return(fmt.Errorf("broker unavailable")).Once()

	order, err := service.Checkout("user-1")

	// The order is committed; event publication is best effort.
	assert.NoError(t, err)
	assert.NotNil(t, order)
	mockPublisher.AssertExpectations(t)
}

func TestOrderService_ListOrders(t *testing.T) {
	mockOrders := new(MockOrderRepository)
	mockCarts := new(MockCartRepository)
	service := services.NewOrderService(mockOrders, mockCarts, nil)

	expected := []models.Order{
		{ID: "order-2", UserID: "user-1", Status: models.OrderStatusPending},
		{ID: "order-1", UserID: "user-1", Status: models.OrderStatusPending},
	}
	mockOrders.On("GetAllByUserID", "user-1").Return(expected, nil).Once()

	orders, err := service.ListOrders("user-1")

	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	mockOrders.AssertExpectations(t)
}
