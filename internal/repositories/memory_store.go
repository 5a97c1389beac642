package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of ProductRepository,
// CartRepository, OrderRepository and UserRepository behind a single mutex.
// It backs the "memory" database driver for development and gives tests a
// deterministic stand-in for the transactional store: CreateFromCart holds
// the lock for the whole check-and-decrement sequence, mirroring the
// conditional update the SQL implementation relies on.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	carts    map[string]models.Cart     // cart rows, items kept separately
	items    map[string]models.CartItem // cart lines, product not attached
	orders   map[string]models.Order
	users    map[string]models.User
}

var (
	_ ProductRepository = (*MemoryStore)(nil)
	_ CartRepository    = (*MemoryStore)(nil)
	_ OrderRepository   = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]models.Product),
		carts:    make(map[string]models.Cart),
		items:    make(map[string]models.CartItem),
		orders:   make(map[string]models.Order),
		users:    make(map[string]models.User),
	}
}

// --- ProductRepository ---

// GetAll returns all products.
func (s *MemoryStore) GetAll() ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

// GetByID returns a product by its ID.
func (s *MemoryStore) GetByID(id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return &p, nil
}

// Create adds a new product.
func (s *MemoryStore) Create(product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	s.products[product.ID] = *product
	return nil
}

// Update overwrites an existing product.
func (s *MemoryStore) Update(product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return fmt.Errorf("product %s: %w", product.ID, models.ErrNotFound)
	}
	product.UpdatedAt = time.Now()
	s.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

// --- CartRepository ---

// GetOrCreateByUserID returns the user's cart with items and product details
// attached, creating an empty cart on first access.
func (s *MemoryStore) GetOrCreateByUserID(userID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.carts {
		if c.UserID == userID {
			cart := c
			cart.Items = s.itemsOfLocked(c.ID)
			return &cart, nil
		}
	}

	cart := models.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	s.carts[cart.ID] = cart
	return &cart, nil
}

// FindItemByProduct returns the cart's line for a product, if any.
func (s *MemoryStore) FindItemByProduct(cartID, productID string) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.CartID == cartID && it.ProductID == productID {
			item := it
			return &item, nil
		}
	}
	return nil, models.ErrNotFound
}

// FindItemForUser returns an item by ID only when the owning cart belongs to
// the given user. Missing and non-owned look identical.
func (s *MemoryStore) FindItemForUser(userID, itemID string) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[itemID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cart, ok := s.carts[it.CartID]
	if !ok || cart.UserID != userID {
		return nil, models.ErrNotFound
	}
	item := it
	if p, ok := s.products[item.ProductID]; ok {
		product := p
		item.Product = &product
	}
	return &item, nil
}

// SaveItem creates the item or overwrites the stored row.
func (s *MemoryStore) SaveItem(item *models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
		item.CreatedAt = time.Now()
	}
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Product = nil
	s.items[stored.ID] = stored
	return nil
}

// DeleteItem removes a cart item by its ID.
func (s *MemoryStore) DeleteItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return models.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

// itemsOfLocked assembles a cart's lines with product copies attached.
// Callers must hold at least the read lock.
func (s *MemoryStore) itemsOfLocked(cartID string) []models.CartItem {
	var items []models.CartItem
	for _, it := range s.items {
		if it.CartID != cartID {
			continue
		}
		item := it
		if p, ok := s.products[item.ProductID]; ok {
			product := p
			item.Product = &product
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items
}

// --- OrderRepository ---

// CreateFromCart commits a checkout atomically: all stock checks happen
// under the write lock before any decrement is applied, so concurrent
// checkouts can never both take the last units and no partial state is ever
// visible.
func (s *MemoryStore) CreateFromCart(order *models.Order, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range cart.Items {
		p, ok := s.products[line.ProductID]
		if !ok {
			return fmt.Errorf("product %s: %w", line.ProductID, models.ErrNotFound)
		}
		if p.Stock < line.Quantity {
			return &models.InsufficientStockError{ProductName: p.Name}
		}
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = order.CreatedAt
	}

	for _, line := range cart.Items {
		p := s.products[line.ProductID]
		p.Stock -= line.Quantity
		p.UpdatedAt = order.CreatedAt
		s.products[line.ProductID] = p
	}
	for id, it := range s.items {
		if it.CartID == cart.ID {
			delete(s.items, id)
		}
	}

	stored := *order
	stored.Items = make([]models.OrderItem, len(order.Items))
	for i, it := range order.Items {
		it.Product = nil
		stored.Items[i] = it
	}
	s.orders[stored.ID] = stored
	return nil
}

// GetAllByUserID returns the user's orders newest first with product details
// attached.
func (s *MemoryStore) GetAllByUserID(userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []models.Order
	for _, o := range s.orders {
		if o.UserID != userID {
			continue
		}
		order := o
		order.Items = make([]models.OrderItem, len(o.Items))
		for i, it := range o.Items {
			if p, ok := s.products[it.ProductID]; ok {
				product := p
				it.Product = &product
			}
			order.Items[i] = it
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// --- UserRepository ---

// CreateUser adds a new user.
func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

// GetUserByUsername returns a user by username.
func (s *MemoryStore) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
}

// GetUserByEmail returns a user by email.
func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
}

// GetUserByID returns a user by ID.
func (s *MemoryStore) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return &u, nil
}

// Users adapts the store to UserRepository; the user methods carry a prefix
// because Create/GetByID are already taken by the product side.
func (s *MemoryStore) Users() UserRepository {
	return memoryUsers{s}
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(user *models.User) error { return m.s.CreateUser(user) }

func (m memoryUsers) GetByUsername(username string) (*models.User, error) {
	return m.s.GetUserByUsername(username)
}

func (m memoryUsers) GetByEmail(email string) (*models.User, error) {
	return m.s.GetUserByEmail(email)
}

func (m memoryUsers) GetByID(id string) (*models.User, error) { return m.s.GetUserByID(id) }
