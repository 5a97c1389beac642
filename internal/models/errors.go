package models

import (
	"errors"
	"fmt"
)

// Domain error kinds shared by repositories and services. Handlers translate
// them to HTTP statuses with errors.Is / errors.As.
var (
	// ErrInvalidInput marks caller errors: non-positive quantities or
	// references to products that do not exist.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers both missing and non-owned resources, so a
	// cross-user item ID is indistinguishable from a nonexistent one.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart rejects a checkout with nothing to commit.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrConflict marks uniqueness violations, like a username or email
	// that is already registered.
	ErrConflict = errors.New("conflict")
)

// InsufficientStockError reports a stock violation, naming the offending
// product. Raised both by the advisory cart checks and by the conditional
// decrement inside the checkout transaction.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
