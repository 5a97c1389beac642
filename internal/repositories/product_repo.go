package repositories

import (
	"lapak/internal/models"
)

// ProductRepository defines the interface for catalog data access. Stock
// mutation is deliberately absent here: decrements happen only inside the
// checkout transaction owned by OrderRepository.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
