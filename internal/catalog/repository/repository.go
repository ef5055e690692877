package repository

import (
	"context"

	"github.com/Abobakr505/Skandr-Shop/internal/catalog/domain"
)

// ProductRepository defines the interface for catalog read operations.
type ProductRepository interface {
	// List returns every product ordered featured-first, newest-first.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// ListRelated returns up to limit products excluding the given id,
	// ordered featured-first, newest-first.
	ListRelated(ctx context.Context, excludeID string, limit int) ([]domain.Product, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
