package ports

import (
	"context"

	"github.com/vestuario/commerce-api/internal/core/domain"
)

// ListProductsFilter carries all query parameters for listing products.
type ListProductsFilter struct {
	Category   string // optional: filter by category
	Search     string // optional: case-insensitive match on name or description
	ActiveOnly bool   // true for public listings; admin may include inactive
	Page       int    // 1-based
	Limit      int    // max rows per page (capped at 100 by service)
}

// UpdateProductFields carries the partial update for a catalog entry.
type UpdateProductFields struct {
	Name        *string
	Description *string
	Price       *int64
	Category    *string
	Stock       *int
	Sizes       []string
	Colors      []string
	Images      []domain.ProductImage
	IsActive    *bool
}

// ProductRepository defines persistence operations for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, id string, fields UpdateProductFields) (*domain.Product, error)
	// Deactivate soft-deletes the product (is_active=false).
	Deactivate(ctx context.Context, id string) error
	// LowStock returns active products whose stock is below threshold.
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	Stats(ctx context.Context) (*domain.ProductStats, error)
}
