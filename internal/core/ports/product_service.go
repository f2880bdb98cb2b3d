package ports

import (
	"context"

	"github.com/vestuario/commerce-api/internal/core/domain"
)

// CreateProductInput carries the data needed to create a catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Category    string
	Stock       int
	Code        string
	Sizes       []string
	Colors      []string
	Images      []domain.ProductImage
}

// ListProductsInput carries all parameters for the list endpoint.
type ListProductsInput struct {
	Category      string
	Search        string
	IncludeHidden bool // admins may list inactive products
	Page          int
	Limit         int
}

// ListProductsResult is returned by List.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProductService defines catalog use cases.
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, in ListProductsInput) (*ListProductsResult, error)
	Update(ctx context.Context, id string, fields UpdateProductFields) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	Stats(ctx context.Context) (*domain.ProductStats, error)
}
