package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	defaultLowStock  = 10
	maxLowStockLimit = 1000
)

type productService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

// NewProductService returns a ProductService implementation.
func NewProductService(repo ports.ProductRepository, log zerolog.Logger) ports.ProductService {
	return &productService{repo: repo, log: log}
}

func (s *productService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		Code:        in.Code,
		Sizes:       in.Sizes,
		Colors:      in.Colors,
		Images:      in.Images,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", created.ID).Str("code", created.Code).Msg("product created")
	return created, nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) List(ctx context.Context, in ports.ListProductsInput) (*ports.ListProductsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.ListProductsFilter{
		Category:   in.Category,
		Search:     in.Search,
		ActiveOnly: !in.IncludeHidden,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) Update(ctx context.Context, id string, fields ports.UpdateProductFields) (*domain.Product, error) {
	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

// Delete soft-deletes the product so historical references stay valid.
func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deactivated")
	return nil
}

func (s *productService) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	if threshold <= 0 {
		threshold = defaultLowStock
	}
	if threshold > maxLowStockLimit {
		threshold = maxLowStockLimit
	}
	return s.repo.LowStock(ctx, threshold)
}

func (s *productService) Stats(ctx context.Context) (*domain.ProductStats, error) {
	return s.repo.Stats(ctx)
}
