package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

type stubProductRepo struct {
	products map[string]*domain.Product
	seq      int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	return &clone
}

func (s *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	for _, existing := range s.products {
		if existing.Code == p.Code {
			return nil, domain.ErrDuplicateProduct
		}
	}
	s.seq++
	created := cloneProduct(p)
	created.ID = fmt.Sprintf("prod-%d", s.seq)
	s.products[created.ID] = cloneProduct(created)
	return created, nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (s *stubProductRepo) matches(p *domain.Product, f ports.ListProductsFilter) bool {
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func (s *stubProductRepo) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	var all []*domain.Product
	for _, p := range s.products {
		if s.matches(p, f) {
			all = append(all, cloneProduct(p))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *stubProductRepo) Update(_ context.Context, id string, fields ports.UpdateProductFields) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.Price != nil {
		p.Price = *fields.Price
	}
	if fields.Stock != nil {
		p.Stock = *fields.Stock
	}
	if fields.IsActive != nil {
		p.IsActive = *fields.IsActive
	}
	return cloneProduct(p), nil
}

func (s *stubProductRepo) Deactivate(_ context.Context, id string) error {
	p, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.IsActive = false
	return nil
}

func (s *stubProductRepo) LowStock(_ context.Context, threshold int) ([]*domain.Product, error) {
	var low []*domain.Product
	for _, p := range s.products {
		if p.IsActive && p.Stock < threshold {
			low = append(low, cloneProduct(p))
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return low, nil
}

func (s *stubProductRepo) Stats(_ context.Context) (*domain.ProductStats, error) {
	stats := &domain.ProductStats{}
	for _, p := range s.products {
		stats.TotalProducts++
		stats.TotalStock += int64(p.Stock)
		if p.IsActive {
			stats.ActiveProducts++
		}
	}
	return stats, nil
}

func seedProduct(t *testing.T, svc ports.ProductService, code string, stock int) *domain.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name:        "Camisa " + code,
		Description: "Camisa de prueba",
		Price:       45000,
		Category:    "Camisas",
		Stock:       stock,
		Code:        code,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", code, err)
	}
	return p
}

func TestProductService_Create_DuplicateCode(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	seedProduct(t, svc, "CAM-001", 10)
	if _, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name: "Otra Camisa", Description: "x", Price: 100, Category: "Camisas", Code: "CAM-001",
	}); err != domain.ErrDuplicateProduct {
		t.Fatalf("expected ErrDuplicateProduct, got %v", err)
	}
}

func TestProductService_List_Pagination(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	for i := 1; i <= 5; i++ {
		seedProduct(t, svc, fmt.Sprintf("CAM-%03d", i), 10)
	}

	result, err := svc.List(context.Background(), ports.ListProductsInput{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 5 || len(result.Items) != 2 {
		t.Fatalf("expected 5 total and 2 items, got %d/%d", result.Total, len(result.Items))
	}
	if result.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", result.TotalPages)
	}
}

func TestProductService_List_DefaultsAndCap(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	result, err := svc.List(context.Background(), ports.ListProductsInput{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Page != 1 {
		t.Fatalf("expected page defaulted to 1, got %d", result.Page)
	}
	if result.Limit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", result.Limit)
	}
}

func TestProductService_Delete_IsSoft(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	p := seedProduct(t, svc, "CAM-009", 10)
	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	stored := repo.products[p.ID]
	if stored == nil {
		t.Fatalf("soft delete must keep the document")
	}
	if stored.IsActive {
		t.Fatalf("expected is_active=false after delete")
	}

	// Public listings no longer include it.
	result, _ := svc.List(context.Background(), ports.ListProductsInput{})
	for _, item := range result.Items {
		if item.ID == p.ID {
			t.Fatalf("deleted product must not appear in active listings")
		}
	}
}

func TestProductService_LowStock(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	seedProduct(t, svc, "CAM-001", 3)
	seedProduct(t, svc, "CAM-002", 50)

	low, err := svc.LowStock(context.Background(), 0) // 0 → default threshold 10
	if err != nil {
		t.Fatalf("low stock failed: %v", err)
	}
	if len(low) != 1 || low[0].Code != "CAM-001" {
		t.Fatalf("expected only CAM-001 below threshold, got %+v", low)
	}
}

func TestProductService_Search(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), zerolog.Nop())

	seedProduct(t, svc, "CAM-001", 10)
	p, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name: "Pantalón Formal", Description: "Corte recto", Price: 55000, Category: "Pantalones", Code: "PAN-001",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.List(context.Background(), ports.ListProductsInput{Search: "pantalón"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != p.ID {
		t.Fatalf("expected only the pantalón match, got %+v", result.Items)
	}
}
