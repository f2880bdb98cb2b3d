package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrDuplicateProduct = errors.New("product code already exists")

// ProductImage is one catalog image; at most one should be primary.
type ProductImage struct {
	URL       string `json:"url" bson:"url"`
	Alt       string `json:"alt" bson:"alt"`
	IsPrimary bool   `json:"is_primary" bson:"is_primary"`
}

// Product is a catalog entry. Price is stored in minor currency units.
// Products are soft-deleted via IsActive; documents are never removed.
type Product struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	Name        string         `json:"name" bson:"name"`
	Description string         `json:"description" bson:"description"`
	Price       int64          `json:"price" bson:"price"`
	Category    string         `json:"category" bson:"category"`
	Stock       int            `json:"stock" bson:"stock"`
	Code        string         `json:"code" bson:"code"`
	Sizes       []string       `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Colors      []string       `json:"colors,omitempty" bson:"colors,omitempty"`
	Images      []ProductImage `json:"images,omitempty" bson:"images,omitempty"`
	IsActive    bool           `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}

// CategoryCount is one bucket of the per-category aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ProductStats aggregates catalog counts for the admin dashboard.
type ProductStats struct {
	TotalProducts  int64           `json:"total_products"`
	ActiveProducts int64           `json:"active_products"`
	TotalStock     int64           `json:"total_stock"`
	ByCategory     []CategoryCount `json:"by_category"`
}
