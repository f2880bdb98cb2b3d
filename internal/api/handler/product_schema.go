package handler

type productImageRequest struct {
	URL       string `json:"url" validate:"required"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"is_primary"`
}

type createProductRequest struct {
	Name        string                `json:"name"        validate:"required,min=3,max=100"`
	Description string                `json:"description" validate:"required,max=1000"`
	Price       int64                 `json:"price"       validate:"required,gt=0"`
	Category    string                `json:"category"    validate:"required"`
	Stock       int                   `json:"stock"       validate:"gte=0"`
	Code        string                `json:"code"        validate:"required"`
	Sizes       []string              `json:"sizes"`
	Colors      []string              `json:"colors"`
	Images      []productImageRequest `json:"images"`
}

type updateProductRequest struct {
	Name        *string               `json:"name"        validate:"omitempty,min=3,max=100"`
	Description *string               `json:"description" validate:"omitempty,max=1000"`
	Price       *int64                `json:"price"       validate:"omitempty,gt=0"`
	Category    *string               `json:"category"`
	Stock       *int                  `json:"stock"       validate:"omitempty,gte=0"`
	Sizes       []string              `json:"sizes"`
	Colors      []string              `json:"colors"`
	Images      []productImageRequest `json:"images"`
	IsActive    *bool                 `json:"is_active"`
}

type productListResponse struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}
