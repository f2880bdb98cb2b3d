package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vestuario/commerce-api/internal/api/metrics"
	"github.com/vestuario/commerce-api/internal/core/domain"
	"github.com/vestuario/commerce-api/internal/core/ports"
)

// ProductHandler handles the product catalog endpoints.
type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns a page of products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page      query  int     false  "Page number"
// @Param        limit     query  int     false  "Page size"
// @Param        category  query  string  false  "Category filter"
// @Success      200  {object}  productListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	return h.list(c, ports.ListProductsInput{
		Category: c.QueryParam("category"),
		Page:     intQuery(c, "page"),
		Limit:    intQuery(c, "limit"),
	})
}

// Search returns products matching a text query on name or description.
//
// @Summary      Search products
// @Tags         products
// @Produce      json
// @Param        q  query  string  true  "Search text"
// @Success      200  {object}  productListResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	return h.list(c, ports.ListProductsInput{
		Search: q,
		Page:   intQuery(c, "page"),
		Limit:  intQuery(c, "limit"),
	})
}

// ByCategory returns products within a category.
//
// @Summary      List products by category
// @Tags         products
// @Produce      json
// @Param        category  path  string  true  "Category"
// @Success      200  {object}  productListResponse
// @Router       /api/products/category/{category} [get]
func (h *ProductHandler) ByCategory(c echo.Context) error {
	return h.list(c, ports.ListProductsInput{
		Category: c.Param("category"),
		Page:     intQuery(c, "page"),
		Limit:    intQuery(c, "limit"),
	})
}

func (h *ProductHandler) list(c echo.Context, in ports.ListProductsInput) error {
	result, err := h.products.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get returns a single product by id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  map[string]string
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Create adds a catalog entry. Admin only.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.products.Create(c.Request().Context(), ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Code:        req.Code,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Images:      toImages(req.Images),
	})
	if err != nil {
		return err
	}

	metrics.ProductWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, product)
}

// Update applies a partial update to a product. Admin only.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product ID"
// @Param        body  body      updateProductRequest  true  "Fields to update"
// @Success      200   {object}  domain.Product
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	fields := ports.UpdateProductFields{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		IsActive:    req.IsActive,
	}
	if req.Images != nil {
		fields.Images = toImages(req.Images)
	}

	product, err := h.products.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}

	metrics.ProductWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, product)
}

// Delete soft-deletes a product. Admin only.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.ProductWritesTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// LowStock returns active products below the stock threshold. Admin only.
//
// @Summary      List low stock products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        threshold  query  int  false  "Stock threshold (default 10)"
// @Success      200  {array}  domain.Product
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c echo.Context) error {
	products, err := h.products.LowStock(c.Request().Context(), intQuery(c, "threshold"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Stats returns aggregate catalog statistics. Admin only.
//
// @Summary      Catalog statistics
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.ProductStats
// @Router       /api/products/admin/stats [get]
func (h *ProductHandler) Stats(c echo.Context) error {
	stats, err := h.products.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func toImages(reqs []productImageRequest) []domain.ProductImage {
	images := make([]domain.ProductImage, 0, len(reqs))
	for _, r := range reqs {
		images = append(images, domain.ProductImage{URL: r.URL, Alt: r.Alt, IsPrimary: r.IsPrimary})
	}
	return images
}

func intQuery(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
