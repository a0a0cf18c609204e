package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/service"
)

// ProductHandler serves catalog endpoints.
type ProductHandler struct {
	svc service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// CreateProductRequest is the payload for a new product.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required" swaggertype:"number"`
	Category    string           `json:"category" validate:"required"`
	ImageURL    string           `json:"imageUrl"`
	InStock     *bool            `json:"inStock"`
}

// UpdateProductRequest is a partial product update.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"imageUrl"`
	InStock     *bool            `json:"inStock"`
}

// ListProducts godoc
// @Summary Search products
// @Tags products
// @Produce json
// @Param category query string false "Exact category"
// @Param inStock query bool false "Stock flag"
// @Param minPrice query number false "Minimum price, inclusive"
// @Param maxPrice query number false "Maximum price, inclusive"
// @Param search query string false "Case-insensitive text in name or description"
// @Success 200 {object} Response{data=[]model.Product}
// @Failure 400 {object} Response
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	products, err := h.svc.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, products, "")
}

// GetProduct godoc
// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} Response{data=model.Product}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, product, "")
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product"
// @Success 201 {object} Response{data=model.Product}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.Create(c.Request().Context(), model.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		InStock:     req.InStock,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, product, "Product created successfully")
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to change"
// @Success 200 {object} Response{data=model.Product}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.svc.Update(c.Request().Context(), id, model.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		InStock:     req.InStock,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, product, "Product updated successfully")
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil, "Product removed")
}

// parseFilter reads the search query. Empty parameters and inStock values other
// than true/false leave that dimension unconstrained.
func parseFilter(c echo.Context) (model.ProductFilter, error) {
	var filter model.ProductFilter

	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		filter.Category = &v
	}
	switch c.QueryParam("inStock") {
	case "true":
		inStock := true
		filter.InStock = &inStock
	case "false":
		inStock := false
		filter.InStock = &inStock
	}
	if v := strings.TrimSpace(c.QueryParam("search")); v != "" {
		filter.Search = &v
	}

	var details []apperrors.FieldError
	parsePrice := func(name string) *decimal.Decimal {
		raw := strings.TrimSpace(c.QueryParam(name))
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			details = append(details, apperrors.FieldError{Field: name, Message: "must be a number"})
			return nil
		}
		return &d
	}
	filter.MinPrice = parsePrice("minPrice")
	filter.MaxPrice = parsePrice("maxPrice")
	if len(details) > 0 {
		return filter, apperrors.Validation("Validation failed", details...)
	}
	return filter, nil
}
