package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// ProductService exposes catalog operations.
type ProductService interface {
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Search(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, id uuid.UUID, upd model.ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo  repository.ProductRepository
	cache *cache.Client
}

// NewProductService builds a ProductService with repository and cache.
func NewProductService(repo repository.ProductRepository, cache *cache.Client) ProductService {
	return &productService{repo: repo, cache: cache}
}

// Create validates and persists a new product.
func (s *productService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	var details []apperrors.FieldError
	requireText := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			details = append(details, apperrors.FieldError{Field: field, Message: "is required"})
		}
	}
	requireText("name", in.Name)
	requireText("description", in.Description)
	requireText("category", in.Category)
	if in.Price == nil {
		details = append(details, apperrors.FieldError{Field: "price", Message: "is required"})
	} else if fe := checkPrice(*in.Price); fe != nil {
		details = append(details, *fe)
	}
	if len(details) > 0 {
		return nil, apperrors.Validation("Validation failed", details...)
	}

	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	product := &model.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		InStock:     inStock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// GetByID returns a product. Reads are cached.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var cached model.Product
	if s.cache.GetJSON(ctx, cache.ProductKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, cache.ProductKey(id), product, productCacheTTL)
	return product, nil
}

// Search returns the products matching every set field of filter.
func (s *productService) Search(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		// no price satisfies both bounds
		return []model.Product{}, nil
	}

	products, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// Update applies the present fields of upd.
func (s *productService) Update(ctx context.Context, id uuid.UUID, upd model.ProductUpdate) (*model.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	var details []apperrors.FieldError
	setText := func(field string, value *string, dst *string) {
		if value == nil {
			return
		}
		if strings.TrimSpace(*value) == "" {
			details = append(details, apperrors.FieldError{Field: field, Message: "is required"})
			return
		}
		*dst = *value
	}
	setText("name", upd.Name, &product.Name)
	setText("description", upd.Description, &product.Description)
	setText("category", upd.Category, &product.Category)
	if upd.Price != nil {
		if fe := checkPrice(*upd.Price); fe != nil {
			details = append(details, *fe)
		} else {
			product.Price = *upd.Price
		}
	}
	if len(details) > 0 {
		return nil, apperrors.Validation("Validation failed", details...)
	}
	if upd.ImageURL != nil {
		product.ImageURL = *upd.ImageURL
	}
	if upd.InStock != nil {
		product.InStock = *upd.InStock
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.ProductKey(id))
	return product, nil
}

// Delete permanently removes the product.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	_ = s.cache.Delete(ctx, cache.ProductKey(id))
	return nil
}

func (s *productService) find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

// checkPrice rejects prices the decimal(12,2) column would round or refuse.
func checkPrice(price decimal.Decimal) *apperrors.FieldError {
	switch {
	case price.IsNegative():
		return &apperrors.FieldError{Field: "price", Message: "must be greater than or equal to 0"}
	case !price.Equal(price.Truncate(model.PriceScale)):
		return &apperrors.FieldError{Field: "price", Message: "must have at most 2 decimal places"}
	case price.GreaterThan(model.MaxPrice):
		return &apperrors.FieldError{Field: "price", Message: "must not exceed " + model.MaxPrice.StringFixed(model.PriceScale)}
	}
	return nil
}
