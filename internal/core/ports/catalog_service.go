package ports

import (
	"context"

	"github.com/mmtopup/storefront/internal/core/domain"
)

// CreateProductInput carries the fields an admin supplies for a new product.
type CreateProductInput struct {
	ID       string
	Operator string
	Category string
	Name     string
	PriceMMK int64
	PriceCr  int64
}

// CatalogService exposes the product catalog.
type CatalogService interface {
	// Catalog returns available products grouped by operator and category.
	Catalog(ctx context.Context) (domain.Catalog, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, actor domain.Principal, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Principal, id string, patch ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
}
