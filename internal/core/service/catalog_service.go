package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

type CatalogService struct {
	products ports.ProductStore
	audit    ports.AuditRecorder
	logger   zerolog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(products ports.ProductStore, audit ports.AuditRecorder, logger zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, audit: auditOrNoop(audit), logger: logger}
}

// Catalog groups the available products by operator, then category.
func (s *CatalogService) Catalog(ctx context.Context) (domain.Catalog, error) {
	products, err := s.products.FindProducts(ctx, ports.ProductFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}
	return domain.GroupCatalog(products), nil
}

func (s *CatalogService) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	return s.products.FindProducts(ctx, filter)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindProduct(ctx, id)
}

// Create adds a product. New products are always available.
func (s *CatalogService) Create(ctx context.Context, actor domain.Principal, in ports.CreateProductInput) (*domain.Product, error) {
	p := domain.Product{
		ID:        strings.TrimSpace(in.ID),
		Operator:  strings.TrimSpace(in.Operator),
		Category:  strings.TrimSpace(in.Category),
		Name:      strings.TrimSpace(in.Name),
		PriceMMK:  in.PriceMMK,
		PriceCr:   in.PriceCr,
		Available: true,
	}
	if p.ID == "" || p.Operator == "" || p.Category == "" || p.Name == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "id, operator, category and name are required")
	}
	if p.PriceMMK < 0 || p.PriceCr < 0 {
		return nil, domain.NewError(domain.ErrInvalidInput, "prices must not be negative")
	}

	created, err := s.products.CreateProduct(ctx, &p)
	if err != nil {
		return nil, err
	}
	s.audit.Record(auditEntry(actor, "product.create", "product:"+created.ID, map[string]any{
		"operator": created.Operator,
		"category": created.Category,
		"priceCr":  created.PriceCr,
	}))
	return created, nil
}

func (s *CatalogService) Update(ctx context.Context, actor domain.Principal, id string, patch ports.ProductUpdate) (*domain.Product, error) {
	if (patch.PriceMMK != nil && *patch.PriceMMK < 0) || (patch.PriceCr != nil && *patch.PriceCr < 0) {
		return nil, domain.NewError(domain.ErrInvalidInput, "prices must not be negative")
	}
	updated, err := s.products.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.audit.Record(auditEntry(actor, "product.update", "product:"+id, nil))
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.audit.Record(auditEntry(actor, "product.delete", "product:"+id, nil))
	s.logger.Info().Str("product_id", id).Int("actor_id", actor.ID).Msg("product deleted")
	return nil
}
