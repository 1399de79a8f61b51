package memory

import (
	"context"
	"sort"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

func (s *Store) FindProducts(_ context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Operator != out[j].Operator {
			return out[i].Operator < out[j].Operator
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) FindProduct(_ context.Context, id string) (*domain.Product, error) {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return nil, domain.ErrProductExists
	}
	created := *p
	s.products[created.ID] = created
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, id string, patch ports.ProductUpdate) (*domain.Product, error) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	patch.Apply(&p)
	s.products[id] = p
	return &p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
