package memory

import (
	"context"
	"sort"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

func (s *Store) FindOrders(_ context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	out := make([]domain.Order, 0)
	for _, o := range s.orders {
		if filter.Matches(o) {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) FindOrder(_ context.Context, id string) (*domain.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := o.Clone()
	return &clone, nil
}

func (s *Store) CreateOrder(_ context.Context, o *domain.Order) (*domain.Order, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return nil, domain.ErrOrderExists
	}
	created := o.Clone()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = s.now()
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}
	s.orders[created.ID] = created

	out := created.Clone()
	return &out, nil
}

func (s *Store) UpdateOrder(_ context.Context, id string, patch ports.OrderUpdate) (*domain.Order, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if !patch.Allows(o) {
		return nil, domain.ErrInvalidTransition
	}
	o = o.Clone()
	patch.Apply(&o)
	o.UpdatedAt = s.now()
	s.orders[id] = o

	out := o.Clone()
	return &out, nil
}

func (s *Store) DeleteOrder(_ context.Context, id string) error {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}
