package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

func (s *Store) FindUsers(_ context.Context, filter ports.UserFilter) ([]domain.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if filter.Matches(u) {
			out = append(out, u.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindUserByID(_ context.Context, id int) (*domain.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := u.Clone()
	return &clone, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			clone := u.Clone()
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}

	created := user.Clone()
	created.ID = s.nextUserID
	s.nextUserID++
	if created.Notifications == nil {
		created.Notifications = []string{}
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = s.now()
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}
	s.users[created.ID] = created

	out := created.Clone()
	return &out, nil
}

func (s *Store) UpdateUser(_ context.Context, id int, patch ports.UserUpdate) (*domain.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u = u.Clone()
	patch.Apply(&u)
	u.UpdatedAt = s.now()
	s.users[id] = u

	out := u.Clone()
	return &out, nil
}

func (s *Store) AdjustCredits(_ context.Context, id int, delta decimal.Decimal) (*domain.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	balance := u.Credits.Add(delta)
	if balance.IsNegative() {
		return nil, domain.ErrInsufficientCredits
	}
	u = u.Clone()
	u.Credits = balance
	u.UpdatedAt = s.now()
	s.users[id] = u

	out := u.Clone()
	return &out, nil
}
