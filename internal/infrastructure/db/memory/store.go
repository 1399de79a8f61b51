// Package memory implements the fallback store: a process-local dataset that
// serves every operation when the relational database is unavailable.
//
// Writes are visible to this process only and are lost on restart. Every
// other observable behaviour (shapes, error kinds, ordering) matches the
// postgres store.
package memory

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

// Store is safe for concurrent use. Each collection has its own lock, so at
// most one writer touches a collection at a time.
type Store struct {
	usersMu    sync.RWMutex
	users      map[int]domain.User
	nextUserID int

	productsMu sync.RWMutex
	products   map[string]domain.Product

	ordersMu sync.RWMutex
	orders   map[string]domain.Order

	settingsMu sync.RWMutex
	settings   domain.Settings
	payments   domain.PaymentDetails

	now func() time.Time
}

var _ ports.Store = (*Store)(nil)

// New builds a store holding seed. Seed users given a plain password are
// hashed with bcrypt here.
func New(seed Seed) (*Store, error) {
	s := &Store{
		users:      make(map[int]domain.User, len(seed.Users)),
		nextUserID: 1,
		products:   make(map[string]domain.Product, len(seed.Products)),
		orders:     make(map[string]domain.Order, len(seed.Orders)),
		settings:   seed.Settings,
		payments:   seed.PaymentDetails.Clone(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	now := s.now()

	usernames := make(map[string]struct{}, len(seed.Users))
	for _, su := range seed.Users {
		if su.ID <= 0 {
			return nil, fmt.Errorf("seed user %q: id must be positive", su.Username)
		}
		if _, dup := s.users[su.ID]; dup {
			return nil, fmt.Errorf("seed user %d: duplicate id", su.ID)
		}
		if _, dup := usernames[su.Username]; dup {
			return nil, fmt.Errorf("seed user %q: duplicate username", su.Username)
		}
		if !domain.ValidCreditAmount(su.Credits) || !domain.ValidCreditAmount(su.SecurityAmount) {
			return nil, fmt.Errorf("seed user %q: amounts must have at most %d decimal places", su.Username, domain.CreditPlaces)
		}
		hash := su.PasswordHash
		if hash == "" {
			if su.Password == "" {
				return nil, fmt.Errorf("seed user %q: password or passwordHash required", su.Username)
			}
			b, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("seed user %q: hash password: %w", su.Username, err)
			}
			hash = string(b)
		}
		s.users[su.ID] = domain.User{
			ID:             su.ID,
			Username:       su.Username,
			PasswordHash:   hash,
			IsAdmin:        su.IsAdmin,
			Credits:        su.Credits,
			SecurityAmount: su.SecurityAmount,
			Banned:         su.Banned,
			Notifications:  append(make([]string, 0, len(su.Notifications)), su.Notifications...),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		usernames[su.Username] = struct{}{}
		if su.ID >= s.nextUserID {
			s.nextUserID = su.ID + 1
		}
	}

	for _, p := range seed.Products {
		if _, dup := s.products[p.ID]; dup {
			return nil, fmt.Errorf("seed product %q: duplicate id", p.ID)
		}
		s.products[p.ID] = p
	}

	for _, o := range seed.Orders {
		if _, dup := s.orders[o.ID]; dup {
			return nil, fmt.Errorf("seed order %q: duplicate id", o.ID)
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = o.CreatedAt
		}
		s.orders[o.ID] = o.Clone()
	}

	return s, nil
}
