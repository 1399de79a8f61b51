package memory

import (
	"context"

	"github.com/mmtopup/storefront/internal/core/domain"
)

func (s *Store) GetSettings(_ context.Context) (*domain.Settings, error) {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()

	out := s.settings
	return &out, nil
}

func (s *Store) UpdateSettings(_ context.Context, settings domain.Settings) (*domain.Settings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	s.settings = settings
	out := s.settings
	return &out, nil
}

func (s *Store) GetPaymentDetails(_ context.Context) (domain.PaymentDetails, error) {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()

	return s.payments.Clone(), nil
}

func (s *Store) UpsertPaymentMethod(_ context.Context, method string, acct domain.PaymentAccount) (domain.PaymentDetails, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	if s.payments == nil {
		s.payments = make(domain.PaymentDetails)
	}
	s.payments[method] = acct
	return s.payments.Clone(), nil
}
