package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

type SettingsService struct {
	settings       ports.SettingsStore
	defaultContact string
	audit          ports.AuditRecorder
	logger         zerolog.Logger
}

var _ ports.SettingsService = (*SettingsService)(nil)

// NewSettingsService returns a service that reports defaultContact when no
// admin contact has been stored.
func NewSettingsService(settings ports.SettingsStore, defaultContact string, audit ports.AuditRecorder, logger zerolog.Logger) *SettingsService {
	return &SettingsService{settings: settings, defaultContact: defaultContact, audit: auditOrNoop(audit), logger: logger}
}

func (s *SettingsService) Settings(ctx context.Context) (*domain.Settings, error) {
	st, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if st.AdminContact == "" {
		st.AdminContact = s.defaultContact
	}
	return st, nil
}

func (s *SettingsService) PaymentDetails(ctx context.Context) (domain.PaymentDetails, error) {
	return s.settings.GetPaymentDetails(ctx)
}

func (s *SettingsService) UpdateSettings(ctx context.Context, actor domain.Principal, st domain.Settings) (*domain.Settings, error) {
	st.AdminContact = strings.TrimSpace(st.AdminContact)
	if st.AdminContact == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "adminContact is required")
	}
	out, err := s.settings.UpdateSettings(ctx, st)
	if err != nil {
		return nil, err
	}
	s.audit.Record(auditEntry(actor, "settings.update", "settings", map[string]any{"adminContact": st.AdminContact}))
	return out, nil
}

func (s *SettingsService) SetPaymentMethod(ctx context.Context, actor domain.Principal, method string, acct domain.PaymentAccount) (domain.PaymentDetails, error) {
	method = strings.TrimSpace(method)
	if method == "" || acct.Name == "" || acct.Number == "" {
		return nil, domain.NewError(domain.ErrInvalidInput, "method, name and number are required")
	}
	out, err := s.settings.UpsertPaymentMethod(ctx, method, acct)
	if err != nil {
		return nil, err
	}
	s.audit.Record(auditEntry(actor, "payment_method.set", "payment_method:"+method, map[string]any{"name": acct.Name}))
	return out, nil
}
