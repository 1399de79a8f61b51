package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

type AdminService struct {
	users  ports.UserStore
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(users ports.UserStore, audit ports.AuditRecorder, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, audit: auditOrNoop(audit), logger: logger}
}

func (s *AdminService) ListUsers(ctx context.Context, filter ports.UserFilter) ([]domain.User, error) {
	return s.users.FindUsers(ctx, filter)
}

// SetBanned bans or unbans a user. Admins cannot ban themselves.
func (s *AdminService) SetBanned(ctx context.Context, actor domain.Principal, userID int, banned bool) (*domain.User, error) {
	if userID == actor.ID && banned {
		return nil, domain.NewError(domain.ErrInvalidInput, "cannot ban your own account")
	}
	u, err := s.users.UpdateUser(ctx, userID, ports.UserUpdate{Banned: &banned})
	if err != nil {
		return nil, err
	}

	action := "user.unban"
	if banned {
		action = "user.ban"
	}
	s.audit.Record(auditEntry(actor, action, fmt.Sprintf("user:%d", userID), nil))
	s.logger.Info().Int("user_id", userID).Bool("banned", banned).Int("actor_id", actor.ID).Msg("user ban state changed")
	return u, nil
}

// AdjustCredits adds delta (negative to deduct) to a user's balance and
// notifies them.
func (s *AdminService) AdjustCredits(ctx context.Context, actor domain.Principal, userID int, delta decimal.Decimal, reason string) (*domain.User, error) {
	if delta.IsZero() {
		return nil, domain.NewError(domain.ErrInvalidInput, "amount must not be zero")
	}
	if !domain.ValidCreditAmount(delta) {
		return nil, domain.ErrCreditPrecision
	}
	if _, err := s.users.AdjustCredits(ctx, userID, delta); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("%s credits were added to your balance.", delta.String())
	if delta.IsNegative() {
		msg = fmt.Sprintf("%s credits were deducted from your balance.", delta.Neg().String())
	}
	if reason != "" {
		msg += " " + reason
	}
	u, err := s.users.UpdateUser(ctx, userID, ports.UserUpdate{AddNotification: &msg})
	if err != nil {
		return nil, err
	}

	s.audit.Record(auditEntry(actor, "user.credits", fmt.Sprintf("user:%d", userID), map[string]any{
		"delta":  delta.String(),
		"reason": reason,
	}))
	return u, nil
}
