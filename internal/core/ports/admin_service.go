package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
)

// AdminService groups user-management actions reserved to admins.
type AdminService interface {
	ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, error)
	SetBanned(ctx context.Context, actor domain.Principal, userID int, banned bool) (*domain.User, error)
	AdjustCredits(ctx context.Context, actor domain.Principal, userID int, delta decimal.Decimal, reason string) (*domain.User, error)
}

// SettingsService reads and edits storefront settings.
type SettingsService interface {
	Settings(ctx context.Context) (*domain.Settings, error)
	PaymentDetails(ctx context.Context) (domain.PaymentDetails, error)
	UpdateSettings(ctx context.Context, actor domain.Principal, s domain.Settings) (*domain.Settings, error)
	SetPaymentMethod(ctx context.Context, actor domain.Principal, method string, acct domain.PaymentAccount) (domain.PaymentDetails, error)
}
