package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
)

// ProductFilter narrows FindProducts. Zero values mean "no filter".
type ProductFilter struct {
	Operator      string
	Category      string
	AvailableOnly bool
}

// Matches reports whether p passes the filter.
func (f ProductFilter) Matches(p domain.Product) bool {
	if f.Operator != "" && p.Operator != f.Operator {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return !f.AvailableOnly || p.Available
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Operator  *string
	Category  *string
	Name      *string
	PriceMMK  *int64
	PriceCr   *int64
	Available *bool
}

// Apply writes the non-nil fields of u onto p.
func (u ProductUpdate) Apply(p *domain.Product) {
	if u.Operator != nil {
		p.Operator = *u.Operator
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.PriceMMK != nil {
		p.PriceMMK = *u.PriceMMK
	}
	if u.PriceCr != nil {
		p.PriceCr = *u.PriceCr
	}
	if u.Available != nil {
		p.Available = *u.Available
	}
}

// UserFilter narrows FindUsers.
type UserFilter struct {
	Banned *bool // nil = any
}

// Matches reports whether u passes the filter.
func (f UserFilter) Matches(u domain.User) bool {
	return f.Banned == nil || u.Banned == *f.Banned
}

// UserUpdate is a partial update. Credits are not part of it: balances only
// move through AdjustCredits.
type UserUpdate struct {
	IsAdmin         *bool
	Banned          *bool
	SecurityAmount  *decimal.Decimal
	AddNotification *string // appended to the user's notifications
}

// Apply writes the non-nil fields of u onto user.
func (u UserUpdate) Apply(user *domain.User) {
	if u.IsAdmin != nil {
		user.IsAdmin = *u.IsAdmin
	}
	if u.Banned != nil {
		user.Banned = *u.Banned
	}
	if u.SecurityAmount != nil {
		user.SecurityAmount = *u.SecurityAmount
	}
	if u.AddNotification != nil {
		user.Notifications = append(user.Notifications, *u.AddNotification)
	}
}

// OrderFilter narrows FindOrders. Zero values mean "no filter".
type OrderFilter struct {
	UserID int
	Status domain.OrderStatus
}

// Matches reports whether o passes the filter.
func (f OrderFilter) Matches(o domain.Order) bool {
	if f.UserID != 0 && o.UserID != f.UserID {
		return false
	}
	return f.Status == "" || o.Status == f.Status
}

// OrderUpdate is a partial update; nil fields are left unchanged.
type OrderUpdate struct {
	Status    *domain.OrderStatus
	AdminNote *string
	// Expect, when set, applies the update only if the order is currently in
	// that status. Otherwise the update fails with domain.ErrInvalidTransition.
	Expect *domain.OrderStatus
}

// Allows reports whether o satisfies the Expect precondition.
func (u OrderUpdate) Allows(o domain.Order) bool {
	return u.Expect == nil || o.Status == *u.Expect
}

// Apply writes the non-nil fields of u onto o.
func (u OrderUpdate) Apply(o *domain.Order) {
	if u.Status != nil {
		o.Status = *u.Status
	}
	if u.AdminNote != nil {
		o.AdminNote = *u.AdminNote
	}
}

// UserStore persists users. Lookups of a missing user fail with
// domain.ErrUserNotFound; a taken username with domain.ErrUsernameTaken.
type UserStore interface {
	// FindUsers returns users matching filter ordered by id.
	FindUsers(ctx context.Context, filter UserFilter) ([]domain.User, error)
	FindUserByID(ctx context.Context, id int) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// CreateUser assigns the id.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, patch UserUpdate) (*domain.User, error)
	// AdjustCredits adds delta to the balance atomically. A result below zero
	// fails with domain.ErrInsufficientCredits and leaves the balance as is.
	AdjustCredits(ctx context.Context, id int, delta decimal.Decimal) (*domain.User, error)
}

// ProductStore persists the catalog. Ids are supplied by the caller.
type ProductStore interface {
	// FindProducts returns products matching filter ordered by operator, then id.
	FindProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrderStore persists orders. Ids are supplied by the caller.
type OrderStore interface {
	// FindOrders returns orders matching filter, newest first, ties by id.
	FindOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	FindOrder(ctx context.Context, id string) (*domain.Order, error)
	CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id string, patch OrderUpdate) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// SettingsStore persists storefront settings and payment accounts.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, s domain.Settings) (*domain.Settings, error)
	GetPaymentDetails(ctx context.Context) (domain.PaymentDetails, error)
	UpsertPaymentMethod(ctx context.Context, method string, acct domain.PaymentAccount) (domain.PaymentDetails, error)
}

// Store is the full operation set shared by the primary and fallback stores
// and by the gate that routes between them.
type Store interface {
	UserStore
	ProductStore
	OrderStore
	SettingsStore
}
