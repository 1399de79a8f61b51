package ports

import (
	"context"

	"github.com/mmtopup/storefront/internal/core/domain"
)

// OrderItemInput is one requested product line.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput carries everything needed to place an order.
type PlaceOrderInput struct {
	Items          []OrderItemInput
	PhoneNumber    string
	IdempotencyKey string
}

// PlaceOrderResult is returned by Place.
type PlaceOrderResult struct {
	Order *domain.Order
	// Replayed is true when the Idempotency-Key matched an earlier order.
	Replayed bool
}

// OrderService places and settles orders.
type OrderService interface {
	Place(ctx context.Context, actor domain.Principal, in PlaceOrderInput) (*PlaceOrderResult, error)
	// Get returns an order owned by actor; admins may read any order.
	Get(ctx context.Context, actor domain.Principal, id string) (*domain.Order, error)
	ListMine(ctx context.Context, actor domain.Principal) ([]domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, actor domain.Principal, id string, status domain.OrderStatus, note string) (*domain.Order, error)
}
