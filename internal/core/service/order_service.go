package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
	"github.com/mmtopup/storefront/internal/pkg/metrics"
)

const maxItemQuantity = 100

var errRequestInFlight = domain.NewError(domain.ErrConflict, "a request with this Idempotency-Key is still in progress")

// OrderService places orders against the credit balance and settles them.
type OrderService struct {
	store  ports.Store
	idem   ports.IdempotencyStore
	audit  ports.AuditRecorder
	logger zerolog.Logger
	newID  func() string
}

var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService wires the order flow. idem may be nil, in which case the
// Idempotency-Key header is ignored.
func NewOrderService(store ports.Store, idem ports.IdempotencyStore, audit ports.AuditRecorder, logger zerolog.Logger) *OrderService {
	return &OrderService{
		store:  store,
		idem:   idem,
		audit:  auditOrNoop(audit),
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Place debits the order total from the buyer and records a pending order.
// A failure after the debit refunds it.
func (s *OrderService) Place(ctx context.Context, actor domain.Principal, in ports.PlaceOrderInput) (res *ports.PlaceOrderResult, err error) {
	defer func() {
		result := "created"
		switch {
		case err != nil:
			result = domain.KindName(err)
		case res.Replayed:
			result = "replayed"
		}
		metrics.OrdersPlacedTotal.WithLabelValues(result).Inc()
	}()

	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	orderID := s.newID()
	key := in.IdempotencyKey
	if key != "" && s.idem != nil {
		bound, created, rerr := s.idem.Reserve(ctx, actor.ID, key, orderID)
		switch {
		case rerr != nil:
			s.logger.Warn().Err(rerr).Int("user_id", actor.ID).Msg("idempotency store unavailable, placing order without it")
		case !created:
			return s.replay(ctx, actor, bound)
		default:
			defer func() {
				if err == nil {
					return
				}
				if relErr := s.idem.Release(context.WithoutCancel(ctx), actor.ID, key); relErr != nil {
					s.logger.Warn().Err(relErr).Int("user_id", actor.ID).Msg("idempotency key release failed")
				}
			}()
		}
	}

	user, err := s.store.FindUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user.Banned {
		return nil, domain.ErrUserBanned
	}

	items := make([]domain.OrderItem, 0, len(in.Items))
	var total int64
	for _, it := range in.Items {
		p, err := s.store.FindProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.Available {
			return nil, domain.ErrProductUnavailable
		}
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Operator:  p.Operator,
			Quantity:  it.Quantity,
			PriceCr:   p.PriceCr,
		})
		total += p.PriceCr * int64(it.Quantity)
	}

	if _, err := s.store.AdjustCredits(ctx, actor.ID, decimal.NewFromInt(-total)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order, err := s.store.CreateOrder(ctx, &domain.Order{
		ID:          orderID,
		UserID:      actor.ID,
		Items:       items,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		TotalCr:     total,
		Status:      domain.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.refund(ctx, actor.ID, total, orderID)
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Int("user_id", actor.ID).
		Int64("total_cr", total).
		Msg("order placed")
	return &ports.PlaceOrderResult{Order: order}, nil
}

func (s *OrderService) replay(ctx context.Context, actor domain.Principal, orderID string) (*ports.PlaceOrderResult, error) {
	order, err := s.store.FindOrder(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errRequestInFlight
	}
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID {
		return nil, errRequestInFlight
	}
	return &ports.PlaceOrderResult{Order: order, Replayed: true}, nil
}

func (s *OrderService) refund(ctx context.Context, userID int, amount int64, orderID string) {
	if amount == 0 {
		return
	}
	if _, err := s.store.AdjustCredits(context.WithoutCancel(ctx), userID, decimal.NewFromInt(amount)); err != nil {
		s.logger.Error().Err(err).
			Int("user_id", userID).
			Int64("amount_cr", amount).
			Str("order_id", orderID).
			Msg("refund failed")
	}
}

func validateOrderInput(in ports.PlaceOrderInput) error {
	if len(in.Items) == 0 {
		return domain.NewError(domain.ErrInvalidInput, "order must contain at least one item")
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return domain.NewError(domain.ErrInvalidInput, "phone number is required")
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return domain.NewError(domain.ErrInvalidInput, "product id is required")
		}
		if it.Quantity < 1 || it.Quantity > maxItemQuantity {
			return domain.NewError(domain.ErrInvalidInput, fmt.Sprintf("quantity must be between 1 and %d", maxItemQuantity))
		}
	}
	return nil
}

// Get returns the order if actor owns it or is an admin. Other users' orders
// are reported as not found.
func (s *OrderService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Order, error) {
	order, err := s.store.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && order.UserID != actor.ID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, actor domain.Principal) ([]domain.Order, error) {
	return s.store.FindOrders(ctx, ports.OrderFilter{UserID: actor.ID})
}

func (s *OrderService) List(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	return s.store.FindOrders(ctx, filter)
}

// UpdateStatus settles a pending order. Rejection refunds the buyer; either
// way the buyer gets a notification.
func (s *OrderService) UpdateStatus(ctx context.Context, actor domain.Principal, id string, status domain.OrderStatus, note string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.NewError(domain.ErrInvalidInput, "unknown order status")
	}

	current, err := s.store.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}

	from := current.Status
	patch := ports.OrderUpdate{Status: &status, Expect: &from}
	if note != "" {
		patch.AdminNote = &note
	}
	updated, err := s.store.UpdateOrder(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if status == domain.OrderRejected {
		s.refund(ctx, updated.UserID, updated.TotalCr, updated.ID)
	}

	msg := fmt.Sprintf("Your order %s was %s.", shortID(updated.ID), status)
	if note != "" {
		msg += " " + note
	}
	if _, err := s.store.UpdateUser(ctx, updated.UserID, ports.UserUpdate{AddNotification: &msg}); err != nil {
		s.logger.Warn().Err(err).Str("order_id", updated.ID).Msg("order notification failed")
	}

	s.audit.Record(auditEntry(actor, "order."+string(status), "order:"+updated.ID, map[string]any{
		"userId":  updated.UserID,
		"totalCr": updated.TotalCr,
		"note":    note,
	}))
	return updated, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
