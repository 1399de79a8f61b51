package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/gate"
	"github.com/mmtopup/storefront/internal/core/ports"
)

func newTestOrderService(t *testing.T, idem ports.IdempotencyStore) (*OrderService, *gate.Gate, *recordingAudit) {
	t.Helper()
	g := newTestGate(t)
	audit := &recordingAudit{}
	return NewOrderService(g, idem, audit, zerolog.Nop()), g, audit
}

func placeInput(items ...ports.OrderItemInput) ports.PlaceOrderInput {
	return ports.PlaceOrderInput{Items: items, PhoneNumber: "09123456789"}
}

func TestOrderService_Place_DebitsCredits(t *testing.T) {
	svc, g, _ := newTestOrderService(t, nil)

	res, err := svc.Place(context.Background(), alicePrincipal, placeInput(
		ports.OrderItemInput{ProductID: "mpt-10", Quantity: 2},
		ports.OrderItemInput{ProductID: "mpt-data", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	o := res.Order
	if o.TotalCr != 45 {
		t.Fatalf("expected total 45, got %d", o.TotalCr)
	}
	if o.Status != domain.OrderPending || o.UserID != alicePrincipal.ID {
		t.Fatalf("unexpected order: %+v", o)
	}
	if o.Items[0].Name != "MPT 1000" || o.Items[0].PriceCr != 10 {
		t.Fatalf("items not priced from catalog: %+v", o.Items)
	}
	if got := credits(t, g, alicePrincipal.ID); !got.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("expected 55 credits left, got %s", got)
	}
}

func TestOrderService_Place_InsufficientCredits(t *testing.T) {
	svc, g, _ := newTestOrderService(t, nil)

	_, err := svc.Place(context.Background(), alicePrincipal, placeInput(ports.OrderItemInput{ProductID: "mpt-data", Quantity: 5}))
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	orders, _ := g.FindOrders(context.Background(), ports.OrderFilter{UserID: alicePrincipal.ID})
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders))
	}
	if got := credits(t, g, alicePrincipal.ID); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance changed on failed order: %s", got)
	}
}

func TestOrderService_Place_Rejections(t *testing.T) {
	svc, _, _ := newTestOrderService(t, nil)
	ctx := context.Background()

	if _, err := svc.Place(ctx, alicePrincipal, placeInput(ports.OrderItemInput{ProductID: "atom-off", Quantity: 1})); !errors.Is(err, domain.ErrProductUnavailable) {
		t.Fatalf("expected ErrProductUnavailable, got %v", err)
	}
	if _, err := svc.Place(ctx, alicePrincipal, placeInput(ports.OrderItemInput{ProductID: "nope", Quantity: 1})); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := svc.Place(ctx, alicePrincipal, placeInput(ports.OrderItemInput{ProductID: "mpt-10", Quantity: 0})); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero quantity, got %v", err)
	}
	if _, err := svc.Place(ctx, alicePrincipal, ports.PlaceOrderInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty order, got %v", err)
	}

	bob := domain.Principal{ID: 3, Username: "bob"}
	if _, err := svc.Place(ctx, bob, placeInput(ports.OrderItemInput{ProductID: "mpt-10", Quantity: 1})); !errors.Is(err, domain.ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestOrderService_Place_IdempotencyReplay(t *testing.T) {
	idem := newMemIdempotency()
	svc, g, _ := newTestOrderService(t, idem)
	ctx := context.Background()

	in := placeInput(ports.OrderItemInput{ProductID: "mpt-10", Quantity: 1})
	in.IdempotencyKey = "k-1"

	first, err := svc.Place(ctx, alicePrincipal, in)
	if err != nil {
		t.Fatalf("first Place: %v", err)
	}
	second, err := svc.Place(ctx, alicePrincipal, in)
	if err != nil {
		t.Fatalf("second Place: %v", err)
	}
	if !second.Replayed || second.Order.ID != first.Order.ID {
		t.Fatalf("expected replay of %s, got %+v", first.Order.ID, second)
	}
	if got := credits(t, g, alicePrincipal.ID); !got.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("replay debited again: %s", got)
	}
}

func TestOrderService_Place_ReleasesKeyOnFailure(t *testing.T) {
	idem := newMemIdempotency()
	svc, _, _ := newTestOrderService(t, idem)

	in := placeInput(ports.OrderItemInput{ProductID: "mpt-data", Quantity: 10})
	in.IdempotencyKey = "k-2"
	if _, err := svc.Place(context.Background(), alicePrincipal, in); !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if len(idem.released) != 1 || idem.released[0] != "k-2" {
		t.Fatalf("expected key to be released, got %v", idem.released)
	}
}

func TestOrderService_Place_IdempotencyStoreDown(t *testing.T) {
	idem := newMemIdempotency()
	idem.fail = errors.New("redis: connection refused")
	svc, _, _ := newTestOrderService(t, idem)

	in := placeInput(ports.OrderItemInput{ProductID: "mpt-10", Quantity: 1})
	in.IdempotencyKey = "k-3"
	res, err := svc.Place(context.Background(), alicePrincipal, in)
	if err != nil {
		t.Fatalf("expected order to be placed without idempotency, got %v", err)
	}
	if res.Replayed {
		t.Fatalf("unexpected replay")
	}
}

func TestOrderService_UpdateStatus_RejectRefundsAndNotifies(t *testing.T) {
	svc, g, audit := newTestOrderService(t, nil)
	ctx := context.Background()

	res, err := svc.Place(ctx, alicePrincipal, placeInput(ports.OrderItemInput{ProductID: "mpt-data", Quantity: 2}))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, adminPrincipal, res.Order.ID, domain.OrderRejected, "Wrong number")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.OrderRejected || updated.AdminNote != "Wrong number" {
		t.Fatalf("unexpected order: %+v", updated)
	}
	if got := credits(t, g, alicePrincipal.ID); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected refund to 100, got %s", got)
	}

	u, _ := g.FindUserByID(ctx, alicePrincipal.ID)
	if len(u.Notifications) != 1 || !strings.Contains(u.Notifications[0], "rejected") {
		t.Fatalf("expected a rejection notification, got %v", u.Notifications)
	}
	if acts := audit.actions(); len(acts) != 1 || acts[0] != "order.rejected" {
		t.Fatalf("unexpected audit trail: %v", acts)
	}

	if _, err := svc.UpdateStatus(ctx, adminPrincipal, res.Order.ID, domain.OrderCompleted, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := credits(t, g, alicePrincipal.ID); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance changed by refused transition: %s", got)
	}
}

func TestOrderService_UpdateStatus_CompleteKeepsDebit(t *testing.T) {
	svc, g, _ := newTestOrderService(t, nil)
	ctx := context.Background()

	res, _ := svc.Place(ctx, alicePrincipal, placeInput(ports.OrderItemInput{ProductID: "mpt-10", Quantity: 3}))
	if _, err := svc.UpdateStatus(ctx, adminPrincipal, res.Order.ID, domain.OrderCompleted, ""); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got := credits(t, g, alicePrincipal.ID); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected 70, got %s", got)
	}
	if _, err := svc.UpdateStatus(ctx, adminPrincipal, res.Order.ID, "shipped", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestOrderService_Get_HidesOtherUsersOrders(t *testing.T) {
	svc, _, _ := newTestOrderService(t, nil)
	ctx := context.Background()

	res, _ := svc.Place(ctx, alicePrincipal, placeInput(ports.OrderItemInput{ProductID: "mpt-10", Quantity: 1}))

	if _, err := svc.Get(ctx, domain.Principal{ID: 3, Username: "bob"}, res.Order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for non-owner, got %v", err)
	}
	if _, err := svc.Get(ctx, adminPrincipal, res.Order.ID); err != nil {
		t.Fatalf("admin Get: %v", err)
	}
	mine, err := svc.ListMine(ctx, alicePrincipal)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListMine: %v %d", err, len(mine))
	}
}
