package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

const orderBody = `{"items":[{"productId":"p1","quantity":2}],"phoneNumber":"09123456789"}`

func TestOrderHandler_Place_Created(t *testing.T) {
	var got ports.PlaceOrderInput
	stub := &stubOrderService{
		placeFn: func(_ context.Context, actor domain.Principal, in ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			if actor.ID != userPrincipal.ID {
				t.Fatalf("unexpected actor %+v", actor)
			}
			got = in
			return &ports.PlaceOrderResult{Order: &domain.Order{ID: "o1", UserID: actor.ID, TotalCr: 50, Status: domain.OrderPending}}, nil
		},
	}
	h := NewOrderHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/orders", strings.NewReader(orderBody), &userPrincipal)
	c.Request().Header.Set(IdempotencyHeader, "key-1")
	if err := h.Place(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.IdempotencyKey != "key-1" || len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected input %+v", got)
	}
	if o := decode(t, rec)["order"].(map[string]any); o["status"] != "pending" || o["totalCr"] != float64(50) {
		t.Fatalf("unexpected order %+v", o)
	}
}

func TestOrderHandler_Place_ReplayIs200(t *testing.T) {
	stub := &stubOrderService{
		placeFn: func(context.Context, domain.Principal, ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			return &ports.PlaceOrderResult{Order: &domain.Order{ID: "o1"}, Replayed: true}, nil
		},
	}
	h := NewOrderHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/orders", strings.NewReader(orderBody), &userPrincipal)
	if err := h.Place(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a replay, got %d", rec.Code)
	}
}

func TestOrderHandler_Place_Invalid(t *testing.T) {
	stub := &stubOrderService{
		placeFn: func(context.Context, domain.Principal, ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			t.Fatal("service must not be called for invalid input")
			return nil, nil
		},
	}
	h := NewOrderHandler(stub)

	for _, body := range []string{
		`{"items":[],"phoneNumber":"09123456789"}`,
		`{"items":[{"productId":"p1","quantity":0}],"phoneNumber":"09123456789"}`,
		`{"items":[{"productId":"","quantity":1}],"phoneNumber":"09123456789"}`,
		`{"items":[{"productId":"p1","quantity":1}]}`,
	} {
		c, _ := newContext(http.MethodPost, "/api/orders", strings.NewReader(body), &userPrincipal)
		assertKind(t, h.Place(c), domain.ErrInvalidInput)
	}
}

func TestOrderHandler_Place_InsufficientCredits(t *testing.T) {
	stub := &stubOrderService{
		placeFn: func(context.Context, domain.Principal, ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
			return nil, domain.ErrInsufficientCredits
		},
	}
	h := NewOrderHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/orders", strings.NewReader(orderBody), &userPrincipal)
	assertKind(t, h.Place(c), domain.ErrConflict)
}

func TestOrderHandler_ListMineAndGet(t *testing.T) {
	stub := &stubOrderService{orders: []domain.Order{
		{ID: "o1", UserID: userPrincipal.ID},
		{ID: "o2", UserID: 99},
	}}
	h := NewOrderHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/orders", nil, &userPrincipal)
	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if orders := decode(t, rec)["orders"].([]any); len(orders) != 1 {
		t.Fatalf("expected only the caller's order, got %d", len(orders))
	}

	c, _ = newContext(http.MethodGet, "/api/orders/o2", nil, &userPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("o2")
	assertKind(t, h.Get(c), domain.ErrNotFound)
}

func TestOrderHandler_List_StatusFilter(t *testing.T) {
	stub := &stubOrderService{}
	h := NewOrderHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/admin/orders?status=pending", nil, &adminPrincipal)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.filter.Status != domain.OrderPending {
		t.Fatalf("expected pending filter, got %q", stub.filter.Status)
	}
	if !strings.Contains(rec.Body.String(), `"orders":[]`) {
		t.Fatalf("empty list must render as [], got %s", rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/api/admin/orders?status=shipped", nil, &adminPrincipal)
	assertKind(t, h.List(c), domain.ErrInvalidInput)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	stub := &stubOrderService{
		statusFn: func(_ context.Context, _ domain.Principal, id string, status domain.OrderStatus, note string) (*domain.Order, error) {
			if id != "o1" || status != domain.OrderRejected || note != "wrong number" {
				t.Fatalf("unexpected args %s %s %s", id, status, note)
			}
			return &domain.Order{ID: id, Status: status, AdminNote: note}, nil
		},
	}
	h := NewOrderHandler(stub)

	c, rec := newContext(http.MethodPut, "/api/admin/orders/o1/status", strings.NewReader(`{"status":"rejected","adminNote":"wrong number"}`), &adminPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("o1")
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if o := decode(t, rec)["order"].(map[string]any); o["status"] != "rejected" {
		t.Fatalf("unexpected order %+v", o)
	}

	c, _ = newContext(http.MethodPut, "/api/admin/orders/o1/status", strings.NewReader(`{"status":"pending"}`), &adminPrincipal)
	c.SetParamNames("id")
	c.SetParamValues("o1")
	assertKind(t, h.UpdateStatus(c), domain.ErrInvalidInput)
}
