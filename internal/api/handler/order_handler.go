package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

// IdempotencyHeader lets a client retry POST /api/orders without paying twice.
const IdempotencyHeader = "Idempotency-Key"

// OrderHandler handles order placement and settlement.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Place handles POST /api/orders. A replayed Idempotency-Key returns the
// original order with 200 instead of 201.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      placeOrderRequest  true   "Order"
// @Success      201              {object}  orderResponse
// @Success      200              {object}  orderResponse
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      403              {object}  map[string]string
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req placeOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	res, err := h.service.Place(c.Request().Context(), actor, ports.PlaceOrderInput{
		Items:          items,
		PhoneNumber:    req.PhoneNumber,
		IdempotencyKey: c.Request().Header.Get(IdempotencyHeader),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, orderResponse{Order: res.Order})
}

// ListMine handles GET /api/orders.
//
// @Summary      The caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Orders: nonNil(orders)})
}

// Get handles GET /api/orders/:id. Orders of other users read as not found.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

// List handles GET /api/admin/orders with an optional status filter.
//
// @Summary      All orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending, completed or rejected"
// @Success      200     {object}  orderListResponse
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /api/admin/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	status := domain.OrderStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return domain.NewError(domain.ErrInvalidInput, "status must be one of: pending completed rejected")
	}
	orders, err := h.service.List(c.Request().Context(), ports.OrderFilter{Status: status})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Orders: nonNil(orders)})
}

// UpdateStatus handles PUT /api/admin/orders/:id/status.
//
// @Summary      Complete or reject a pending order
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Order id"
// @Param        body  body      updateOrderStatusRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req updateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status, req.AdminNote)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: order})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
