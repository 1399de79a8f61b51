package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

// AdminHandler exposes user management and storefront settings to admins.
type AdminHandler struct {
	users    ports.AdminService
	settings ports.SettingsService
}

func NewAdminHandler(users ports.AdminService, settings ports.SettingsService) *AdminHandler {
	return &AdminHandler{users: users, settings: settings}
}

// ListUsers handles GET /api/admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        banned  query     bool  false  "Only banned (true) or active (false) users"
// @Success      200     {object}  userListResponse
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var filter ports.UserFilter
	if raw := c.QueryParam("banned"); raw != "" {
		banned, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.NewError(domain.ErrInvalidInput, "banned must be true or false")
		}
		filter.Banned = &banned
	}

	users, err := h.users.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: nonNil(users)})
}

// SetBanned handles PUT /api/admin/users/:id/ban.
//
// @Summary      Ban or unban a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "User id"
// @Param        body  body      setBannedRequest  true  "Ban flag"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/users/{id}/ban [put]
func (h *AdminHandler) SetBanned(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req setBannedRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.SetBanned(c.Request().Context(), actor, id, *req.Banned)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// AdjustCredits handles POST /api/admin/users/:id/credits. A negative
// amount deducts.
//
// @Summary      Add or deduct credits
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "User id"
// @Param        body  body      adjustCreditsRequest  true  "Signed amount"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/users/{id}/credits [post]
func (h *AdminHandler) AdjustCredits(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req adjustCreditsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.AdjustCredits(c.Request().Context(), actor, id, req.Amount, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// UpdateSettings handles PUT /api/admin/settings.
//
// @Summary      Update storefront settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSettingsRequest  true  "Settings"
// @Success      200   {object}  domain.Settings
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/admin/settings [put]
func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req updateSettingsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	st, err := h.settings.UpdateSettings(c.Request().Context(), actor, domain.Settings{AdminContact: req.AdminContact})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// SetPaymentMethod handles PUT /api/admin/payment-methods/:method.
//
// @Summary      Create or replace a payment account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        method  path      string                 true  "Payment method, e.g. KPay"
// @Param        body    body      paymentAccountRequest  true  "Account"
// @Success      200     {object}  paymentDetailsResponse
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /api/admin/payment-methods/{method} [put]
func (h *AdminHandler) SetPaymentMethod(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req paymentAccountRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	details, err := h.settings.SetPaymentMethod(c.Request().Context(), actor, c.Param("method"), domain.PaymentAccount{
		Name:   req.Name,
		Number: req.Number,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paymentDetailsResponse{PaymentDetails: details})
}
