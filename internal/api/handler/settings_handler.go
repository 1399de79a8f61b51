package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmtopup/storefront/internal/core/ports"
)

// SettingsHandler serves the public storefront settings.
type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/settings.
//
// @Summary      Admin contact and payment accounts
// @Tags         settings
// @Produce      json
// @Success      200  {object}  settingsResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := h.service.Settings(ctx)
	if err != nil {
		return err
	}
	details, err := h.service.PaymentDetails(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settingsResponse{AdminContact: st.AdminContact, PaymentDetails: details})
}
