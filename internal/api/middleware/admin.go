package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/pkg/metrics"
)

// RequireAdmin allows the request through only for admin principals. It must
// run after Authenticate; without a principal it fails as unauthenticated.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}
			if !p.IsAdmin {
				metrics.AuthFailuresTotal.WithLabelValues("not_admin").Inc()
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}
