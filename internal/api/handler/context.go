package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mmtopup/storefront/internal/api/middleware"
	"github.com/mmtopup/storefront/internal/core/domain"
)

// principal returns the identity attached by the auth middleware. A missing
// principal means the route was registered without Authenticate; it is
// reported as unauthenticated rather than trusted.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrMissingToken
	}
	return p, nil
}

// bind decodes the request body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewError(domain.ErrInvalidInput, "invalid payload")
	}
	return c.Validate(req)
}

// intParam parses a positive integer path parameter.
func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, domain.NewError(domain.ErrInvalidInput, name+" must be a positive integer")
	}
	return v, nil
}
