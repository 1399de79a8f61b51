// Package middleware holds the authorization gate: Authenticate attaches a
// verified principal to the request and RequireAdmin checks its role.
package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
	"github.com/mmtopup/storefront/internal/pkg/metrics"
)

const (
	// TokenCookie is the cookie the login handler sets.
	TokenCookie = "token"

	principalKey = "principal"
)

type authConfig struct {
	users ports.UserStore
}

// AuthOption configures Authenticate.
type AuthOption func(*authConfig)

// WithPrincipalRecheck makes Authenticate load the user behind every token.
// Banned users are refused, deleted users are treated as unauthenticated,
// and the admin flag is taken from the store instead of the token.
func WithPrincipalRecheck(users ports.UserStore) AuthOption {
	return func(cfg *authConfig) { cfg.users = users }
}

// Authenticate verifies the session token from the "token" cookie or an
// Authorization: Bearer header. By default the token's claims are trusted
// until expiry and no store is consulted.
func Authenticate(verifier ports.TokenVerifier, opts ...AuthOption) echo.MiddlewareFunc {
	var cfg authConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := tokenFrom(c)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return err
			}

			p, err := verifier.Verify(token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, domain.ErrMissingToken) {
					reason = "missing_token"
				}
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				return err
			}

			if cfg.users != nil {
				if p, err = recheck(c, cfg.users, p); err != nil {
					return err
				}
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) (string, error) {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

func recheck(c echo.Context, users ports.UserStore, p domain.Principal) (domain.Principal, error) {
	u, err := users.FindUserByID(c.Request().Context(), p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.AuthFailuresTotal.WithLabelValues("stale_principal").Inc()
		return domain.Principal{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.Principal{}, err
	}
	if u.Banned {
		metrics.AuthFailuresTotal.WithLabelValues("banned").Inc()
		return domain.Principal{}, domain.ErrUserBanned
	}
	return u.Principal(), nil
}

// PrincipalFrom returns the principal attached by Authenticate.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// SetPrincipal attaches p to the request context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}
