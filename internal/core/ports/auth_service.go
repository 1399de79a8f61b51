package ports

import (
	"context"
	"time"

	"github.com/mmtopup/storefront/internal/core/domain"
)

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Me returns the stored user behind an authenticated principal.
	Me(ctx context.Context, p domain.Principal) (*domain.User, error)
}
