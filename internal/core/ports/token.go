package ports

import "github.com/mmtopup/storefront/internal/core/domain"

// TokenVerifier validates a signed credential and returns the claims it
// carries. It never consults a store.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}
