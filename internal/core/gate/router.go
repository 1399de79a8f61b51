// Package gate routes every data operation to the store chosen at startup
// and gives both stores one error contract.
package gate

import (
	"github.com/mmtopup/storefront/internal/core/ports"
	"github.com/mmtopup/storefront/internal/pkg/metrics"
)

// Backend names the store a Router delegates to.
type Backend string

const (
	BackendPrimary  Backend = "primary"
	BackendFallback Backend = "fallback"
)

// Router holds the store selection made once at process start. It is never
// re-evaluated: a primary that was down at startup stays unused until restart.
type Router struct {
	store   ports.Store
	backend Backend
}

// NewRouter selects primary when connected is true and primary is non-nil,
// fallback otherwise. Pass an untyped nil for primary when no database
// handle exists.
func NewRouter(primary, fallback ports.Store, connected bool) *Router {
	r := &Router{store: fallback, backend: BackendFallback}
	if connected && primary != nil {
		r = &Router{store: primary, backend: BackendPrimary}
	}

	metrics.StoreBackend.WithLabelValues(string(BackendPrimary)).Set(0)
	metrics.StoreBackend.WithLabelValues(string(BackendFallback)).Set(0)
	metrics.StoreBackend.WithLabelValues(string(r.backend)).Set(1)
	return r
}

// Store returns the selected store.
func (r *Router) Store() ports.Store { return r.store }

// Backend reports which store was selected.
func (r *Router) Backend() Backend { return r.backend }

// Connected reports whether the primary store is in use.
func (r *Router) Connected() bool { return r.backend == BackendPrimary }
