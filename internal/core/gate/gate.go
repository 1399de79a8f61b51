package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
	"github.com/mmtopup/storefront/internal/pkg/metrics"
)

const (
	entityUser     = "user"
	entityProduct  = "product"
	entityOrder    = "order"
	entitySettings = "settings"

	opFindMany   = "find_many"
	opFindUnique = "find_unique"
	opCreate     = "create"
	opUpdate     = "update"
	opDelete     = "delete"
)

var opVerb = map[string]string{
	opFindMany:   "fetch",
	opFindUnique: "fetch",
	opCreate:     "create",
	opUpdate:     "update",
	opDelete:     "delete",
}

var entityPlural = map[string]string{
	entityUser:     "users",
	entityProduct:  "products",
	entityOrder:    "orders",
	entitySettings: "settings",
}

// Gate is the single data surface handed to services. It delegates to the
// store picked by its Router and guarantees that:
//
//   - writes to one entity collection are serialized within the process, and
//     uniqueness and referential checks run here, once, for both backends;
//   - every returned error unwraps to one of the domain error kinds;
//   - a primary call that outlives the configured timeout fails that request
//     with domain.ErrUnavailable without touching the store selection.
type Gate struct {
	router  *Router
	timeout time.Duration
	logger  zerolog.Logger

	usersMu    sync.Mutex
	productsMu sync.Mutex
	ordersMu   sync.Mutex
	settingsMu sync.Mutex
}

var _ ports.Store = (*Gate)(nil)

// New returns a gate over router. A zero timeout leaves primary calls bounded
// only by the caller's context.
func New(router *Router, timeout time.Duration, logger zerolog.Logger) *Gate {
	return &Gate{router: router, timeout: timeout, logger: logger}
}

// Backend reports which store serves this process.
func (g *Gate) Backend() Backend { return g.router.Backend() }

// Connected reports whether the primary store serves this process.
func (g *Gate) Connected() bool { return g.router.Connected() }

func (g *Gate) do(ctx context.Context, entity, op string, mu *sync.Mutex, fn func(context.Context, ports.Store) error) error {
	backend := g.router.Backend()
	start := time.Now()

	if mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}
	if backend == BackendPrimary && g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	err := g.translate(backend, entity, op, fn(ctx, g.router.Store()))

	metrics.StoreOperationDuration.WithLabelValues(string(backend), entity, op).Observe(time.Since(start).Seconds())
	metrics.StoreOperationsTotal.WithLabelValues(string(backend), entity, op, domain.KindName(err)).Inc()
	return err
}

// translate passes kinded errors through and turns anything else into a
// generic Unavailable error, logging the original.
func (g *Gate) translate(backend Backend, entity, op string, err error) error {
	if err == nil {
		return nil
	}
	var ke *domain.KindError
	if errors.As(err, &ke) {
		return ke
	}

	ev := g.logger.Error()
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		ev = g.logger.Warn()
	}
	ev.Err(err).
		Str("backend", string(backend)).
		Str("entity", entity).
		Str("op", op).
		Msg("store operation failed")

	noun := entity
	if op == opFindMany {
		noun = entityPlural[entity]
	}
	return domain.NewError(domain.ErrUnavailable, fmt.Sprintf("failed to %s %s", opVerb[op], noun))
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (g *Gate) FindUsers(ctx context.Context, filter ports.UserFilter) ([]domain.User, error) {
	var out []domain.User
	err := g.do(ctx, entityUser, opFindMany, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.FindUsers(ctx, filter)
		return err
	})
	return out, err
}

func (g *Gate) FindUserByID(ctx context.Context, id int) (*domain.User, error) {
	var out *domain.User
	err := g.do(ctx, entityUser, opFindUnique, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.FindUserByID(ctx, id)
		return err
	})
	return out, err
}

func (g *Gate) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var out *domain.User
	err := g.do(ctx, entityUser, opFindUnique, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.FindUserByUsername(ctx, username)
		return err
	})
	return out, err
}

func (g *Gate) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	var out *domain.User
	err := g.do(ctx, entityUser, opCreate, &g.usersMu, func(ctx context.Context, s ports.Store) error {
		if err := absent(s.FindUserByUsername(ctx, user.Username)); err != nil {
			return usernameTaken(err)
		}
		var err error
		out, err = s.CreateUser(ctx, user)
		return err
	})
	return out, err
}

func (g *Gate) UpdateUser(ctx context.Context, id int, patch ports.UserUpdate) (*domain.User, error) {
	var out *domain.User
	err := g.do(ctx, entityUser, opUpdate, &g.usersMu, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.UpdateUser(ctx, id, patch)
		return err
	})
	return out, err
}

// AdjustCredits rejects deltas finer than domain.CreditPlaces before either
// store sees them; the primary would otherwise round where the fallback does not.
func (g *Gate) AdjustCredits(ctx context.Context, id int, delta decimal.Decimal) (*domain.User, error) {
	if !domain.ValidCreditAmount(delta) {
		return nil, domain.ErrCreditPrecision
	}
	var out *domain.User
	err := g.do(ctx, entityUser, opUpdate, &g.usersMu, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.AdjustCredits(ctx, id, delta)
		return err
	})
	return out, err
}

// ── Products ──────────────────────────────────────────────────────────────────

func (g *Gate) FindProducts(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	err := g.do(ctx, entityProduct, opFindMany, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.FindProducts(ctx, filter)
		return err
	})
	return out, err
}

func (g *Gate) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out *domain.Product
	err := g.do(ctx, entityProduct, opFindUnique, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.FindProduct(ctx, id)
		return err
	})
	return out, err
}

func (g *Gate) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	var out *domain.Product
	err := g.do(ctx, entityProduct, opCreate, &g.productsMu, func(ctx context.Context, s ports.Store) error {
		if err := absent(s.FindProduct(ctx, p.ID)); err != nil {
			return productExists(err)
		}
		var err error
		out, err = s.CreateProduct(ctx, p)
		return err
	})
	return out, err
}

func (g *Gate) UpdateProduct(ctx context.Context, id string, patch ports.ProductUpdate) (*domain.Product, error) {
	var out *domain.Product
	err := g.do(ctx, entityProduct, opUpdate, &g.productsMu, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.UpdateProduct(ctx, id, patch)
		return err
	})
	return out, err
}

func (g *Gate) DeleteProduct(ctx context.Context, id string) error {
	return g.do(ctx, entityProduct, opDelete, &g.productsMu, func(ctx context.Context, s ports.Store) error {
		return s.DeleteProduct(ctx, id)
	})
}

// ── Orders ────────────────────────────────────────────────────────────────────

func (g *Gate) FindOrders(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	err := g.do(ctx, entityOrder, opFindMany, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.FindOrders(ctx, filter)
		return err
	})
	return out, err
}

func (g *Gate) FindOrder(ctx context.Context, id string) (*domain.Order, error) {
	var out *domain.Order
	err := g.do(ctx, entityOrder, opFindUnique, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.FindOrder(ctx, id)
		return err
	})
	return out, err
}

// CreateOrder rejects a duplicate id and any order whose user or products do
// not exist in the active store.
func (g *Gate) CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	var out *domain.Order
	err := g.do(ctx, entityOrder, opCreate, &g.ordersMu, func(ctx context.Context, s ports.Store) error {
		if err := absent(s.FindOrder(ctx, o.ID)); err != nil {
			return orderExists(err)
		}
		if _, err := s.FindUserByID(ctx, o.UserID); err != nil {
			return err
		}
		for _, item := range o.Items {
			if _, err := s.FindProduct(ctx, item.ProductID); err != nil {
				return err
			}
		}
		var err error
		out, err = s.CreateOrder(ctx, o)
		return err
	})
	return out, err
}

func (g *Gate) UpdateOrder(ctx context.Context, id string, patch ports.OrderUpdate) (*domain.Order, error) {
	var out *domain.Order
	err := g.do(ctx, entityOrder, opUpdate, &g.ordersMu, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.UpdateOrder(ctx, id, patch)
		return err
	})
	return out, err
}

func (g *Gate) DeleteOrder(ctx context.Context, id string) error {
	return g.do(ctx, entityOrder, opDelete, &g.ordersMu, func(ctx context.Context, s ports.Store) error {
		return s.DeleteOrder(ctx, id)
	})
}

// ── Settings ──────────────────────────────────────────────────────────────────

func (g *Gate) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var out *domain.Settings
	err := g.do(ctx, entitySettings, opFindUnique, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.GetSettings(ctx)
		return err
	})
	return out, err
}

func (g *Gate) UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error) {
	var out *domain.Settings
	err := g.do(ctx, entitySettings, opUpdate, &g.settingsMu, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.UpdateSettings(ctx, settings)
		return err
	})
	return out, err
}

func (g *Gate) GetPaymentDetails(ctx context.Context) (domain.PaymentDetails, error) {
	var out domain.PaymentDetails
	err := g.do(ctx, entitySettings, opFindMany, nil, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.GetPaymentDetails(ctx)
		return err
	})
	return out, err
}

func (g *Gate) UpsertPaymentMethod(ctx context.Context, method string, acct domain.PaymentAccount) (domain.PaymentDetails, error) {
	var out domain.PaymentDetails
	err := g.do(ctx, entitySettings, opUpdate, &g.settingsMu, func(ctx context.Context, s ports.Store) (err error) {
		out, err = s.UpsertPaymentMethod(ctx, method, acct)
		return err
	})
	return out, err
}

// ── Checks ────────────────────────────────────────────────────────────────────

var errPresent = errors.New("entity present")

// absent turns a lookup into a presence check: nil when the lookup reports
// not found, errPresent when it found something, and the lookup error
// otherwise.
func absent[T any](_ T, err error) error {
	switch {
	case err == nil:
		return errPresent
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

func usernameTaken(err error) error { return presentAs(err, domain.ErrUsernameTaken) }
func productExists(err error) error { return presentAs(err, domain.ErrProductExists) }
func orderExists(err error) error { return presentAs(err, domain.ErrOrderExists) }

func presentAs(err, conflict error) error {
	if errors.Is(err, errPresent) {
		return conflict
	}
	return err
}
