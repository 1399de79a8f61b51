package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/api/middleware"
	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

var (
	adminPrincipal = domain.Principal{ID: 1, Username: "admin", IsAdmin: true}
	userPrincipal  = domain.Principal{ID: 2, Username: "alice"}
)

// newContext builds an echo context for a JSON request. A nil principal
// leaves the request unauthenticated.
func newContext(method, target string, body io.Reader, p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		middleware.SetPrincipal(c, *p)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

// --- Stubs ---

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	meFn       func(ctx context.Context, p domain.Principal) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.meFn(ctx, p)
}

type stubCatalogService struct {
	products []domain.Product
	created  *ports.CreateProductInput
	updated  *ports.ProductUpdate
	deleted  string
	err      error
}

func (s *stubCatalogService) Catalog(context.Context) (domain.Catalog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return domain.GroupCatalog(s.products), nil
}

func (s *stubCatalogService) List(_ context.Context, f ports.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *stubCatalogService) Get(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *stubCatalogService) Create(_ context.Context, _ domain.Principal, in ports.CreateProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &in
	return &domain.Product{ID: in.ID, Operator: in.Operator, Category: in.Category, Name: in.Name,
		PriceMMK: in.PriceMMK, PriceCr: in.PriceCr, Available: true}, nil
}

func (s *stubCatalogService) Update(_ context.Context, _ domain.Principal, id string, patch ports.ProductUpdate) (*domain.Product, error) {
	s.updated = &patch
	p, err := s.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	return p, nil
}

func (s *stubCatalogService) Delete(_ context.Context, _ domain.Principal, id string) error {
	if _, err := s.Get(context.Background(), id); err != nil {
		return err
	}
	s.deleted = id
	return nil
}

type stubOrderService struct {
	placeFn  func(ctx context.Context, actor domain.Principal, in ports.PlaceOrderInput) (*ports.PlaceOrderResult, error)
	orders   []domain.Order
	filter   ports.OrderFilter
	statusFn func(ctx context.Context, actor domain.Principal, id string, status domain.OrderStatus, note string) (*domain.Order, error)
}

func (s *stubOrderService) Place(ctx context.Context, actor domain.Principal, in ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	return s.placeFn(ctx, actor, in)
}

func (s *stubOrderService) Get(_ context.Context, actor domain.Principal, id string) (*domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == id && (actor.IsAdmin || o.UserID == actor.ID) {
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrderService) ListMine(_ context.Context, actor domain.Principal) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == actor.ID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderService) List(_ context.Context, f ports.OrderFilter) ([]domain.Order, error) {
	s.filter = f
	return s.orders, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, actor domain.Principal, id string, status domain.OrderStatus, note string) (*domain.Order, error) {
	return s.statusFn(ctx, actor, id, status, note)
}

type stubAdminService struct {
	users   []domain.User
	filter  ports.UserFilter
	banned  map[int]bool
	credits map[int]decimal.Decimal
}

func (s *stubAdminService) ListUsers(_ context.Context, f ports.UserFilter) ([]domain.User, error) {
	s.filter = f
	var out []domain.User
	for _, u := range s.users {
		if f.Matches(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubAdminService) SetBanned(_ context.Context, _ domain.Principal, id int, banned bool) (*domain.User, error) {
	if s.banned == nil {
		s.banned = map[int]bool{}
	}
	s.banned[id] = banned
	return &domain.User{ID: id, Banned: banned}, nil
}

func (s *stubAdminService) AdjustCredits(_ context.Context, _ domain.Principal, id int, delta decimal.Decimal, _ string) (*domain.User, error) {
	if s.credits == nil {
		s.credits = map[int]decimal.Decimal{}
	}
	s.credits[id] = delta
	return &domain.User{ID: id, Credits: delta}, nil
}

type stubSettingsService struct {
	settings domain.Settings
	details  domain.PaymentDetails
}

func (s *stubSettingsService) Settings(context.Context) (*domain.Settings, error) {
	st := s.settings
	return &st, nil
}

func (s *stubSettingsService) PaymentDetails(context.Context) (domain.PaymentDetails, error) {
	return s.details.Clone(), nil
}

func (s *stubSettingsService) UpdateSettings(_ context.Context, _ domain.Principal, st domain.Settings) (*domain.Settings, error) {
	s.settings = st
	return &st, nil
}

func (s *stubSettingsService) SetPaymentMethod(_ context.Context, _ domain.Principal, method string, acct domain.PaymentAccount) (domain.PaymentDetails, error) {
	if s.details == nil {
		s.details = domain.PaymentDetails{}
	}
	s.details[method] = acct
	return s.details.Clone(), nil
}
