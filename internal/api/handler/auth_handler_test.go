package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mmtopup/storefront/internal/api/middleware"
	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: 7, Username: username}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/register", strings.NewReader(`{"username":"alice","password":"secret1"}`), nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response: %+v", resp)
	}
	if user["username"] != "alice" || user["id"] != float64(7) {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			t.Fatal("service must not be called for invalid input")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, false)

	bodies := []string{
		`{"username":"al","password":"secret1"}`,
		`{"username":"alice","password":"123"}`,
		`{"username":"al ice","password":"secret1"}`,
		`{"password":"secret1"}`,
		`not json`,
	}
	for _, body := range bodies {
		c, _ := newContext(http.MethodPost, "/api/auth/register", strings.NewReader(body), nil)
		assertKind(t, h.Register(c), domain.ErrInvalidInput)
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	h := NewAuthHandler(stub, false)

	c, _ := newContext(http.MethodPost, "/api/auth/register", strings.NewReader(`{"username":"alice","password":"secret1"}`), nil)
	assertKind(t, h.Register(c), domain.ErrConflict)
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				Token:     "signed.jwt.token",
				ExpiresAt: expires,
				User:      &domain.User{ID: 2, Username: username},
			}, nil
		},
	}
	h := NewAuthHandler(stub, true)

	c, rec := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","password":"secret1"}`), nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["token"] != "signed.jwt.token" {
		t.Fatalf("expected token in body, got %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != middleware.TokenCookie || ck.Value != "signed.jwt.token" {
		t.Fatalf("unexpected cookie %s=%s", ck.Name, ck.Value)
	}
	if !ck.HttpOnly || !ck.Secure {
		t.Fatalf("cookie must be httpOnly and secure: %+v", ck)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice","password":"nope"}`), nil)
	assertKind(t, h.Login(c), domain.ErrUnauthenticated)
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie expected on failed login")
	}
}

func TestAuthHandler_Logout_ExpiresCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, rec := newContext(http.MethodPost, "/api/auth/logout", nil, nil)
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expired cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(_ context.Context, p domain.Principal) (*domain.User, error) {
			return &domain.User{ID: p.ID, Username: p.Username}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newContext(http.MethodGet, "/api/auth/me", nil, &userPrincipal)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	user := decode(t, rec)["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	c, _ = newContext(http.MethodGet, "/api/auth/me", nil, nil)
	assertKind(t, h.Me(c), domain.ErrUnauthenticated)
}
