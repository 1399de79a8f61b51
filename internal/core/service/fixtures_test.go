package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/gate"
	"github.com/mmtopup/storefront/internal/infrastructure/db/memory"
)

var (
	adminPrincipal = domain.Principal{ID: 1, Username: "admin", IsAdmin: true}
	alicePrincipal = domain.Principal{ID: 2, Username: "alice"}
)

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

// newTestGate returns a fallback-backed gate seeded with an admin, alice
// (100 credits), bob (banned) and three products, one unavailable.
func newTestGate(t *testing.T) *gate.Gate {
	t.Helper()
	st, err := memory.New(memory.Seed{
		Users: []memory.SeedUser{
			{ID: 1, Username: "admin", PasswordHash: hashPassword(t, "admin123"), IsAdmin: true},
			{ID: 2, Username: "alice", PasswordHash: hashPassword(t, "secret1"), Credits: decimal.NewFromInt(100)},
			{ID: 3, Username: "bob", PasswordHash: hashPassword(t, "secret2"), Credits: decimal.NewFromInt(100), Banned: true},
		},
		Products: []domain.Product{
			{ID: "mpt-10", Operator: "MPT", Category: "topup", Name: "MPT 1000", PriceMMK: 1000, PriceCr: 10, Available: true},
			{ID: "mpt-data", Operator: "MPT", Category: "data", Name: "MPT 1GB", PriceMMK: 2500, PriceCr: 25, Available: true},
			{ID: "atom-off", Operator: "ATOM", Category: "topup", Name: "ATOM 1000", PriceMMK: 1000, PriceCr: 10, Available: false},
		},
		PaymentDetails: domain.PaymentDetails{"KPay": {Name: "Admin", Number: "09-1"}},
	})
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	return gate.New(gate.NewRouter(nil, st, false), 0, zerolog.Nop())
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (a *recordingAudit) Record(e domain.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type memIdempotency struct {
	mu       sync.Mutex
	bindings map[string]string
	released []string
	fail     error
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{bindings: make(map[string]string)}
}

func (m *memIdempotency) Reserve(_ context.Context, _ int, key, orderID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return "", false, m.fail
	}
	if existing, ok := m.bindings[key]; ok {
		return existing, false, nil
	}
	m.bindings[key] = orderID
	return orderID, true, nil
}

func (m *memIdempotency) Release(_ context.Context, _ int, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bindings, key)
	m.released = append(m.released, key)
	return nil
}

func credits(t *testing.T, g *gate.Gate, userID int) decimal.Decimal {
	t.Helper()
	u, err := g.FindUserByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("FindUserByID(%d): %v", userID, err)
	}
	return u.Credits
}
