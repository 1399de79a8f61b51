package memory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
)

//go:embed seed.json
var defaultSeed []byte

// SeedUser is a user entry of the initial dataset. Password is hashed when
// the store is built; PasswordHash is taken as is.
type SeedUser struct {
	ID             int             `json:"id"`
	Username       string          `json:"username"`
	Password       string          `json:"password,omitempty"`
	PasswordHash   string          `json:"passwordHash,omitempty"`
	IsAdmin        bool            `json:"isAdmin"`
	Credits        decimal.Decimal `json:"credits"`
	SecurityAmount decimal.Decimal `json:"securityAmount"`
	Banned         bool            `json:"banned"`
	Notifications  []string        `json:"notifications"`
}

// Seed is the initial dataset of the fallback store.
type Seed struct {
	Users          []SeedUser            `json:"users"`
	Products       []domain.Product      `json:"products"`
	Orders         []domain.Order        `json:"orders"`
	PaymentDetails domain.PaymentDetails `json:"paymentDetails"`
	Settings       domain.Settings       `json:"settings"`
}

// DefaultSeed returns the dataset compiled into the binary.
func DefaultSeed() (Seed, error) {
	return parseSeed(defaultSeed)
}

// LoadSeed reads a dataset from path, or the compiled-in one if path is empty.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(b)
}

func parseSeed(b []byte) (Seed, error) {
	var seed Seed
	if err := json.Unmarshal(b, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}
