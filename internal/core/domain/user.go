package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Credits render as JSON numbers, like every other amount in the payloads.
	decimal.MarshalJSONWithoutQuotes = true
}

// CreditPlaces is the number of decimal places balances are kept to.
const CreditPlaces = 2

// ValidCreditAmount reports whether d fits CreditPlaces without rounding.
func ValidCreditAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(CreditPlaces))
}

// User is a storefront account. Users are never deleted, only banned.
type User struct {
	ID             int             `json:"id"`
	Username       string          `json:"username"`
	PasswordHash   string          `json:"-"`
	IsAdmin        bool            `json:"isAdmin"`
	Credits        decimal.Decimal `json:"credits"`
	SecurityAmount decimal.Decimal `json:"securityAmount"`
	Banned         bool            `json:"banned"`
	Notifications  []string        `json:"notifications"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Principal is the identity attached to a request after its credential
// verifies. It mirrors the token claims, not necessarily the stored user.
type Principal struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Principal returns the identity a token issued for u would carry.
func (u User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// Clone returns a deep copy of u. An empty notification list stays empty
// rather than becoming nil, so it still renders as [].
func (u User) Clone() User {
	if u.Notifications != nil {
		u.Notifications = append(make([]string, 0, len(u.Notifications)), u.Notifications...)
	}
	return u
}
