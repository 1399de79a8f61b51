package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmtopup/storefront/internal/core/ports"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Store implements ports.Store on database/sql. Uniqueness is also enforced
// by the schema; those violations map to the same domain errors the gate
// returns for its own checks.
type Store struct {
	db *sql.DB
}

var _ ports.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// pgCode returns the SQLSTATE of err, or "" if err is not a server error.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// nullable dereferences p, or returns nil so the driver sends NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
