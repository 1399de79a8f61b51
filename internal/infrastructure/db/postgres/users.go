package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

const userColumns = `id, username, password_hash, is_admin, credits, security_amount, banned, notifications, created_at, updated_at`

func scanUser(row scanner) (*domain.User, error) {
	var (
		u             domain.User
		notifications []byte
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.Credits,
		&u.SecurityAmount, &u.Banned, &notifications, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Notifications = []string{}
	if len(notifications) > 0 {
		if err := json.Unmarshal(notifications, &u.Notifications); err != nil {
			return nil, fmt.Errorf("decode notifications: %w", err)
		}
	}
	return &u, nil
}

func (s *Store) FindUsers(ctx context.Context, filter ports.UserFilter) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE ($1::boolean IS NULL OR banned = $1) ORDER BY id`,
		nullable(filter.Banned))
	if err != nil {
		return nil, fmt.Errorf("postgres: find users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan user: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: find users: %w", err)
	}
	return out, nil
}

func (s *Store) FindUserByID(ctx context.Context, id int) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find user: %w", err)
	}
	return u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find user: %w", err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	notifications := user.Notifications
	if notifications == nil {
		notifications = []string{}
	}
	encoded, err := json.Marshal(notifications)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode notifications: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, is_admin, credits, security_amount, banned, notifications)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		user.Username, user.PasswordHash, user.IsAdmin, user.Credits, user.SecurityAmount, user.Banned, string(encoded)))
	if pgCode(err) == uniqueViolation {
		return nil, domain.ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: create user: %w", err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int, patch ports.UserUpdate) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`UPDATE users SET
		     is_admin        = COALESCE($2, is_admin),
		     banned          = COALESCE($3, banned),
		     security_amount = COALESCE($4::numeric, security_amount),
		     notifications   = CASE WHEN $5::text IS NULL THEN notifications
		                            ELSE notifications || jsonb_build_array($5::text) END,
		     updated_at      = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, nullable(patch.IsAdmin), nullable(patch.Banned), nullable(patch.SecurityAmount), nullable(patch.AddNotification)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: update user: %w", err)
	}
	return u, nil
}

// AdjustCredits applies delta in one conditional UPDATE, so the balance can
// never go negative even across processes.
func (s *Store) AdjustCredits(ctx context.Context, id int, delta decimal.Decimal) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`UPDATE users SET credits = credits + $2::numeric, updated_at = now()
		 WHERE id = $1 AND credits + $2::numeric >= 0
		 RETURNING `+userColumns,
		id, delta))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("postgres: adjust credits: %w", err)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("postgres: adjust credits: %w", err)
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return nil, domain.ErrInsufficientCredits
}
