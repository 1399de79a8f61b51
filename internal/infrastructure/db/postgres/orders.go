package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

const orderColumns = `id, user_id, items, phone_number, total_cr, status, admin_note, created_at, updated_at`

func scanOrder(row scanner) (*domain.Order, error) {
	var (
		o      domain.Order
		items  []byte
		status string
	)
	err := row.Scan(&o.ID, &o.UserID, &items, &o.PhoneNumber, &o.TotalCr, &status, &o.AdminNote, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &o, nil
}

func (s *Store) FindOrders(ctx context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE ($1::integer = 0 OR user_id = $1)
		   AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC, id COLLATE "C"`,
		filter.UserID, string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("postgres: find orders: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan order: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: find orders: %w", err)
	}
	return out, nil
}

func (s *Store) FindOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find order: %w", err)
	}
	return o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode items: %w", err)
	}

	created, err := scanOrder(s.db.QueryRowContext(ctx,
		`INSERT INTO orders (id, user_id, items, phone_number, total_cr, status, admin_note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), COALESCE($8, now()))
		 RETURNING `+orderColumns,
		o.ID, o.UserID, string(items), o.PhoneNumber, o.TotalCr, string(o.Status), o.AdminNote, nullTime(o)))
	switch pgCode(err) {
	case uniqueViolation:
		return nil, domain.ErrOrderExists
	case foreignKeyViolation:
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: create order: %w", err)
	}
	return created, nil
}

func nullTime(o *domain.Order) any {
	if o.CreatedAt.IsZero() {
		return nil
	}
	return o.CreatedAt
}

// UpdateOrder applies patch in a single statement; the Expect precondition is
// part of the WHERE clause.
func (s *Store) UpdateOrder(ctx context.Context, id string, patch ports.OrderUpdate) (*domain.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx,
		`UPDATE orders SET
		     status     = COALESCE($2, status),
		     admin_note = COALESCE($3, admin_note),
		     updated_at = now()
		 WHERE id = $1 AND ($4::text IS NULL OR status = $4)
		 RETURNING `+orderColumns,
		id, nullStatus(patch.Status), nullable(patch.AdminNote), nullStatus(patch.Expect)))
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("postgres: update order: %w", err)
	}
	if patch.Expect == nil {
		return nil, domain.ErrOrderNotFound
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("postgres: update order: %w", err)
	}
	if !exists {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrInvalidTransition
}

func nullStatus(s *domain.OrderStatus) any {
	if s == nil {
		return nil
	}
	return string(*s)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
