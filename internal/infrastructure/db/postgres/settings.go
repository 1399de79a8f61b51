package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmtopup/storefront/internal/core/domain"
)

const adminContactKey = "admin_contact"

func (s *Store) GetSettings(ctx context.Context) (*domain.Settings, error) {
	var out domain.Settings
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = $1`, adminContactKey).Scan(&out.AdminContact)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("postgres: get settings: %w", err)
	}
	return &out, nil
}

func (s *Store) UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		adminContactKey, settings.AdminContact)
	if err != nil {
		return nil, fmt.Errorf("postgres: update settings: %w", err)
	}
	out := settings
	return &out, nil
}

func (s *Store) GetPaymentDetails(ctx context.Context) (domain.PaymentDetails, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT method, name, number FROM payment_methods ORDER BY method`)
	if err != nil {
		return nil, fmt.Errorf("postgres: get payment details: %w", err)
	}
	defer rows.Close()

	out := make(domain.PaymentDetails)
	for rows.Next() {
		var (
			method string
			acct   domain.PaymentAccount
		)
		if err := rows.Scan(&method, &acct.Name, &acct.Number); err != nil {
			return nil, fmt.Errorf("postgres: scan payment method: %w", err)
		}
		out[method] = acct
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: get payment details: %w", err)
	}
	return out, nil
}

func (s *Store) UpsertPaymentMethod(ctx context.Context, method string, acct domain.PaymentAccount) (domain.PaymentDetails, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_methods (method, name, number) VALUES ($1, $2, $3)
		 ON CONFLICT (method) DO UPDATE SET name = EXCLUDED.name, number = EXCLUDED.number`,
		method, acct.Name, acct.Number)
	if err != nil {
		return nil, fmt.Errorf("postgres: upsert payment method: %w", err)
	}
	return s.GetPaymentDetails(ctx)
}
