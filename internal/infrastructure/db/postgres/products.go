package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmtopup/storefront/internal/core/domain"
	"github.com/mmtopup/storefront/internal/core/ports"
)

const productColumns = `id, operator, category, name, price_mmk, price_cr, available`

func scanProduct(row scanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Operator, &p.Category, &p.Name, &p.PriceMMK, &p.PriceCr, &p.Available); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) FindProducts(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE ($1 = '' OR operator = $1)
		   AND ($2 = '' OR category = $2)
		   AND (NOT $3::boolean OR available)
		 ORDER BY operator COLLATE "C", id COLLATE "C"`,
		filter.Operator, filter.Category, filter.AvailableOnly)
	if err != nil {
		return nil, fmt.Errorf("postgres: find products: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan product: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: find products: %w", err)
	}
	return out, nil
}

func (s *Store) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find product: %w", err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created, err := scanProduct(s.db.QueryRowContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+productColumns,
		p.ID, p.Operator, p.Category, p.Name, p.PriceMMK, p.PriceCr, p.Available))
	if pgCode(err) == uniqueViolation {
		return nil, domain.ErrProductExists
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: create product: %w", err)
	}
	return created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, patch ports.ProductUpdate) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		`UPDATE products SET
		     operator  = COALESCE($2, operator),
		     category  = COALESCE($3, category),
		     name      = COALESCE($4, name),
		     price_mmk = COALESCE($5, price_mmk),
		     price_cr  = COALESCE($6, price_cr),
		     available = COALESCE($7, available)
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, nullable(patch.Operator), nullable(patch.Category), nullable(patch.Name),
		nullable(patch.PriceMMK), nullable(patch.PriceCr), nullable(patch.Available)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: update product: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
