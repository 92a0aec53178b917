package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *postgresRepo) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return loadCart(ctx, r.pool, sessionID)
}

func (r *postgresRepo) Update(ctx context.Context, sessionID string, fn Mutation) (*domain.Cart, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var locked string
	err = tx.QueryRow(ctx, `SELECT id::text FROM sessions WHERE id = $1 FOR UPDATE`, sessionID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	cart, err := loadCart(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE session_id = $1`, sessionID); err != nil {
		return nil, err
	}
	if len(cart.Lines) > 0 {
		batch := &pgx.Batch{}
		for i, line := range cart.Lines {
			batch.Queue(`
INSERT INTO cart_lines (session_id, product_id, position, name, unit_price_cents, quantity, image, added_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, sessionID, line.ProductID, i, line.Name, line.UnitPriceCents, line.Quantity, line.Image, line.AddedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) Clear(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE session_id = $1`, sessionID)
	return err
}

func loadCart(ctx context.Context, q querier, sessionID string) (*domain.Cart, error) {
	const linesQuery = `
SELECT product_id, name, unit_price_cents, quantity, image, added_at
FROM cart_lines
WHERE session_id = $1
ORDER BY position ASC
`
	rows, err := q.Query(ctx, linesQuery, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &domain.Cart{SessionID: sessionID}
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ProductID,
			&line.Name,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.Image,
			&line.AddedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}
