package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
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

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Session, error) {
	const q = `
WITH s AS (
    INSERT INTO sessions (user_id, expires_at)
    VALUES ($1, $2)
    RETURNING id, user_id, expires_at, created_at
)
SELECT s.id::text, s.user_id::text, u.email, u.name, u.role, s.expires_at, s.created_at
FROM s JOIN users u ON u.id = s.user_id
`
	return scanSession(r.pool.QueryRow(ctx, q, in.UserID, in.ExpiresAt))
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT s.id::text, s.user_id::text, u.email, u.name, u.role, s.expires_at, s.created_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.id = $1
LIMIT 1
`
	return scanSession(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Email, &s.Name, &s.Role, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
