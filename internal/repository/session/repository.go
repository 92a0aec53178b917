package session

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// CreateInput describes a new session row.
type CreateInput struct {
	UserID    string
	ExpiresAt time.Time
}

// Repository stores sessions. Deleting a session removes the cart lines it owns.
type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
