package cart

import (
	"context"

	"storefront/internal/domain"
)

// Mutation transforms a loaded cart in place.
type Mutation func(c *domain.Cart) error

// Repository persists session-scoped carts.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	// Update loads the cart, applies fn and saves the result atomically.
	// Concurrent updates for the same session are serialized.
	Update(ctx context.Context, sessionID string, fn Mutation) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}
