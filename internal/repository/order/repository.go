package order

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// OutboxEvent is an order event waiting to be handed off.
type OutboxEvent struct {
	ID        int64
	OrderID   string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type Repository interface {
	// Create stores the order, queues its submitted event and empties the
	// session cart in a single transaction.
	Create(ctx context.Context, o *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	PendingEvents(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}
