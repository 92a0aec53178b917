package publisher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storefront/internal/logging"
	"storefront/internal/repository/order"
)

type eventSource interface {
	PendingEvents(ctx context.Context, limit int) ([]order.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}

// OutboxPoller periodically forwards unpublished order events.
type OutboxPoller struct {
	source    eventSource
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *zap.Logger
}

func NewOutboxPoller(source eventSource, pub Publisher, interval time.Duration, logger *zap.Logger) *OutboxPoller {
	logger = logging.OrNop(logger)
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxPoller{
		source:    source,
		publisher: pub,
		interval:  interval,
		batchSize: 100,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled.
func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.publishPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// publishPending returns the number of events marked published.
func (p *OutboxPoller) publishPending(ctx context.Context) int {
	events, err := p.source.PendingEvents(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch outbox events", zap.Error(err))
		return 0
	}

	published := 0
	for _, event := range events {
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logger.Warn("publish order event",
				zap.Int64("event_id", event.ID),
				zap.String("order_id", event.OrderID),
				zap.Error(err),
			)
			// keep ordering: later events wait for this one
			return published
		}
		if err := p.source.MarkPublished(ctx, event.ID); err != nil {
			p.logger.Error("mark outbox event published", zap.Int64("event_id", event.ID), zap.Error(err))
			return published
		}
		published++
	}
	return published
}
