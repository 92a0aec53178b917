// Package publisher hands submitted orders to the fulfilment side.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"storefront/internal/logging"
	"storefront/internal/repository/order"
)

// Publisher delivers one outbox event. A nil error means the event was
// accepted and may be marked published.
type Publisher interface {
	Publish(ctx context.Context, event order.OutboxEvent) error
	Close() error
}

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("order publisher unavailable")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger *zap.Logger) *KafkaPublisher {
	logger = logging.OrNop(logger)
	settings := gobreaker.Settings{
		Name:        "order-publisher",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &KafkaPublisher{
		writer:  w,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event order.OutboxEvent) error {
	msg := kafka.Message{
		// keyed by order so all events of one order land on one partition
		Key:   []byte(event.OrderID),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.writer.WriteMessages(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	if err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher acknowledges every event after logging it. It stands in for
// the fulfilment collaborator when no brokers are configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	logger = logging.OrNop(logger)
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event order.OutboxEvent) error {
	p.logger.Info("order submitted",
		zap.Int64("event_id", event.ID),
		zap.String("order_id", event.OrderID),
		zap.String("event_type", event.EventType),
		zap.ByteString("payload", event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
