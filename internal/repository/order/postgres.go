package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/pricing"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	logger = logging.OrNop(logger)
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) error {
	orderPayload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	eventPayload, err := json.Marshal(o.Event())
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if o.SessionID != "" {
		if err := lockMatchingCart(ctx, tx, o); err != nil {
			return err
		}
	}

	const insertOrder = `
INSERT INTO orders (id, user_id, status, subtotal_cents, shipping_cents, tax_cents, tip_cents, total_cents, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	if _, err := tx.Exec(ctx, insertOrder,
		o.ID,
		o.UserID,
		o.Status,
		pricing.ToCents(o.Subtotal),
		pricing.ToCents(o.Shipping),
		pricing.ToCents(o.Tax),
		pricing.ToCents(o.Tip),
		pricing.ToCents(o.Total),
		orderPayload,
		o.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO order_outbox (order_id, event_type, payload)
VALUES ($1, $2, $3)
`, o.ID, domain.EventOrderSubmitted, eventPayload); err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	if o.SessionID != "" {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE session_id = $1`, o.SessionID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Info("order stored", zap.String("order_id", o.ID), zap.String("total", pricing.Display(o.Total)))
	return nil
}

// lockMatchingCart takes the same session row lock as cart mutations and
// checks that the stored lines are exactly the ones being ordered.
func lockMatchingCart(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	var locked string
	err := tx.QueryRow(ctx, `SELECT id::text FROM sessions WHERE id = $1 FOR UPDATE`, o.SessionID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock session: %w", err)
	}

	rows, err := tx.Query(ctx, `
SELECT product_id, unit_price_cents, quantity
FROM cart_lines
WHERE session_id = $1
ORDER BY position ASC
`, o.SessionID)
	if err != nil {
		return fmt.Errorf("read cart: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var (
			productID string
			price     int64
			qty       int
		)
		if err := rows.Scan(&productID, &price, &qty); err != nil {
			return fmt.Errorf("scan cart line: %w", err)
		}
		if i >= len(o.Lines) {
			return domain.ErrCartChanged
		}
		want := o.Lines[i]
		if want.ProductID != productID || want.UnitPriceCents != price || want.Quantity != qty {
			return domain.ErrCartChanged
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read cart: %w", err)
	}
	if i != len(o.Lines) {
		return domain.ErrCartChanged
	}
	return nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT payload
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var o domain.Order
		if err := json.Unmarshal(payload, &o); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) PendingEvents(ctx context.Context, limit int) ([]OutboxEvent, error) {
	const q = `
SELECT id, order_id::text, event_type, payload, created_at
FROM order_outbox
WHERE published_at IS NULL
ORDER BY id ASC
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *postgresRepo) MarkPublished(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE order_outbox SET published_at = now() WHERE id = $1 AND published_at IS NULL`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
