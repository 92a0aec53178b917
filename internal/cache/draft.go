// Package cache keeps transient per-session state in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

var ErrDraftMissing = errors.New("checkout draft not found")

// DraftStore holds checkout drafts keyed by session id.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error)
	Set(ctx context.Context, draft *domain.CheckoutDraft) error
	Delete(ctx context.Context, sessionID string) error
}

type RedisDrafts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDrafts(client *redis.Client, ttl time.Duration) *RedisDrafts {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisDrafts{client: client, ttl: ttl}
}

func (r *RedisDrafts) Get(ctx context.Context, sessionID string) (*domain.CheckoutDraft, error) {
	data, err := r.client.Get(ctx, draftKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftMissing
	}
	if err != nil {
		return nil, fmt.Errorf("redis get draft: %w", err)
	}

	var draft domain.CheckoutDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &draft, nil
}

// Set stores the draft and restarts its expiry.
func (r *RedisDrafts) Set(ctx context.Context, draft *domain.CheckoutDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(draft.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

func (r *RedisDrafts) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete draft: %w", err)
	}
	return nil
}

func draftKey(sessionID string) string {
	return "checkout:draft:" + sessionID
}
