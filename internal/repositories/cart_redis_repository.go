package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderuz/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCartRepository stores each cart as a JSON document under cart:<session>.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository creates a cart repository backed by client.
// Carts expire ttl after their last mutation.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

// Key returns the Redis key of a session's cart.
func (r *RedisCartRepository) Key(session string) string {
	return "cart:" + session
}

// Get loads the session's cart.
func (r *RedisCartRepository) Get(ctx context.Context, session string) ([]models.CartLine, error) {
	raw, err := r.client.Get(ctx, r.Key(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", session, err)
	}

	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", session, err)
	}
	return lines, nil
}

// Save writes the session's cart and refreshes its TTL.
func (r *RedisCartRepository) Save(ctx context.Context, session string, lines []models.CartLine) error {
	if len(lines) == 0 {
		return r.Delete(ctx, session)
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", session, err)
	}
	if err := r.client.Set(ctx, r.Key(session), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", session, err)
	}
	return nil
}

// Delete removes the session's cart.
func (r *RedisCartRepository) Delete(ctx context.Context, session string) error {
	if err := r.client.Del(ctx, r.Key(session)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", session, err)
	}
	return nil
}
