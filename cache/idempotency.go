package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyPrefix  = "idem:checkout:"
	DefaultIdempotency = 24 * time.Hour
)

// IdempotencyStore remembers which order a checkout Idempotency-Key
// produced. A nil client disables it.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotency
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Enabled() bool {
	return s != nil && s.client != nil
}

func idemKey(userID, key string) string {
	return idempotencyPrefix + userID + ":" + key
}

// Get returns the stored order id, or "" when the key is unknown.
func (s *IdempotencyStore) Get(ctx context.Context, userID, key string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	val, err := s.client.Get(ctx, idemKey(userID, key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *IdempotencyStore) Set(ctx context.Context, userID, key, orderID string) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Set(ctx, idemKey(userID, key), orderID, s.ttl).Err()
}
