package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "fitbook/internal/domain/booking"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

var ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")

var _ interfaces.IdempotencyRepository = (*RedisIdempotencyRepository)(nil)

// RedisIdempotencyRepository stores processed booking-request outcomes in
// Redis. Expiry is handled by Redis TTLs, so DeleteExpired has nothing to do.
type RedisIdempotencyRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisIdempotencyRepository(client redis.UniversalClient, ttl time.Duration) *RedisIdempotencyRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyRepository{
		client: client,
		prefix: "idempotency_key:",
		ttl:    ttl,
	}
}

func (r *RedisIdempotencyRepository) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency key: %w", err)
	}

	err = r.client.Set(ctx, r.getRedisKey(key.Key), string(data), r.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store idempotency key in Redis: %w", err)
	}

	return nil
}

func (r *RedisIdempotencyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	val, err := r.client.Get(ctx, r.getRedisKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrIdempotencyKeyNotFound
		}
		return nil, fmt.Errorf("failed to get idempotency key from Redis: %w", err)
	}

	var idempotencyKey domain.IdempotencyKey
	err = json.Unmarshal([]byte(val), &idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency key: %w", err)
	}

	return &idempotencyKey, nil
}

func (r *RedisIdempotencyRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.getRedisKey(key)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete idempotency key from Redis: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op; Redis evicts keys when their TTL lapses.
func (r *RedisIdempotencyRepository) DeleteExpired(ctx context.Context) error {
	return nil
}

func (r *RedisIdempotencyRepository) getRedisKey(key string) string {
	return r.prefix + key
}
