package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fitbook/internal/config"
	interfaces "fitbook/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a cache service against a single Redis instance
func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{
		client: rdb,
	}
}

// NewRedisCacheWithConfig creates a cache service from the cache config,
// using a Sentinel failover client when sentinel is enabled
func NewRedisCacheWithConfig(cfg *config.CacheConfig) *RedisCache {
	var rdb redis.UniversalClient

	if cfg.Sentinel.Enabled {
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Sentinel.MasterName,
			SentinelAddrs:    cfg.Sentinel.SentinelAddrs,
			SentinelPassword: cfg.Sentinel.SentinelPassword,
			Password:         cfg.Password,
			DB:               cfg.DB,
			MaxRetries:       cfg.MaxRetries,
			PoolSize:         cfg.PoolSize,
			PoolTimeout:      time.Duration(cfg.PoolTimeout) * time.Second,
			IdleTimeout:      time.Duration(cfg.IdleTimeout) * time.Second,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password:    cfg.Password,
			DB:          cfg.DB,
			MaxRetries:  cfg.MaxRetries,
			PoolSize:    cfg.PoolSize,
			PoolTimeout: time.Duration(cfg.PoolTimeout) * time.Second,
			IdleTimeout: time.Duration(cfg.IdleTimeout) * time.Second,
		})
	}

	return &RedisCache{
		client: rdb,
	}
}

// Client exposes the underlying Redis client for components that share the
// connection, like the idempotency repository.
func (r *RedisCache) Client() redis.UniversalClient {
	return r.client
}

func (r *RedisCache) GetAvailableSeats(ctx context.Context, classID uuid.UUID) (int, error) {
	key := fmt.Sprintf("class:seats:%s", classID.String())

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return -1, fmt.Errorf("class seats not cached")
		}
		return -1, fmt.Errorf("failed to get seats from cache: %w", err)
	}

	seats, err := strconv.Atoi(val)
	if err != nil {
		return -1, fmt.Errorf("invalid seats value in cache: %w", err)
	}

	return seats, nil
}

func (r *RedisCache) SetAvailableSeats(ctx context.Context, classID uuid.UUID, seats int, ttl time.Duration) error {
	key := fmt.Sprintf("class:seats:%s", classID.String())

	err := r.client.Set(ctx, key, seats, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set seats in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) GetClassDetails(ctx context.Context, classID uuid.UUID) (interface{}, error) {
	key := fmt.Sprintf("class:details:%s", classID.String())

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("class details not cached")
		}
		return nil, fmt.Errorf("failed to get class details from cache: %w", err)
	}

	var details interface{}
	if err := json.Unmarshal([]byte(val), &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal class details: %w", err)
	}

	return details, nil
}

func (r *RedisCache) SetClassDetails(ctx context.Context, classID uuid.UUID, data interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("class:details:%s", classID.String())

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal class details: %w", err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set class details in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) GetUserBookings(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	key := fmt.Sprintf("member:bookings:%s", userID.String())

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("user bookings not cached")
		}
		return nil, fmt.Errorf("failed to get user bookings from cache: %w", err)
	}

	var bookings interface{}
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user bookings: %w", err)
	}

	return bookings, nil
}

func (r *RedisCache) SetUserBookings(ctx context.Context, userID uuid.UUID, data interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("member:bookings:%s", userID.String())

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal user bookings: %w", err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set user bookings in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) InvalidateUserBookings(ctx context.Context, userID uuid.UUID) error {
	key := fmt.Sprintf("member:bookings:%s", userID.String())
	return r.Delete(ctx, key)
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("key not found: %s", key)
		}
		return "", fmt.Errorf("failed to get key from cache: %w", err)
	}
	return val, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set key in cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete key from cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Clear(ctx context.Context, pattern string) error {
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to list keys for pattern %s: %w", pattern, err)
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
	}

	return nil
}

func (r *RedisCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

var _ interfaces.CacheService = (*RedisCache)(nil)
