package alarms

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisRecords keeps records as plain Redis string keys.
type RedisRecords struct {
	// client is the Redis connection pool.
	client *redis.Client
}

// NewRedisRecords wraps a Redis client.
func NewRedisRecords(client *redis.Client) *RedisRecords {
	return &RedisRecords{client: client}
}

// Load reads one record.
func (r *RedisRecords) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errNoRecord
	}

	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	return value, nil
}

// Save stores one record without expiration.
func (r *RedisRecords) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Close closes the client.
func (r *RedisRecords) Close() error {
	return r.client.Close()
}
