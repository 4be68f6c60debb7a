package alarms

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/oshokin/pingo/internal/config"
)

// Open builds a store for the configured backend.
func Open(ctx context.Context, cfg config.Store) (*Store, error) {
	var (
		records Records
		err     error
	)

	switch cfg.Backend {
	case config.BackendFile, "":
		records = NewFileRecords(cfg.Path)
	case config.BackendSQLite:
		records, err = OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()

			return nil, fmt.Errorf("ping redis: %w", err)
		}

		records = NewRedisRecords(client)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	key := cfg.Key
	if key == "" {
		key = config.DefaultStoreKey
	}

	return NewStore(records, key), nil
}
