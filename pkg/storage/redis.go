package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/baezlibros/storefront/pkg/config"
	"github.com/baezlibros/storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisKV keeps snapshots in Redis under a namespace prefix. It satisfies
// the same read-once/rewrite contract as the sqlite store.
type RedisKV struct {
	raw       *redis.Client
	namespace string
}

// NewRedisKV bootstraps a Redis-backed snapshot store and verifies
// connectivity.
func NewRedisKV(ctx context.Context, cfg config.RedisConfig, namespace string, logg *logger.Logger) (*RedisKV, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if namespace == "" {
		namespace = "biblioteca"
	}
	if logg != nil {
		logg.Info(ctx, "redis snapshot store connected")
	}
	return &RedisKV{raw: raw, namespace: namespace}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}

	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	return opts, nil
}

func (r *RedisKV) key(key string) string {
	return fmt.Sprintf("%s:snapshot:%s", r.namespace, key)
}

// Read returns the stored value for key and whether it exists.
func (r *RedisKV) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.raw.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Write replaces the stored value for key. Snapshots never expire.
func (r *RedisKV) Write(ctx context.Context, key string, value []byte) error {
	return r.raw.Set(ctx, r.key(key), value, 0).Err()
}

// Delete removes the stored value for key, if any.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.raw.Del(ctx, r.key(key)).Err()
}

// Close releases the client connections.
func (r *RedisKV) Close() error {
	return r.raw.Close()
}
