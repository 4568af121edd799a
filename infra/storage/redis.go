package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/multicalc/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// Redis implements storage.KV on a Redis server. Keys never expire.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis connects to the server described by url (redis://host:port/db).
func NewRedis(url, prefix string, logger *slog.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %w", storage.ErrStorage, err)
	}
	return NewRedisWithOptions(opt, prefix, logger), nil
}

// NewRedisWithOptions creates a store from redis.Options.
func NewRedisWithOptions(opt *redis.Options, prefix string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		client: redis.NewClient(opt),
		prefix: prefix,
		logger: logger.With("store", "redis"),
	}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrStorage, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("Redis get error", "key", key, "error", err)
		return nil, false, fmt.Errorf("%w: %w", storage.ErrStorage, err)
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		r.logger.Error("Redis set error", "key", key, "error", err)
		return fmt.Errorf("%w: %w", storage.ErrStorage, err)
	}
	r.logger.Debug("Redis set", "key", key, "bytes", len(value))
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis delete error", "key", key, "error", err)
		return fmt.Errorf("%w: %w", storage.ErrStorage, err)
	}
	return nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

var _ storage.KV = (*Redis)(nil)
