// Package redis keeps each mention log in a Redis list keyed by its target.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"webmention/pkg/domain"
	"webmention/pkg/storage"
)

// Options defines the Redis connection and key layout.
type Options struct {
	// URL is a redis:// connection URL.
	URL string
	// KeyPrefix namespaces the keys of this deployment.
	KeyPrefix    string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Redis implements storage.Storage. Each log is a list of JSON encoded
// mentions; appends are single RPUSH commands and therefore atomic.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

var (
	_ storage.Storage       = (*Redis)(nil)
	_ storage.HealthChecker = (*Redis)(nil)
)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, options Options) (*Redis, error) {
	opts, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("could not parse redis URL: %w", err)
	}
	if options.PoolSize > 0 {
		opts.PoolSize = options.PoolSize
	}
	if options.MinIdleConns > 0 {
		opts.MinIdleConns = options.MinIdleConns
	}
	if options.DialTimeout > 0 {
		opts.DialTimeout = options.DialTimeout
	}
	if options.ReadTimeout > 0 {
		opts.ReadTimeout = options.ReadTimeout
	}
	if options.WriteTimeout > 0 {
		opts.WriteTimeout = options.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(client, options.KeyPrefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, keyPrefix string) *Redis {
	return &Redis{client: client, keyPrefix: keyPrefix}
}

func (r *Redis) AppendMention(ctx context.Context, m domain.Mention) error {
	if err := storage.Validate(m); err != nil {
		return err
	}

	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("could not marshal mention: %w", err)
	}

	if err := r.client.RPush(ctx, storage.Key(r.keyPrefix, m.Target), b).Err(); err != nil {
		return fmt.Errorf("could not append mention to redis: %w", err)
	}

	return nil
}

func (r *Redis) MentionsByTarget(ctx context.Context, target string) ([]domain.Mention, error) {
	items, err := r.client.LRange(ctx, storage.Key(r.keyPrefix, target), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("could not get mentions from redis: %w", err)
	}

	out := make([]domain.Mention, 0, len(items))
	for _, item := range items {
		var m domain.Mention
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("could not unmarshal mention: %w", err)
		}
		out = append(out, m)
	}

	return out, nil
}

// Health checks if the Redis connection is healthy.
func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err() //nolint: wrapcheck
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close() //nolint: wrapcheck
}
