// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/saasify-contacts/internal/config"
)

const defaultRedisPingTimeout = 2 * time.Second

// Redis backs the distributed rate limiter and the readiness check.
type Redis struct {
	Client      *redis.Client
	pingTimeout time.Duration
}

// RedisOptions turns the connection URL and the tuning knobs into client
// options. Values set in the config override those carried by the URL.
func RedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.ClientName != "" {
		opts.ClientName = cfg.ClientName
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.PoolTimeout > 0 {
		opts.PoolTimeout = cfg.PoolTimeout
	}

	opts.ConnMaxIdleTime = 5 * time.Minute

	return opts, nil
}

// NewRedis connects and verifies the server answers. The client is closed
// again when the first ping fails.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	r := &Redis{
		Client:      redis.NewClient(opts),
		pingTimeout: cfg.PingTimeout,
	}
	if r.pingTimeout <= 0 {
		r.pingTimeout = defaultRedisPingTimeout
	}

	if err := r.Ping(ctx); err != nil {
		return nil, errors.Join(err, r.Close())
	}

	return r, nil
}

// Close is safe to call more than once.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}

	err := r.Client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

// Ping bounds the round trip by the configured ping timeout, or by ctx if
// that expires first.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis ping: no client")
	}

	timeout := r.pingTimeout
	if timeout <= 0 {
		timeout = defaultRedisPingTimeout
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	return nil
}
