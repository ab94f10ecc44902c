package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	client     *redis.Client
	clientOnce sync.Once
	clientErr  error
)

// ErrNotConfigured is returned by Initialize when REDIS_URL is empty.
var ErrNotConfigured = errors.New("redis: REDIS_URL not configured")

type Config struct {
	URL      string // redis:// or rediss:// (TLS)
	Password string // overrides the password embedded in URL
}

// Client returns the shared client, or nil when Redis is unavailable.
// Callers treat nil as "fall back to in-process state".
func Client() *redis.Client {
	return client
}

// Initialize connects the shared client once. Later calls return the first result.
func Initialize(cfg Config) error {
	clientOnce.Do(func() {
		if cfg.URL == "" {
			clientErr = ErrNotConfigured
			return
		}

		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			clientErr = fmt.Errorf("redis: invalid URL: %w", err)
			return
		}
		if cfg.Password != "" {
			opts.Password = cfg.Password
		}
		if opts.TLSConfig != nil {
			opts.TLSConfig.MinVersion = tls.VersionTLS12
		}
		opts.DialTimeout = 5 * time.Second
		opts.ReadTimeout = 3 * time.Second
		opts.WriteTimeout = 3 * time.Second
		opts.PoolSize = 10
		opts.MinIdleConns = 2

		c := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			clientErr = fmt.Errorf("redis: connection failed: %w", err)
			return
		}
		client = c
	})

	return clientErr
}

func IsAvailable() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// HealthCheck pings Redis. It reports an error when the client was never initialized.
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return errors.New("redis: client not initialized")
	}
	return client.Ping(ctx).Err()
}
