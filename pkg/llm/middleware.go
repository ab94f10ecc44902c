package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"go-recruitment-crm/pkg/logger"

	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("go-recruitment-crm/pkg/llm")

type rateLimited struct {
	Provider
	limiter *rate.Limiter
}

// WithRateLimit makes every upstream attempt wait for a token from limiter.
func WithRateLimit(p Provider, limiter *rate.Limiter) Provider {
	return &rateLimited{Provider: p, limiter: limiter}
}

func (r *rateLimited) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llm: waiting for rate limiter: %w", err)
	}
	return r.Provider.Complete(ctx, req)
}

type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
}

type retrying struct {
	Provider
	cfg RetryConfig
}

// WithRetry retries rate-limited, 5xx and network failures with exponential
// backoff (BaseDelay, 2x, 4x ...). Other errors are returned immediately.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &retrying{Provider: p, cfg: cfg}
}

func (r *retrying) Complete(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	for i := 0; i < r.cfg.Attempts; i++ {
		if i > 0 {
			delay := time.Duration(1<<(i-1)) * r.cfg.BaseDelay
			logger.Log.Warn("retrying LLM call", "provider", r.Name(), "attempt", i+1, "delay", delay.String(), "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := r.Provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isTransient(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.Retryable()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Cache stores completions by key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type caching struct {
	Provider
	cache Cache
	ttl   time.Duration
}

// WithCache serves identical requests from cache. Cache failures are logged
// and the call falls through to the provider.
func WithCache(p Provider, cache Cache, ttl time.Duration) Provider {
	return &caching{Provider: p, cache: cache, ttl: ttl}
}

func (c *caching) Complete(ctx context.Context, req Request) (*Response, error) {
	key := CacheKey(c.Name(), c.Model(), req)

	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		logger.Log.Warn("llm cache read failed", "error", err)
	} else if ok {
		var resp Response
		if json.Unmarshal([]byte(raw), &resp) == nil {
			resp.Cached = true
			return &resp, nil
		}
	}

	resp, err := c.Provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(resp); err == nil {
		if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
			logger.Log.Warn("llm cache write failed", "error", err)
		}
	}
	return resp, nil
}

// CacheKey is the SHA-256 of everything that influences the completion.
func CacheKey(provider, model string, req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%g\x00%s\x00%s", provider, model, req.MaxTokens, req.Temperature, req.System, req.Prompt)
	return "ai:cache:" + hex.EncodeToString(h.Sum(nil))
}
