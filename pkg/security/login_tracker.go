package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-recruitment-crm/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // counter lifetime
	BlockDuration time.Duration
	UseIPTracking bool
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = ttl seconds. Returns the count after increment.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

type memCounter struct {
	count     int
	expiresAt time.Time
}

// LoginTracker counts failed logins per email and IP and blocks both once
// the threshold is reached. Redis holds the state when available; otherwise
// an in-process map is used so a single instance still enforces lockout.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger
	client func() *goredis.Client
	now    func() time.Time

	mu       sync.Mutex
	counters map[string]*memCounter
	blocks   map[string]time.Time
}

func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	return &LoginTracker{
		config:   config,
		logger:   DefaultLogger(),
		client:   redis.Client,
		now:      time.Now,
		counters: make(map[string]*memCounter),
		blocks:   make(map[string]time.Time),
	}
}

// WithLogger overrides the security logger, mostly for tests.
func (lt *LoginTracker) WithLogger(l *SecurityLogger) *LoginTracker {
	lt.logger = l
	return lt
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	email = normalizeEmail(email)
	keys := []string{blockedLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	client := lt.client()
	if client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		for _, k := range keys {
			if until, ok := lt.blocks[k]; ok {
				if lt.now().Before(until) {
					return true, nil
				}
				delete(lt.blocks, k)
			}
		}
		return false, nil
	}

	n, err := client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailedAttempt returns whether the subject is now blocked and the
// attempt count for the email.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	email = normalizeEmail(email)
	userKey := failLoginUserPrefix + email

	var (
		count int
		err   error
	)
	client := lt.client()
	if client == nil {
		count = lt.memIncrement(userKey)
		if lt.config.UseIPTracking && ip != "" {
			lt.memIncrement(failLoginIPPrefix + ip)
		}
	} else {
		ttl := int(lt.config.AttemptWindow.Seconds())
		count, err = atomicIncrement(ctx, client, userKey, ttl)
		if err != nil {
			return false, 0, fmt.Errorf("failed to increment login counter: %w", err)
		}
		if lt.config.UseIPTracking && ip != "" {
			_, _ = atomicIncrement(ctx, client, failLoginIPPrefix+ip, ttl)
		}
	}

	lt.logger.LogLoginFailed(ctx, email, ip, userAgent, requestID, "invalid_credentials")

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}
	if err := lt.createBlock(ctx, client, email, ip, requestID); err != nil {
		return true, count, fmt.Errorf("failed to create block: %w", err)
	}
	return true, count, nil
}

func (lt *LoginTracker) memIncrement(key string) int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	now := lt.now()
	c, ok := lt.counters[key]
	if !ok || now.After(c.expiresAt) {
		c = &memCounter{expiresAt: now.Add(lt.config.AttemptWindow)}
		lt.counters[key] = c
	}
	c.count++
	return c.count
}

func atomicIncrement(ctx context.Context, client *goredis.Client, key string, ttlSeconds int) (int, error) {
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, client *goredis.Client, email, ip, requestID string) error {
	ttl := lt.config.BlockDuration
	userKey := blockedLoginUserPrefix + email

	if client == nil {
		lt.mu.Lock()
		until := lt.now().Add(ttl)
		lt.blocks[userKey] = until
		if lt.config.UseIPTracking && ip != "" {
			lt.blocks[blockedLoginIPPrefix+ip] = until
		}
		lt.mu.Unlock()
	} else {
		if err := client.Set(ctx, userKey, "1", ttl).Err(); err != nil {
			return err
		}
		if lt.config.UseIPTracking && ip != "" {
			if err := client.Set(ctx, blockedLoginIPPrefix+ip, "1", ttl).Err(); err != nil {
				lt.logger.zapLogger.Warn("failed to set IP block", zap.Error(err))
			}
		}
	}

	lt.logger.LogBlockCreated(ctx, "email", email, ip, requestID, int(ttl.Minutes()))
	return nil
}

// ClearAttempts resets counters after a successful login. Blocks are left to expire.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	email = normalizeEmail(email)
	keys := []string{failLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}

	client := lt.client()
	if client == nil {
		lt.mu.Lock()
		for _, k := range keys {
			delete(lt.counters, k)
		}
		lt.mu.Unlock()
		return nil
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

func (lt *LoginTracker) GetRemainingAttempts(ctx context.Context, email string) (int, error) {
	key := failLoginUserPrefix + normalizeEmail(email)

	var count int
	client := lt.client()
	if client == nil {
		lt.mu.Lock()
		if c, ok := lt.counters[key]; ok && lt.now().Before(c.expiresAt) {
			count = c.count
		}
		lt.mu.Unlock()
	} else {
		n, err := client.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return 0, fmt.Errorf("failed to get attempt count: %w", err)
		}
		count = n
	}

	remaining := lt.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// GetBlockTTL reports how long the email stays blocked.
func (lt *LoginTracker) GetBlockTTL(ctx context.Context, email string) (time.Duration, bool, error) {
	key := blockedLoginUserPrefix + normalizeEmail(email)

	client := lt.client()
	if client == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		until, ok := lt.blocks[key]
		if !ok {
			return 0, false, nil
		}
		left := until.Sub(lt.now())
		if left <= 0 {
			return 0, false, nil
		}
		return left, true, nil
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get block TTL: %w", err)
	}
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}
