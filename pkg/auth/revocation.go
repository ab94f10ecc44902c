package auth

import (
	"context"
	"sync"
	"time"

	"go-recruitment-crm/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

const (
	revokedJTIPrefix = "revoked:jti:"
	userTokensPrefix = "refresh:user:"
)

// RevocationStore remembers revoked refresh-token ids until they would have
// expired anyway. Redis is used when available, a local map otherwise.
type RevocationStore struct {
	client func() *goredis.Client
	now    func() time.Time

	mu     sync.Mutex
	mem    map[string]time.Time
	issued map[string]map[string]time.Time // user id -> jti -> expiry
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{
		client: redis.Client,
		now:    time.Now,
		mem:    make(map[string]time.Time),
		issued: make(map[string]map[string]time.Time),
	}
}

// Revoke marks jti as revoked. It returns false when the jti was already
// revoked, which callers treat as refresh-token reuse.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if c := s.client(); c != nil {
		return c.SetNX(ctx, revokedJTIPrefix+jti, "1", ttl).Result()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gcLocked()
	if _, ok := s.mem[jti]; ok {
		return false, nil
	}
	s.mem[jti] = s.now().Add(ttl)
	return true, nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if c := s.client(); c != nil {
		n, err := c.Exists(ctx, revokedJTIPrefix+jti).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.mem[jti]
	return ok && s.now().Before(until), nil
}

// Track records a refresh jti issued to userID so RevokeAll can find it.
func (s *RevocationStore) Track(ctx context.Context, userID, jti string, ttl time.Duration) error {
	if c := s.client(); c != nil {
		key := userTokensPrefix + userID
		pipe := c.TxPipeline()
		pipe.SAdd(ctx, key, jti)
		pipe.Expire(ctx, key, ttl)
		_, err := pipe.Exec(ctx)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gcLocked()
	if s.issued[userID] == nil {
		s.issued[userID] = make(map[string]time.Time)
	}
	s.issued[userID][jti] = s.now().Add(ttl)
	return nil
}

// RevokeAll revokes every tracked refresh jti of userID and returns how many
// were revoked. maxTTL bounds the revocation when Redis reports no expiry.
func (s *RevocationStore) RevokeAll(ctx context.Context, userID string, maxTTL time.Duration) (int, error) {
	if c := s.client(); c != nil {
		key := userTokensPrefix + userID
		jtis, err := c.SMembers(ctx, key).Result()
		if err != nil {
			return 0, err
		}
		ttl, err := c.PTTL(ctx, key).Result()
		if err != nil {
			return 0, err
		}
		if ttl <= 0 {
			ttl = maxTTL
		}
		pipe := c.TxPipeline()
		for _, jti := range jtis {
			pipe.SetNX(ctx, revokedJTIPrefix+jti, "1", ttl)
		}
		pipe.Del(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, err
		}
		return len(jtis), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gcLocked()
	n := 0
	for jti, until := range s.issued[userID] {
		if _, ok := s.mem[jti]; !ok {
			s.mem[jti] = until
			n++
		}
	}
	delete(s.issued, userID)
	return n, nil
}

func (s *RevocationStore) gcLocked() {
	now := s.now()
	for k, until := range s.mem {
		if !now.Before(until) {
			delete(s.mem, k)
		}
	}
	for user, jtis := range s.issued {
		for jti, until := range jtis {
			if !now.Before(until) {
				delete(jtis, jti)
			}
		}
		if len(jtis) == 0 {
			delete(s.issued, user)
		}
	}
}
