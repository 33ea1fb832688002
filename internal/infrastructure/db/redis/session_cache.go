package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

const defaultUserTTL = 5 * time.Minute

// SessionCache keeps revoked token ids and recently restored accounts.
// Key format:
//
//	session:revoked:<jti>  "1", expires with the token
//	session:user:<id>      JSON user, expires after userTTL
type SessionCache struct {
	client  redis.Cmdable
	userTTL time.Duration
}

// NewSessionCache wraps the given Redis client.
func NewSessionCache(client redis.Cmdable, userTTL time.Duration) *SessionCache {
	if userTTL <= 0 {
		userTTL = defaultUserTTL
	}
	return &SessionCache{client: client, userTTL: userTTL}
}

func (c *SessionCache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (c *SessionCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (c *SessionCache) GetUser(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached user: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		// A stale or foreign entry is a miss.
		_ = c.client.Del(ctx, userKey(id)).Err()
		return nil, nil
	}
	return &u, nil
}

func (c *SessionCache) PutUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := c.client.Set(ctx, userKey(user.ID), raw, c.userTTL).Err(); err != nil {
		return fmt.Errorf("cache user: %w", err)
	}
	return nil
}

func (c *SessionCache) DeleteUser(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, userKey(id)).Err(); err != nil {
		return fmt.Errorf("evict user: %w", err)
	}
	return nil
}

func revokedKey(tokenID string) string { return "session:revoked:" + tokenID }

func userKey(id string) string { return "session:user:" + id }
