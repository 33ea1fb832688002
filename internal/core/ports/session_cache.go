package ports

import (
	"context"
	"time"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// SessionCache keeps revoked token ids and recently restored users.
// Implementations: Redis (prod), stubs (tests).
type SessionCache interface {
	// Revoke marks a token id as unusable for ttl.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// GetUser returns (nil, nil) on a cache miss.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	PutUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}
