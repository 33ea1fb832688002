package ports

import (
	"time"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// TokenClaims is what the access layer reads back from a session token.
type TokenClaims struct {
	TokenID   string
	UserID    string
	Email     string
	Roles     []string
	ExpiresAt time.Time
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(user *domain.User) (string, *TokenClaims, error)
	// Parse verifies signature and expiry.
	Parse(token string) (*TokenClaims, error)
}
