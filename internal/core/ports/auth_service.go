package ports

import (
	"context"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// RegisterInput carries the data an administrator supplies for a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Roles     []string
}

// AuthService signs users in and out and restores sessions from tokens.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
	SignOut(ctx context.Context, token string) error
	SessionRestorer
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}

// SessionRestorer turns a stored token back into a user. Any error means the
// visitor must be treated as unauthenticated.
type SessionRestorer interface {
	Restore(ctx context.Context, token string) (*domain.User, error)
}
