package ports

import (
	"context"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// AuthRepository defines the persistence of portal accounts.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
