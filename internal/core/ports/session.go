package ports

import (
	"context"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	Snapshot() domain.Session
	// Await blocks until the session is determined.
	Await(ctx context.Context) (domain.Session, error)
	// Subscribe streams determined snapshots, replaying the current one.
	// The returned func ends the subscription.
	Subscribe() (<-chan domain.Session, func())
}
