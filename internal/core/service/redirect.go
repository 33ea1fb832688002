package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/pkg/metrics"
)

// RoleRedirector sends the user from an entry placeholder to the landing
// page of their role. It can be mounted as a resolver (before the
// placeholder commits) or as an activator (after it commits, replacing it).
type RoleRedirector struct {
	log zerolog.Logger
}

// NewRoleRedirector returns a RoleRedirector logging through log.
func NewRoleRedirector(log zerolog.Logger) *RoleRedirector {
	return &RoleRedirector{log: log}
}

// Target returns the landing page for the first determined session on the
// stream. A resolved anonymous session yields the sign-in page immediately.
func (r *RoleRedirector) Target(ctx context.Context, session ports.SessionReader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNavigationCancelled, err)
	}

	updates, unsubscribe := session.Subscribe()
	defer unsubscribe()

	select {
	case snap := <-updates:
		// The navigation may have been superseded while we were woken up.
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrNavigationCancelled, err)
		}
		return domain.DefaultRoute(snap), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", domain.ErrNavigationCancelled, ctx.Err())
	}
}

// Resolve navigates to the landing page and lets the resolved route proceed.
func (r *RoleRedirector) Resolve(ctx context.Context, nav ports.Navigator, session ports.SessionReader) (bool, error) {
	if err := r.redirect(ctx, nav, session); err != nil {
		return false, err
	}
	return true, nil
}

// Activate replaces the committed placeholder with the landing page.
func (r *RoleRedirector) Activate(ctx context.Context, nav ports.Navigator, session ports.SessionReader) error {
	return r.redirect(ctx, nav, session)
}

func (r *RoleRedirector) redirect(ctx context.Context, nav ports.Navigator, session ports.SessionReader) error {
	target, err := r.Target(ctx, session)
	if err != nil {
		return err
	}

	metrics.RedirectsTotal.WithLabelValues(target).Inc()
	r.log.Debug().Str("redirect", target).Msg("role redirect")

	if err := nav.Navigate(ctx, target, ports.NavigateOptions{Replace: true}); err != nil {
		return fmt.Errorf("role redirect to %s: %w", target, err)
	}
	return nil
}
