package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/pkg/metrics"
)

// Gatekeeper evaluates guard chains once the session is determined.
type Gatekeeper struct {
	log zerolog.Logger
}

// NewGatekeeper returns a Gatekeeper logging through log.
func NewGatekeeper(log zerolog.Logger) *Gatekeeper {
	return &Gatekeeper{log: log}
}

// Evaluate waits for session to be determined and runs guards in order; the
// first denial wins. When ctx ends before the session is known the check is
// discarded: no decision is produced and the error wraps
// domain.ErrNavigationCancelled.
func (g *Gatekeeper) Evaluate(ctx context.Context, session ports.SessionReader, target string, guards ...Guard) (domain.Decision, error) {
	start := time.Now()
	snap, err := session.Await(ctx)
	metrics.SessionWaitDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		// The caller may have moved on while we were being woken up.
		err = ctx.Err()
	}
	if err != nil {
		metrics.NavigationsCancelledTotal.Inc()
		g.log.Debug().Str("url", target).Err(err).Msg("guard check discarded")
		return domain.Decision{}, fmt.Errorf("%w: %w", domain.ErrNavigationCancelled, err)
	}

	d := Decide(snap, target, guards...)
	if d.Allowed {
		g.log.Debug().Str("url", target).Uint64("session_version", snap.Version).Msg("navigation allowed")
	} else {
		g.log.Debug().
			Str("url", target).
			Str("guard", d.Guard).
			Str("redirect", d.Redirect).
			Uint64("session_version", snap.Version).
			Msg("navigation redirected")
	}
	return d, nil
}

// Decide runs guards against a fixed snapshot. It never blocks.
func Decide(s domain.Session, target string, guards ...Guard) domain.Decision {
	for _, guard := range guards {
		d := guard.Check(s, target)
		if d.Allowed {
			metrics.GuardDecisionsTotal.WithLabelValues(guard.Name(), "allow").Inc()
			continue
		}
		metrics.GuardDecisionsTotal.WithLabelValues(guard.Name(), "redirect").Inc()
		metrics.RedirectsTotal.WithLabelValues(domain.StripQuery(d.Redirect)).Inc()
		d.Guard = guard.Name()
		return d
	}
	return domain.Allow()
}
