package service

import (
	"net/url"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// Guard decides whether a navigation may enter a route. Guards are pure:
// the decision depends only on the session snapshot and the requested URL.
type Guard interface {
	Name() string
	Check(s domain.Session, target string) domain.Decision
}

// AdminGuard lets administrators through and sends everyone else to the
// client area.
type AdminGuard struct{}

func (AdminGuard) Name() string { return "admin" }

func (AdminGuard) Check(s domain.Session, _ string) domain.Decision {
	if domain.IsAdmin(s) {
		return domain.Allow()
	}
	return domain.RedirectTo(domain.PathClient)
}

// ClientGuard lets bank clients through and sends everyone else to the
// client listing.
type ClientGuard struct{}

func (ClientGuard) Name() string { return "client" }

func (ClientGuard) Check(s domain.Session, _ string) domain.Decision {
	if domain.IsClient(s) {
		return domain.Allow()
	}
	return domain.RedirectTo(domain.PathClients)
}

// RoleRedirectGuard intercepts the redirect placeholders and sends the user
// to their role's landing page. Every other URL passes unchanged.
type RoleRedirectGuard struct{}

func (RoleRedirectGuard) Name() string { return "role_redirect" }

func (RoleRedirectGuard) Check(s domain.Session, target string) domain.Decision {
	if !domain.IsRedirectPlaceholder(target) {
		return domain.Allow()
	}
	return domain.RedirectTo(domain.DefaultRoute(s))
}

// AuthGuard requires a signed-in user. Anonymous visitors go to the sign-in
// page with the requested URL attached so they can come back after signing in.
type AuthGuard struct{}

func (AuthGuard) Name() string { return "auth" }

func (AuthGuard) Check(s domain.Session, target string) domain.Decision {
	if s.Authenticated() {
		return domain.Allow()
	}
	if domain.StripQuery(target) == domain.PathSignOut {
		return domain.RedirectTo(domain.PathSignIn)
	}
	return domain.RedirectTo(domain.PathSignIn + "?redirectURL=" + url.QueryEscape(target))
}

// NoAuthGuard keeps signed-in users out of the guest pages.
type NoAuthGuard struct{}

func (NoAuthGuard) Name() string { return "no_auth" }

func (NoAuthGuard) Check(s domain.Session, _ string) domain.Decision {
	if !s.Authenticated() {
		return domain.Allow()
	}
	return domain.RedirectTo(domain.PathRoot)
}
