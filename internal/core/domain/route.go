package domain

import "strings"

// Application paths the access layer knows about.
const (
	PathRoot             = "/"
	PathSignedInRedirect = "/signed-in-redirect"
	PathSignIn           = "/sign-in"
	PathSignUp           = "/sign-up"
	PathSignOut          = "/sign-out"
	PathForgotPassword   = "/forgot-password"
	PathResetPassword    = "/reset-password"
	PathSetPassword      = "/set-password"

	PathAdmin          = "/admin"
	PathAdminDashboard = "/admin/dashboard"
	PathAdminClients   = "/admin/clients"

	PathClient          = "/client"
	PathClientDashboard = "/client/dashboard"

	// PathClients is where the client guard sends non-clients.
	PathClients = "/clients"
)

// StripQuery returns url without its query string and fragment.
func StripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if url == "" {
		return PathRoot
	}
	return url
}

// CleanPath returns the path of url the way routes are matched: query and
// fragment dropped, a leading slash, no trailing slashes. "//" is the root.
func CleanPath(url string) string {
	p := StripQuery(url)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p = strings.TrimRight(p, "/"); p == "" {
		return PathRoot
	}
	return p
}

// IsRedirectPlaceholder reports whether url is one of the entry points that
// only exist to be redirected to the role's landing page.
func IsRedirectPlaceholder(url string) bool {
	p := CleanPath(url)
	return p == PathRoot || p == PathSignedInRedirect
}
