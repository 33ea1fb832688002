package domain

// Session is an immutable snapshot of who is signed in. A nil User means the
// visitor is unauthenticated. Version increases with every publication.
type Session struct {
	User    *User
	Version uint64
}

// Authenticated reports whether the snapshot carries a user.
func (s Session) Authenticated() bool { return s.User != nil }

// HasRole reports whether the signed-in user holds role.
func HasRole(s Session, role Role) bool {
	return s.User != nil && s.User.Roles.Has(role)
}

// IsAdmin reports whether the signed-in user is an administrator.
func IsAdmin(s Session) bool { return HasRole(s, RoleAdmin) }

// IsClient reports whether the signed-in user is a bank client.
func IsClient(s Session) bool { return HasRole(s, RoleClient) }

// DefaultRoute returns the landing page for the snapshot. Checks run in
// order and the first match wins; ADMIN takes precedence over CLIENT, and an
// authenticated user without a recognised role lands on the client dashboard.
func DefaultRoute(s Session) string {
	switch {
	case !s.Authenticated():
		return PathSignIn
	case IsAdmin(s):
		return PathAdminClients
	case IsClient(s):
		return PathClientDashboard
	default:
		return PathClientDashboard
	}
}
