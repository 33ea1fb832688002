// Package navigation is an in-memory router driving the access layer: it
// matches URLs against a route table, runs guards, follows redirects and
// keeps a browser-like history.
package navigation

import (
	"sort"
	"strings"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/core/service"
)

// Route declares how one path (or path subtree) is protected.
type Route struct {
	Path string
	// Prefix makes the route match Path and everything below it.
	Prefix bool
	Guards []service.Guard
	// RedirectTo sends navigation elsewhere once guards pass.
	RedirectTo string
	Resolvers  []ports.Resolver
	Activate   ports.Activator
}

// Table matches URLs to routes. Exact routes win over prefixes; among
// prefixes the longest wins.
type Table struct {
	exact    map[string]Route
	prefixes []Route
}

// NewTable builds a table from routes. Later duplicates replace earlier ones.
func NewTable(routes ...Route) *Table {
	t := &Table{exact: make(map[string]Route)}
	for _, r := range routes {
		r.Path = domain.CleanPath(r.Path)
		if r.Prefix {
			t.prefixes = append(t.prefixes, r)
		} else {
			t.exact[r.Path] = r
		}
	}
	sort.SliceStable(t.prefixes, func(i, j int) bool {
		return len(t.prefixes[i].Path) > len(t.prefixes[j].Path)
	})
	return t
}

// Match returns the route for url, ignoring its query string and fragment.
func (t *Table) Match(url string) (Route, bool) {
	p := domain.CleanPath(url)
	if r, ok := t.exact[p]; ok {
		return r, true
	}
	for _, r := range t.prefixes {
		if p == r.Path || strings.HasPrefix(p, r.Path+"/") {
			return r, true
		}
	}
	return Route{}, false
}

// DefaultTable is the portal's route table.
func DefaultTable(rr *service.RoleRedirector) *Table {
	auth := service.AuthGuard{}
	guest := []service.Guard{service.NoAuthGuard{}}
	admin := []service.Guard{auth, service.AdminGuard{}}
	client := []service.Guard{auth, service.ClientGuard{}}

	return NewTable(
		Route{Path: domain.PathRoot, Guards: []service.Guard{auth, service.RoleRedirectGuard{}}},
		Route{Path: domain.PathSignedInRedirect, Guards: []service.Guard{auth}, Activate: rr},

		Route{Path: domain.PathSignIn, Guards: guest},
		Route{Path: domain.PathSignUp, Guards: guest},
		Route{Path: domain.PathForgotPassword, Guards: guest},
		Route{Path: domain.PathResetPassword, Guards: guest},
		Route{Path: domain.PathSetPassword, Guards: guest},
		Route{Path: domain.PathSignOut, Guards: []service.Guard{auth}},

		Route{Path: domain.PathAdmin, Guards: admin, RedirectTo: domain.PathAdminDashboard},
		Route{Path: domain.PathAdmin, Prefix: true, Guards: admin},
		Route{Path: domain.PathClient, Prefix: true, Guards: client},

		// The client guard sends non-clients here; it is the admin listing.
		Route{Path: domain.PathClients, Guards: admin, RedirectTo: domain.PathAdminClients},
	)
}
