package navigation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/core/service"
)

const maxRedirects = 10

// Router navigates between routes of a Table for a single session. Starting
// a navigation supersedes the pending one: its guard checks are cancelled
// and it never commits.
type Router struct {
	table   *Table
	session ports.SessionReader
	gate    *service.Gatekeeper
	log     zerolog.Logger

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	history []string
}

// NewRouter returns a Router with an empty history.
func NewRouter(table *Table, session ports.SessionReader, gate *service.Gatekeeper, log zerolog.Logger) *Router {
	return &Router{table: table, session: session, gate: gate, log: log}
}

// Navigate implements ports.Navigator.
//
// Returns domain.ErrRouteNotFound for unknown URLs, domain.ErrRedirectLoop
// when redirects do not settle, and an error wrapping
// domain.ErrNavigationCancelled when another navigation superseded this one
// before it committed.
//
// Redirect hops and navigations started by resolvers or activators belong to
// the same chain: they share its context and only run while their parent is
// still the latest navigation.
func (r *Router) Navigate(ctx context.Context, url string, opts ports.NavigateOptions) error {
	id, chainCtx, cancel := r.begin(ctx)
	defer cancel()
	return r.run(chainCtx, url, opts, id, 0)
}

func (r *Router) run(ctx context.Context, url string, opts ports.NavigateOptions, id uint64, hops int) error {
	if hops > maxRedirects {
		return fmt.Errorf("navigate %s: %w", url, domain.ErrRedirectLoop)
	}

	route, ok := r.table.Match(url)
	if !ok {
		return fmt.Errorf("navigate %s: %w", url, domain.ErrRouteNotFound)
	}

	d, err := r.gate.Evaluate(ctx, r.session, url, route.Guards...)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	if !d.Allowed {
		return r.hop(ctx, id, d.Redirect, opts, hops+1)
	}
	if route.RedirectTo != "" {
		return r.hop(ctx, id, route.RedirectTo, opts, hops+1)
	}
	if !r.isCurrent(id) {
		return fmt.Errorf("navigate %s: %w", url, domain.ErrNavigationCancelled)
	}

	nav := &hookNavigator{router: r, parent: id, hops: hops}
	for _, res := range route.Resolvers {
		proceed, err := res.Resolve(ctx, nav, r.session)
		if err != nil {
			return fmt.Errorf("navigate %s: resolve: %w", url, err)
		}
		if !proceed {
			return nil
		}
	}

	if !r.commit(id, url, opts.Replace) {
		// A resolver already took the user somewhere else.
		return nil
	}
	r.log.Debug().Str("url", url).Bool("replace", opts.Replace).Msg("navigation committed")

	if route.Activate != nil {
		if err := route.Activate.Activate(ctx, nav, r.session); err != nil {
			return fmt.Errorf("navigate %s: activate: %w", url, err)
		}
	}
	return nil
}

// hop continues the chain of parent at url.
func (r *Router) hop(ctx context.Context, parent uint64, url string, opts ports.NavigateOptions, hops int) error {
	id, ok := r.next(parent)
	if !ok {
		return fmt.Errorf("navigate %s: %w", url, domain.ErrNavigationCancelled)
	}
	return r.run(ctx, url, opts, id, hops)
}

// hookNavigator is the Navigator handed to resolvers and activators. Their
// navigations continue the chain of the route that ran them.
type hookNavigator struct {
	router *Router
	parent uint64
	hops   int
}

func (n *hookNavigator) Navigate(ctx context.Context, url string, opts ports.NavigateOptions) error {
	return n.router.hop(ctx, n.parent, url, opts, n.hops+1)
}

// begin starts a new chain and cancels the pending one.
func (r *Router) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	chainCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	return r.seq, chainCtx, cancel
}

// next supersedes parent with a new navigation of the same chain. It fails
// when parent is no longer the latest navigation.
func (r *Router) next(parent uint64) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq != parent {
		return 0, false
	}
	r.seq++
	return r.seq, true
}

func (r *Router) isCurrent(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq == id
}

func (r *Router) commit(id uint64, url string, replace bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq != id {
		return false
	}
	if replace && len(r.history) > 0 {
		r.history[len(r.history)-1] = url
	} else {
		r.history = append(r.history, url)
	}
	return true
}

// CurrentURL returns the committed URL, or "" before the first navigation.
func (r *Router) CurrentURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// CurrentPath returns CurrentURL without its query string.
func (r *Router) CurrentPath() string {
	u := r.CurrentURL()
	if u == "" {
		return ""
	}
	return domain.StripQuery(u)
}

// History returns a copy of the committed URLs, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// pending returns the id of the latest navigation started.
func (r *Router) pending() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}
