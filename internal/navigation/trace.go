package navigation

import (
	"context"
	"fmt"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/core/service"
)

// Hop is one redirect taken while tracing a navigation.
type Hop struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Guard   string `json:"guard,omitempty"`
	Replace bool   `json:"replace,omitempty"`
}

// Trace is where a navigation settles and how it got there.
type Trace struct {
	Requested string `json:"requested"`
	Final     string `json:"final"`
	Hops      []Hop  `json:"hops"`
}

// Redirected reports whether the navigation ended somewhere else.
func (t Trace) Redirected() bool { return len(t.Hops) > 0 }

// capture is a Navigator that only remembers the first request.
type capture struct {
	url  string
	opts ports.NavigateOptions
}

func (c *capture) Navigate(_ context.Context, url string, opts ports.NavigateOptions) error {
	if c.url == "" {
		c.url, c.opts = url, opts
	}
	return nil
}

// TraceNavigation follows url through guards, route redirects and redirect
// hooks without committing anything. It is what a stateless client (an HTTP
// request) needs: the single URL to send the browser to.
func TraceNavigation(ctx context.Context, table *Table, gate *service.Gatekeeper, session ports.SessionReader, url string) (Trace, error) {
	tr := Trace{Requested: url, Hops: []Hop{}}
	cur := url

	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return tr, fmt.Errorf("trace %s: %w", url, domain.ErrRedirectLoop)
		}

		route, ok := table.Match(cur)
		if !ok {
			return tr, fmt.Errorf("trace %s: %w", cur, domain.ErrRouteNotFound)
		}

		d, err := gate.Evaluate(ctx, session, cur, route.Guards...)
		if err != nil {
			return tr, fmt.Errorf("trace %s: %w", cur, err)
		}
		if !d.Allowed {
			tr.Hops = append(tr.Hops, Hop{From: cur, To: d.Redirect, Guard: d.Guard})
			cur = d.Redirect
			continue
		}
		if route.RedirectTo != "" {
			tr.Hops = append(tr.Hops, Hop{From: cur, To: route.RedirectTo})
			cur = route.RedirectTo
			continue
		}

		next, err := runHooks(ctx, route, session)
		if err != nil {
			return tr, fmt.Errorf("trace %s: %w", cur, err)
		}
		if next.url != "" {
			tr.Hops = append(tr.Hops, Hop{From: cur, To: next.url, Replace: next.opts.Replace})
			cur = next.url
			continue
		}

		tr.Final = cur
		return tr, nil
	}
}

func runHooks(ctx context.Context, route Route, session ports.SessionReader) (*capture, error) {
	c := &capture{}
	for _, res := range route.Resolvers {
		proceed, err := res.Resolve(ctx, c, session)
		if err != nil {
			return nil, err
		}
		if c.url != "" {
			return c, nil
		}
		if !proceed {
			return nil, domain.ErrNavigationCancelled
		}
	}
	if route.Activate != nil {
		if err := route.Activate.Activate(ctx, c, session); err != nil {
			return nil, err
		}
	}
	return c, nil
}
