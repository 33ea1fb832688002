package ports

import "context"

// NavigateOptions tunes a navigation request.
type NavigateOptions struct {
	// Replace overwrites the current history entry instead of pushing one.
	Replace bool
}

// Navigator is the routing primitive the access layer drives.
type Navigator interface {
	Navigate(ctx context.Context, url string, opts NavigateOptions) error
}

// Resolver runs before a route is committed. Returning false cancels the
// navigation. nav is the navigator driving the current navigation and
// session the session it is evaluated against.
type Resolver interface {
	Resolve(ctx context.Context, nav Navigator, session SessionReader) (bool, error)
}

// Activator runs once a route has been committed.
type Activator interface {
	Activate(ctx context.Context, nav Navigator, session SessionReader) error
}
