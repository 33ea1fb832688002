package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrAlreadySignedIn    = errors.New("user is already signed in")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")

	ErrRouteNotFound       = errors.New("route not found")
	ErrRedirectLoop        = errors.New("too many redirects")
	ErrNavigationCancelled = errors.New("navigation cancelled")
)
