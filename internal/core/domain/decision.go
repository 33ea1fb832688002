package domain

// Decision is the outcome of a guard. A denial always names exactly one
// redirect target.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	// Guard names the guard that denied entry, empty when allowed.
	Guard string `json:"guard,omitempty"`
}

// Allow lets the navigation through.
func Allow() Decision { return Decision{Allowed: true} }

// RedirectTo denies entry and redirects to path.
func RedirectTo(path string) Decision {
	return Decision{Redirect: path}
}
