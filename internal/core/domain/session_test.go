package domain

import "testing"

func sessionWith(roles ...Role) Session {
	return Session{User: &User{ID: "u1", Roles: NewRoleSet(roles...)}, Version: 1}
}

func TestDefaultRoute(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{"anonymous", Session{}, PathSignIn},
		{"anonymous with version", Session{Version: 7}, PathSignIn},
		{"admin", sessionWith(RoleAdmin), PathAdminClients},
		{"admin and client", sessionWith(RoleAdmin, RoleClient), PathAdminClients},
		{"client", sessionWith(RoleClient), PathClientDashboard},
		{"no recognised role", sessionWith(), PathClientDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRoute(tt.session); got != tt.want {
				t.Fatalf("DefaultRoute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultRoute_Deterministic(t *testing.T) {
	s := sessionWith(RoleClient)
	first := DefaultRoute(s)
	second := DefaultRoute(s)
	if first != second {
		t.Fatalf("expected identical results, got %q and %q", first, second)
	}
}

func TestRolePredicates(t *testing.T) {
	admin := sessionWith(RoleAdmin)
	client := sessionWith(RoleClient)
	both := sessionWith(RoleAdmin, RoleClient)

	if !IsAdmin(admin) || IsClient(admin) {
		t.Fatalf("admin predicates wrong")
	}
	if IsAdmin(client) || !IsClient(client) {
		t.Fatalf("client predicates wrong")
	}
	if !IsAdmin(both) || !IsClient(both) {
		t.Fatalf("expected both predicates true")
	}
	if HasRole(Session{}, RoleAdmin) || IsClient(Session{}) {
		t.Fatalf("anonymous session must hold no role")
	}
}

func TestIsRedirectPlaceholder(t *testing.T) {
	for _, p := range []string{"/", "", "/signed-in-redirect", "/?x=1", "/signed-in-redirect#top", "//", "/signed-in-redirect/"} {
		if !IsRedirectPlaceholder(p) {
			t.Errorf("expected %q to be a placeholder", p)
		}
	}
	for _, p := range []string{"/admin", "/sign-in", "/signed-in-redirect/x", "/client/dashboard"} {
		if IsRedirectPlaceholder(p) {
			t.Errorf("expected %q not to be a placeholder", p)
		}
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		"":                    "/",
		"//":                  "/",
		"/?tab=1":             "/",
		"admin":               "/admin",
		"/admin/":             "/admin",
		"/client/history#x":   "/client/history",
		"/signed-in-redirect": "/signed-in-redirect",
	}
	for in, want := range tests {
		if got := CleanPath(in); got != want {
			t.Errorf("CleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
