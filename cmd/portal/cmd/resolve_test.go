package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resolveRoles, resolvePath, resolveAnonymous = "", "/", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"anonymous root", []string{"resolve", "--anonymous", "--path", "/"}, "final:   /sign-in?redirectURL=%2F"},
		{"admin signed in redirect", []string{"resolve", "--roles", "ADMIN", "--path", "/signed-in-redirect"}, "final:   /admin/clients"},
		{"client in admin area", []string{"resolve", "--roles", "client", "--path", "/admin/dashboard"}, "final:   /client"},
		{"both roles", []string{"resolve", "--roles", "CLIENT,ADMIN", "--path", "/"}, "final:   /admin/clients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("expected %q in output, got:\n%s", tt.want, out)
			}
		})
	}
}

func TestResolve_UnknownRoute(t *testing.T) {
	_, err := runCLI(t, "resolve", "--roles", "ADMIN", "--path", "/nowhere")
	if !errors.Is(err, domain.ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "portal "+Version) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
