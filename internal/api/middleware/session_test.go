package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

type stubRestorer struct {
	users map[string]*domain.User
	seen  []string
}

func (s *stubRestorer) Restore(_ context.Context, token string) (*domain.User, error) {
	s.seen = append(s.seen, token)
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, errors.Join(domain.ErrUnauthenticated, errors.New("unknown token"))
}

func runSession(t *testing.T, restorer *stubRestorer, req *http.Request) (domain.Session, string) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	var got domain.Session
	var token string
	h := Session(restorer, zerolog.Nop())(func(c echo.Context) error {
		store := CurrentSession(c)
		if !store.Resolved() {
			t.Fatal("session must be resolved before the handler runs")
		}
		got = store.Snapshot()
		token = CurrentToken(c)
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return got, token
}

func TestSession_BearerToken(t *testing.T) {
	restorer := &stubRestorer{users: map[string]*domain.User{
		"good": {ID: "u1", Roles: domain.NewRoleSet(domain.RoleAdmin)},
	}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")

	s, token := runSession(t, restorer, req)

	if !domain.IsAdmin(s) {
		t.Fatalf("expected admin session, got %+v", s)
	}
	if token != "good" {
		t.Fatalf("expected token to be kept, got %q", token)
	}
}

func TestSession_CookieFallback(t *testing.T) {
	restorer := &stubRestorer{users: map[string]*domain.User{
		"from-cookie": {ID: "u2", Roles: domain.NewRoleSet(domain.RoleClient)},
	}}
	req := httptest.NewRequest(http.MethodGet, "/client", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})

	s, _ := runSession(t, restorer, req)

	if !domain.IsClient(s) {
		t.Fatalf("expected client session, got %+v", s)
	}
}

func TestSession_FailsClosed(t *testing.T) {
	restorer := &stubRestorer{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer revoked")

	s, token := runSession(t, restorer, req)

	if s.Authenticated() {
		t.Fatalf("expected anonymous session, got %+v", s)
	}
	if token != "" {
		t.Fatalf("rejected token must not be exposed, got %q", token)
	}
}

func TestSession_AnonymousStillAsksRestorer(t *testing.T) {
	restorer := &stubRestorer{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc")

	s, _ := runSession(t, restorer, req)

	if s.Authenticated() {
		t.Fatal("expected anonymous session")
	}
	if len(restorer.seen) != 1 || restorer.seen[0] != "" {
		t.Fatalf("expected a single empty restore, got %q", restorer.seen)
	}
}
