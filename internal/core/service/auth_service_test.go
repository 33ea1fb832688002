package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/infrastructure/token"
)

type stubAuthRepo struct {
	users   map[string]*domain.User
	findErr error
	lookups int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := user.Clone()
	c.ID = "id-" + user.Email
	r.users[c.ID] = c.Clone()
	return c, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.lookups++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

type stubSessionCache struct {
	revoked    map[string]time.Duration
	users      map[string]*domain.User
	revokedErr error
}

func newStubSessionCache() *stubSessionCache {
	return &stubSessionCache{
		revoked: make(map[string]time.Duration),
		users:   make(map[string]*domain.User),
	}
}

func (c *stubSessionCache) Revoke(_ context.Context, id string, ttl time.Duration) error {
	c.revoked[id] = ttl
	return nil
}

func (c *stubSessionCache) IsRevoked(_ context.Context, id string) (bool, error) {
	if c.revokedErr != nil {
		return false, c.revokedErr
	}
	_, ok := c.revoked[id]
	return ok, nil
}

func (c *stubSessionCache) GetUser(_ context.Context, id string) (*domain.User, error) {
	return c.users[id].Clone(), nil
}

func (c *stubSessionCache) PutUser(_ context.Context, u *domain.User) error {
	c.users[u.ID] = u.Clone()
	return nil
}

func (c *stubSessionCache) DeleteUser(_ context.Context, id string) error {
	delete(c.users, id)
	return nil
}

func newAuthSvc(repo *stubAuthRepo, cache *stubSessionCache) *AuthService {
	return NewAuthService(repo, token.NewManager("secret", time.Hour), cache, zerolog.Nop())
}

func register(t *testing.T, svc *AuthService, email string, roles ...string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     email,
		Password:  "s3cret",
		FirstName: "Test",
		LastName:  "User",
		Roles:     roles,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return u
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubSessionCache())

	user := register(t, svc, " Alice@Example.com ", "CLIENT")
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.Roles.Has(domain.RoleClient) || !user.Enabled {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubSessionCache())
	ctx := context.Background()

	cases := []ports.RegisterInput{
		{Email: "", Password: "p", Roles: []string{"CLIENT"}},
		{Email: "a@b.c", Password: "", Roles: []string{"CLIENT"}},
		{Email: "a@b.c", Password: "p"},
		{Email: "a@b.c", Password: "p", Roles: []string{"CLIENT", "ROOT"}},
		{Email: "a@b.c", Password: "p", Roles: []string{"client"}},
	}
	for _, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubSessionCache())
	register(t, svc, "bob@example.com", "CLIENT")

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "bob@example.com", Password: "x", Roles: []string{"CLIENT"},
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	cache := newStubSessionCache()
	svc := newAuthSvc(newStubAuthRepo(), cache)
	registered := register(t, svc, "carol@example.com", "ADMIN")

	tkn, user, err := svc.SignIn(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if tkn == "" || user.ID != registered.ID {
		t.Fatalf("unexpected result: %q %+v", tkn, user)
	}
	if _, ok := cache.users[user.ID]; !ok {
		t.Fatalf("expected user to be cached after sign in")
	}
}

func TestAuthService_SignIn_Failures(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo, newStubSessionCache())
	u := register(t, svc, "dave@example.com", "CLIENT")
	ctx := context.Background()

	if _, _, err := svc.SignIn(ctx, "dave@example.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.SignIn(ctx, "ghost@example.com", "s3cret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	repo.users[u.ID].Enabled = false
	if _, _, err := svc.SignIn(ctx, "dave@example.com", "s3cret"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Restore(t *testing.T) {
	repo := newStubAuthRepo()
	cache := newStubSessionCache()
	svc := newAuthSvc(repo, cache)
	register(t, svc, "erin@example.com", "CLIENT")

	tkn, _, err := svc.SignIn(context.Background(), "erin@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	user, err := svc.Restore(context.Background(), tkn)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !user.Roles.Has(domain.RoleClient) {
		t.Fatalf("unexpected user: %+v", user)
	}
	if repo.lookups != 0 {
		t.Fatalf("expected cache hit, got %d repository lookups", repo.lookups)
	}
}

func TestAuthService_Restore_CacheMissLoadsFromRepository(t *testing.T) {
	repo := newStubAuthRepo()
	cache := newStubSessionCache()
	svc := newAuthSvc(repo, cache)
	u := register(t, svc, "fay@example.com", "ADMIN")

	tkn, _, _ := svc.SignIn(context.Background(), "fay@example.com", "s3cret")
	delete(cache.users, u.ID)

	if _, err := svc.Restore(context.Background(), tkn); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if repo.lookups != 1 {
		t.Fatalf("expected one repository lookup, got %d", repo.lookups)
	}
	if _, ok := cache.users[u.ID]; !ok {
		t.Fatalf("expected user to be cached again")
	}
}

func TestAuthService_Restore_FailsClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		svc := newAuthSvc(newStubAuthRepo(), newStubSessionCache())
		if _, err := svc.Restore(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		svc := newAuthSvc(newStubAuthRepo(), newStubSessionCache())
		if _, err := svc.Restore(ctx, "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("revocation store unreachable", func(t *testing.T) {
		cache := newStubSessionCache()
		svc := newAuthSvc(newStubAuthRepo(), cache)
		register(t, svc, "gus@example.com", "CLIENT")
		tkn, _, _ := svc.SignIn(ctx, "gus@example.com", "s3cret")

		cache.revokedErr = errors.New("redis down")
		if _, err := svc.Restore(ctx, tkn); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("backend unreachable", func(t *testing.T) {
		repo := newStubAuthRepo()
		cache := newStubSessionCache()
		svc := newAuthSvc(repo, cache)
		u := register(t, svc, "hal@example.com", "CLIENT")
		tkn, _, _ := svc.SignIn(ctx, "hal@example.com", "s3cret")

		delete(cache.users, u.ID)
		repo.findErr = errors.New("mongo down")
		if _, err := svc.Restore(ctx, tkn); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("account disabled", func(t *testing.T) {
		repo := newStubAuthRepo()
		cache := newStubSessionCache()
		svc := newAuthSvc(repo, cache)
		u := register(t, svc, "ida@example.com", "CLIENT")
		tkn, _, _ := svc.SignIn(ctx, "ida@example.com", "s3cret")

		delete(cache.users, u.ID)
		repo.users[u.ID].Enabled = false
		if _, err := svc.Restore(ctx, tkn); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestAuthService_SignOutRevokesToken(t *testing.T) {
	cache := newStubSessionCache()
	svc := newAuthSvc(newStubAuthRepo(), cache)
	register(t, svc, "jo@example.com", "CLIENT")
	ctx := context.Background()

	tkn, _, _ := svc.SignIn(ctx, "jo@example.com", "s3cret")
	if err := svc.SignOut(ctx, tkn); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if len(cache.revoked) != 1 {
		t.Fatalf("expected one revoked token, got %d", len(cache.revoked))
	}
	for _, ttl := range cache.revoked {
		if ttl <= 0 || ttl > time.Hour {
			t.Fatalf("unexpected revocation ttl: %v", ttl)
		}
	}

	if _, err := svc.Restore(ctx, tkn); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("revoked token must not restore a session, got %v", err)
	}

	if err := svc.SignOut(ctx, "garbage"); err != nil {
		t.Fatalf("sign out with unusable token should succeed, got %v", err)
	}
}
