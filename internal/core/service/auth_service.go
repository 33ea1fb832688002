package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/pkg/metrics"
)

// AuthService implements sign-in, sign-out, session restoration and account
// registration.
type AuthService struct {
	repo   ports.AuthRepository
	tokens ports.TokenManager
	cache  ports.SessionCache
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenManager, cache ports.SessionCache, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cache: cache, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	roles, unknown := domain.ParseRoleSet(in.Roles)
	if len(unknown) > 0 || roles.Empty() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Roles:        roles,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("roles", created.Roles.String()).Msg("account registered")
	return created, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same answer as a bad password so emails cannot be probed.
			metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		metrics.SignInsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("sign in: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.Enabled {
		metrics.SignInsTotal.WithLabelValues("account_disabled").Inc()
		return "", nil, domain.ErrAccountDisabled
	}

	signed, _, err := s.tokens.Issue(user)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("sign in: %w", err)
	}

	if err := s.cache.PutUser(ctx, user); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to cache user")
	}

	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("signed in")
	return signed, user, nil
}

// SignOut revokes token until it would have expired anyway. Signing out
// with an unusable token is not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("sign out with unusable token")
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := s.cache.DeleteUser(ctx, claims.UserID); err != nil {
		s.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("failed to evict cached user")
	}

	s.log.Info().Str("user_id", claims.UserID).Msg("signed out")
	return nil
}

// Restore validates token and loads its user. Every failure wraps
// domain.ErrUnauthenticated: expired, invalid, revoked and unreachable are
// all treated the same way by callers.
func (s *AuthService) Restore(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.restore(ctx, token)
	switch {
	case err == nil:
		metrics.SessionRestoresTotal.WithLabelValues("ok").Inc()
		return user, nil
	case token == "":
		metrics.SessionRestoresTotal.WithLabelValues("anonymous").Inc()
	default:
		metrics.SessionRestoresTotal.WithLabelValues("failed").Inc()
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
}

func (s *AuthService) restore(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, errors.New("no token")
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.cache.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, errors.New("token revoked")
	}

	user, err := s.cache.GetUser(ctx, claims.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", claims.UserID).Msg("user cache read failed")
	}
	if user == nil {
		user, err = s.repo.FindByID(ctx, claims.UserID)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if err := s.cache.PutUser(ctx, user); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to cache user")
		}
	}

	if !user.Enabled {
		return nil, domain.ErrAccountDisabled
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
