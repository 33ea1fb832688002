package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "u1",
		Email: "alice@example.com",
		Roles: domain.NewRoleSet(domain.RoleAdmin),
	}
}

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)

	signed, issued, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatalf("expected token id")
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenID != issued.TokenID {
		t.Fatalf("token id mismatch: %s vs %s", claims.TokenID, issued.TokenID)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "ADMIN" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
}

func TestManager_UniqueTokenIDs(t *testing.T) {
	m := NewManager("secret", time.Hour)
	_, a, _ := m.Issue(testUser())
	_, b, _ := m.Issue(testUser())
	if a.TokenID == b.TokenID {
		t.Fatalf("expected distinct token ids")
	}
}

func TestManager_ParseExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, _, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	m.now = time.Now
	if _, err := m.Parse(signed); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestManager_ParseWrongSecret(t *testing.T) {
	signed, _, err := NewManager("secret", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := NewManager("other", time.Hour).Parse(signed); err == nil {
		t.Fatalf("expected signature failure")
	}
}

func TestManager_ParseRejectsOtherAlgorithms(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "id",
			Subject:   "u1",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewManager("secret", time.Hour).Parse(signed); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}

func TestManager_ParseGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Parse("not-a-token")
	if err == nil || !strings.Contains(err.Error(), "parse token") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
