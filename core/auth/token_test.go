package auth

import (
	"testing"
	"time"

	"melodex/model"
)

func testUser() *model.User {
	return &model.User{ID: 42, Username: "ana", Email: "ana@example.com", IsStaff: true}
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)

	pair, err := issuer.IssuePair(testUser())
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	t.Run("access token carries the user claims", func(t *testing.T) {
		claims, err := issuer.Parse(pair.Access)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if claims.UserID != 42 || claims.Username != "ana" {
			t.Fatalf("unexpected claims %+v", claims)
		}
		if claims.TokenType != TokenTypeAccess {
			t.Fatalf("expected access token, got %q", claims.TokenType)
		}
		if !claims.Admin() {
			t.Fatal("staff user should be admin")
		}
	})

	t.Run("refresh token is typed refresh", func(t *testing.T) {
		claims, err := issuer.Parse(pair.Refresh)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if claims.TokenType != TokenTypeRefresh {
			t.Fatalf("expected refresh token, got %q", claims.TokenType)
		}
	})
}

func TestParseRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", time.Hour, 24*time.Hour)
		pair, err := other.IssuePair(testUser())
		if err != nil {
			t.Fatalf("IssuePair: %v", err)
		}
		if _, err := issuer.Parse(pair.Access); err == nil {
			t.Fatal("expected signature error")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenIssuer("secret", -time.Minute, -time.Minute)
		pair, err := expired.IssuePair(testUser())
		if err != nil {
			t.Fatalf("IssuePair: %v", err)
		}
		if _, err := issuer.Parse(pair.Access); err == nil {
			t.Fatal("expected expiry error")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := issuer.Parse("not.a.token"); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
