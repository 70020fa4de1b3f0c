package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/sakif/rewear/internal/model"
)

const testSecret = "test-secret-key-at-least-16-chars"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return ts
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() should reject secrets under 16 characters")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123", model.RoleUser)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// A JWT is three base64 segments joined by dots.
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	ident, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if ident.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", ident.UserID, "user-123")
	}
	if ident.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", ident.Role, model.RoleUser)
	}
}

func TestValidate_CarriesAdminRole(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("admin-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	ident, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if ident.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", ident.Role, model.RoleAdmin)
	}
}

func TestValidate_RejectsExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration("user-123", model.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject an expired token")
	}
}

func TestValidate_RejectsTamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Generate("user-123", model.RoleUser)

	// Flip a character in the payload segment.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	if _, err := ts.Validate(string(tampered)); err == nil {
		t.Fatal("Validate() should reject a tampered token")
	}
}

func TestValidate_RejectsTokenFromDifferentSecret(t *testing.T) {
	ts := newTestTokenService(t)

	other, err := NewTokenService("a-completely-different-secret-key")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, _ := other.Generate("user-123", model.RoleUser)
	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token signed with a different secret")
	}
}

func TestValidate_RejectsGarbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ts.Validate(tok); err == nil {
			t.Errorf("Validate(%q) should fail", tok)
		}
	}
}
