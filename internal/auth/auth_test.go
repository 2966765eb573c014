package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "unit-test-secret-at-least-32-chars!!"

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	token, err := tokens.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity != "admin" {
		t.Errorf("want identity admin, got %q", identity)
	}
}

func TestTokenLifetime(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	tokens := NewTokensAt(testSecret, 0, func() time.Time { return current })

	token, err := tokens.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	current = base.Add(6 * 24 * time.Hour)
	if _, err := tokens.Verify(token); err != nil {
		t.Errorf("token must still be valid on day six: %v", err)
	}

	current = base.Add(8 * 24 * time.Hour)
	if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token must be expired on day eight, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)

	token, err := tokens.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"

	if _, err := tokens.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokens(testSecret, time.Hour)
	verifier := NewTokens("a-completely-different-secret-value!", time.Hour)

	token, err := issuer.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("token %q: want ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := CheckPassword("s3cret", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong", hash); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("want ErrWrongPassword, got %v", err)
	}
}
