package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/uscre/auth-service/internal/common"
)

func TestVerificationToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	tok := GenerateVerificationToken("alice@x.com", secret)

	email, err := VerifyVerificationToken(tok, secret, DefaultVerificationMaxAge)
	if err != nil {
		t.Fatalf("VerifyVerificationToken error: %v", err)
	}
	if email != "alice@x.com" {
		t.Fatalf("email mismatch: got %q", email)
	}
}

func TestVerificationToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	issued := time.Now().Add(-16 * time.Minute)
	tok := generateVerificationTokenAt("alice@x.com", secret, issued)

	_, err := VerifyVerificationToken(tok, secret, DefaultVerificationMaxAge)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}

	// the same token stays valid under a larger age bound
	email, err := VerifyVerificationToken(tok, secret, time.Hour)
	if err != nil {
		t.Fatalf("VerifyVerificationToken error: %v", err)
	}
	if email != "alice@x.com" {
		t.Fatalf("email mismatch: got %q", email)
	}
}

func TestVerificationToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok := GenerateVerificationToken("alice@x.com", []byte("right"))
	_, err := VerifyVerificationToken(tok, []byte("wrong"), DefaultVerificationMaxAge)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerificationToken_BitFlip(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok := GenerateVerificationToken("alice@x.com", secret)

	raw := []byte(tok)
	for i := range raw {
		if raw[i] == '.' {
			continue
		}
		flipped := make([]byte, len(raw))
		copy(flipped, raw)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		if string(flipped) == tok {
			continue
		}
		if _, err := VerifyVerificationToken(string(flipped), secret, DefaultVerificationMaxAge); err == nil {
			t.Fatalf("tampered token at byte %d was accepted", i)
		}
	}
}

func TestVerificationToken_Malformed(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "abcdef"},
		{"too many parts", "a.b.c"},
		{"bad payload b64", "!!!." + base64.RawURLEncoding.EncodeToString([]byte("sig"))},
		{"bad mac b64", base64.RawURLEncoding.EncodeToString([]byte("p")) + ".!!!"},
		{"payload without timestamp", base64.RawURLEncoding.EncodeToString([]byte("alice@x.com")) + ".AAAA"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyVerificationToken(tt.token, secret, DefaultVerificationMaxAge)
			if !errors.Is(err, common.ErrInvalidToken) {
				t.Fatalf("expected common.ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestVerificationToken_RejectsSessionToken(t *testing.T) {
	t.Parallel()

	secret := []byte("shared-secret")
	tok, err := GenerateSessionToken("u1", "alice@x.com", "alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}
	if !strings.Contains(tok, ".") {
		t.Fatalf("unexpected session token format: %q", tok)
	}

	_, err = VerifyVerificationToken(tok, secret, DefaultVerificationMaxAge)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("session token must not verify as a verification token, got %v", err)
	}
}
