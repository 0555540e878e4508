package oauth

import (
	"errors"
	"testing"

	"github.com/uscre/auth-service/internal/common"
)

func TestResolveGitHub_PicksPrimaryVerifiedEmail(t *testing.T) {
	t.Parallel()

	profile := GitHubProfile{Login: "alice", Name: "Alice A.", AvatarURL: "https://a/img.png"}
	emails := []GitHubEmail{
		{Email: "a@x.com", Primary: false, Verified: true},
		{Email: "b@x.com", Primary: true, Verified: true},
	}

	id, err := ResolveGitHub(profile, emails)
	if err != nil {
		t.Fatalf("ResolveGitHub error: %v", err)
	}
	if id.Email != "b@x.com" {
		t.Fatalf("expected b@x.com, got %q", id.Email)
	}
	if id.DisplayName != "Alice A." {
		t.Fatalf("expected display name from profile, got %q", id.DisplayName)
	}
	if id.Avatar != "https://a/img.png" {
		t.Fatalf("unexpected avatar: %q", id.Avatar)
	}
}

func TestResolveGitHub_NoVerifiedEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		emails []GitHubEmail
	}{
		{"empty list", nil},
		{"primary but unverified", []GitHubEmail{{Email: "a@x.com", Primary: true, Verified: false}}},
		{"verified but not primary", []GitHubEmail{{Email: "a@x.com", Primary: false, Verified: true}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveGitHub(GitHubProfile{Login: "alice"}, tt.emails)
			if !errors.Is(err, common.ErrorNoVerifiedEmail) {
				t.Fatalf("want common.ErrorNoVerifiedEmail, got %v", err)
			}
		})
	}
}

func TestResolveGitHub_DisplayNameFallsBackToLogin(t *testing.T) {
	t.Parallel()

	profile := GitHubProfile{Login: "octocat"}
	emails := []GitHubEmail{{Email: "o@x.com", Primary: true, Verified: true}}

	id, err := ResolveGitHub(profile, emails)
	if err != nil {
		t.Fatalf("ResolveGitHub error: %v", err)
	}
	if id.DisplayName != "octocat" {
		t.Fatalf("expected login fallback, got %q", id.DisplayName)
	}
}

func TestResolveGoogle_Success(t *testing.T) {
	t.Parallel()

	id, err := ResolveGoogle(GoogleUserInfo{Email: "g@x.com", Name: "G", Picture: "https://p"})
	if err != nil {
		t.Fatalf("ResolveGoogle error: %v", err)
	}
	if id.Email != "g@x.com" || id.DisplayName != "G" || id.Avatar != "https://p" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestResolveGoogle_MissingEmail(t *testing.T) {
	t.Parallel()

	_, err := ResolveGoogle(GoogleUserInfo{Name: "G"})
	if !errors.Is(err, common.ErrorNoVerifiedEmail) {
		t.Fatalf("want common.ErrorNoVerifiedEmail, got %v", err)
	}
}
