package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uscre/auth-service/internal/common"
)

func TestGitHubClient_AuthorizeURL(t *testing.T) {
	t.Parallel()

	c := NewGitHubClient("id-1", "secret-1", "https://svc/cb", nil)
	u, err := url.Parse(c.AuthorizeURL())
	require.NoError(t, err)
	require.Equal(t, "github.com", u.Host)
	q := u.Query()
	require.Equal(t, "id-1", q.Get("client_id"))
	require.Equal(t, "https://svc/cb", q.Get("redirect_uri"))
	require.Equal(t, "read:user user:email", q.Get("scope"))
}

func TestGitHubClient_ResolveCode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/oauth/access_token":
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "the-code", r.PostForm.Get("code"))
			json.NewEncoder(w).Encode(map[string]string{"access_token": "gh-token"})
		case "/user":
			require.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(GitHubProfile{Login: "alice", AvatarURL: "https://a"})
		case "/user/emails":
			json.NewEncoder(w).Encode([]GitHubEmail{
				{Email: "a@x.com", Primary: false, Verified: true},
				{Email: "b@x.com", Primary: true, Verified: true},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewGitHubClient("id", "secret", "https://svc/cb", srv.Client())
	c.tokenURL = srv.URL + "/login/oauth/access_token"
	c.apiBaseURL = srv.URL

	id, err := c.ResolveCode(context.Background(), "the-code")
	require.NoError(t, err)
	require.Equal(t, "b@x.com", id.Email)
	require.Equal(t, "alice", id.DisplayName)
	require.Equal(t, "https://a", id.Avatar)
}

func TestGitHubClient_ExchangeCode_NoToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
	}))
	defer srv.Close()

	c := NewGitHubClient("id", "secret", "https://svc/cb", srv.Client())
	c.tokenURL = srv.URL

	_, err := c.ExchangeCode(context.Background(), "stale")
	require.ErrorIs(t, err, common.ErrorUpstream)
}

func TestGitHubClient_UpstreamStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewGitHubClient("id", "secret", "https://svc/cb", srv.Client())
	c.apiBaseURL = srv.URL

	_, err := c.FetchProfile(context.Background(), "tok")
	require.ErrorIs(t, err, common.ErrorUpstream)
	require.True(t, strings.Contains(err.Error(), "502"), "error should carry the status: %v", err)
}

func TestGoogleClient_AuthorizeURL(t *testing.T) {
	t.Parallel()

	c := NewGoogleClient("id-2", "secret-2", "https://svc/gcb", nil)
	u, err := url.Parse(c.AuthorizeURL())
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "id-2", q.Get("client_id"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "openid email profile", q.Get("scope"))
}

func TestGoogleClient_ResolveCode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			require.NoError(t, r.ParseForm())
			require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			json.NewEncoder(w).Encode(map[string]string{"access_token": "goog-token"})
		case "/userinfo":
			require.Equal(t, "Bearer goog-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(GoogleUserInfo{Email: "g@x.com", Name: "G", Picture: "https://p"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewGoogleClient("id", "secret", "https://svc/gcb", srv.Client())
	c.tokenURL = srv.URL + "/token"
	c.userinfoURL = srv.URL + "/userinfo"

	id, err := c.ResolveCode(context.Background(), "code")
	require.NoError(t, err)
	require.Equal(t, "g@x.com", id.Email)
	require.Equal(t, "G", id.DisplayName)
}

func TestGoogleClient_ResolveCode_NoEmail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "goog-token"})
		case "/userinfo":
			json.NewEncoder(w).Encode(GoogleUserInfo{Name: "No Email"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewGoogleClient("id", "secret", "https://svc/gcb", srv.Client())
	c.tokenURL = srv.URL + "/token"
	c.userinfoURL = srv.URL + "/userinfo"

	_, err := c.ResolveCode(context.Background(), "code")
	if !errors.Is(err, common.ErrorNoVerifiedEmail) {
		t.Fatalf("want common.ErrorNoVerifiedEmail, got %v", err)
	}
}
