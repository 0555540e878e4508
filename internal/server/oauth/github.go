package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/uscre/auth-service/internal/common"
)

// GitHubClient drives the GitHub OAuth web flow: consent redirect, code
// exchange, and profile/email retrieval.
type GitHubClient struct {
	clientID     string
	clientSecret string
	redirectURI  string

	authorizeURL string
	tokenURL     string
	apiBaseURL   string

	httpClient *http.Client
}

func NewGitHubClient(clientID, clientSecret, redirectURI string, httpClient *http.Client) *GitHubClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GitHubClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authorizeURL: "https://github.com/login/oauth/authorize",
		tokenURL:     "https://github.com/login/oauth/access_token",
		apiBaseURL:   "https://api.github.com",
		httpClient:   httpClient,
	}
}

func (c *GitHubClient) Name() string { return "github" }

func (c *GitHubClient) Configured() bool {
	return c.clientID != "" && c.redirectURI != ""
}

func (c *GitHubClient) AuthorizeURL() string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("scope", "read:user user:email")
	params.Set("allow_signup", "true")
	return c.authorizeURL + "?" + params.Encode()
}

// ExchangeCode trades the callback code for an access token.
func (c *GitHubClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: building token request: %v", common.ErrorUpstream, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doJSON(req, &body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", common.ErrorUpstream)
	}

	return body.AccessToken, nil
}

// FetchProfile retrieves the authenticated user's profile.
func (c *GitHubClient) FetchProfile(ctx context.Context, accessToken string) (GitHubProfile, error) {
	var profile GitHubProfile
	if err := c.getJSON(ctx, c.apiBaseURL+"/user", accessToken, &profile); err != nil {
		return GitHubProfile{}, err
	}
	return profile, nil
}

// FetchEmails retrieves the authenticated user's email records.
func (c *GitHubClient) FetchEmails(ctx context.Context, accessToken string) ([]GitHubEmail, error) {
	var emails []GitHubEmail
	if err := c.getJSON(ctx, c.apiBaseURL+"/user/emails", accessToken, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// ResolveCode runs the full flow: exchange the code, fetch profile and
// emails, and normalize the result.
func (c *GitHubClient) ResolveCode(ctx context.Context, code string) (Identity, error) {
	accessToken, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return Identity{}, err
	}

	profile, err := c.FetchProfile(ctx, accessToken)
	if err != nil {
		return Identity{}, err
	}

	emails, err := c.FetchEmails(ctx, accessToken)
	if err != nil {
		return Identity{}, err
	}

	return ResolveGitHub(profile, emails)
}

func (c *GitHubClient) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", common.ErrorUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	return c.doJSON(req, out)
}

func (c *GitHubClient) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", common.ErrorUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", common.ErrorUpstream, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", common.ErrorUpstream, err)
	}

	return nil
}
