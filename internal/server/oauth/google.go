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

// GoogleClient drives the Google OAuth web flow: consent redirect, code
// exchange, and userinfo retrieval.
type GoogleClient struct {
	clientID     string
	clientSecret string
	redirectURI  string

	authorizeURL string
	tokenURL     string
	userinfoURL  string

	httpClient *http.Client
}

func NewGoogleClient(clientID, clientSecret, redirectURI string, httpClient *http.Client) *GoogleClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authorizeURL: "https://accounts.google.com/o/oauth2/v2/auth",
		tokenURL:     "https://oauth2.googleapis.com/token",
		userinfoURL:  "https://www.googleapis.com/oauth2/v3/userinfo",
		httpClient:   httpClient,
	}
}

func (c *GoogleClient) Name() string { return "google" }

func (c *GoogleClient) Configured() bool {
	return c.clientID != "" && c.redirectURI != ""
}

func (c *GoogleClient) AuthorizeURL() string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "openid email profile")
	params.Set("access_type", "offline")
	return c.authorizeURL + "?" + params.Encode()
}

// ExchangeCode trades the callback code for an access token.
func (c *GoogleClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: building token request: %v", common.ErrorUpstream, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", common.ErrorUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", common.ErrorUpstream, err)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", common.ErrorUpstream, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", common.ErrorUpstream)
	}

	return token.AccessToken, nil
}

// FetchUserInfo retrieves the authenticated user's userinfo payload.
func (c *GoogleClient) FetchUserInfo(ctx context.Context, accessToken string) (GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return GoogleUserInfo{}, fmt.Errorf("%w: building request: %v", common.ErrorUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return GoogleUserInfo{}, fmt.Errorf("%w: %v", common.ErrorUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleUserInfo{}, fmt.Errorf("%w: unexpected status %d", common.ErrorUpstream, resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return GoogleUserInfo{}, fmt.Errorf("%w: decoding response: %v", common.ErrorUpstream, err)
	}

	return info, nil
}

// ResolveCode runs the full flow: exchange the code, fetch userinfo, and
// normalize the result.
func (c *GoogleClient) ResolveCode(ctx context.Context, code string) (Identity, error) {
	accessToken, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return Identity{}, err
	}

	info, err := c.FetchUserInfo(ctx, accessToken)
	if err != nil {
		return Identity{}, err
	}

	return ResolveGoogle(info)
}
