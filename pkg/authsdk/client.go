// Package authsdk is a small Go client for the draftgate authorization
// server. It covers the unauthenticated OAuth2 surface: dynamic client
// registration, the token endpoint grants, introspection and revocation.
package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the draftgate authorization server.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client with a sane default timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RegisterClient performs dynamic client registration. The returned
// client_secret (if any) is shown exactly once; callers must store it.
func (c *SDKClient) RegisterClient(ctx context.Context, req RegisterClientRequest) (*RegisterClientResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registration request: %w", err)
	}

	var out RegisterClientResponse
	if err := c.postJSON(ctx, "/register", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExchangeAuthorizationCode redeems an authorization code for a token pair.
func (c *SDKClient) ExchangeAuthorizationCode(
	ctx context.Context,
	clientID, clientSecret, code, redirectURI, codeVerifier string,
) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
		"client_id":    {clientID},
	}
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	if codeVerifier != "" {
		form.Set("code_verifier", codeVerifier)
	}
	return c.postToken(ctx, form)
}

// RefreshToken rotates the access token behind a refresh token. The server
// keeps the refresh token's identity, so the returned refresh_token equals
// the one passed in.
func (c *SDKClient) RefreshToken(
	ctx context.Context,
	clientID, clientSecret, refreshToken string,
	scopes []string,
	resource string,
) (*TokenResponse, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {clientID},
	}
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	if len(scopes) > 0 {
		form.Set("scope", strings.Join(scopes, " "))
	}
	if resource != "" {
		form.Set("resource", resource)
	}
	return c.postToken(ctx, form)
}

// Introspect queries the state of a token (RFC 7662).
func (c *SDKClient) Introspect(ctx context.Context, token string) (*IntrospectionResponse, error) {
	form := url.Values{"token": {token}}

	var out IntrospectionResponse
	if err := c.postForm(ctx, "/oauth/introspect", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revoke revokes a token (RFC 7009). The server reports success even for
// unknown tokens, so a nil error only means the request was accepted.
func (c *SDKClient) Revoke(ctx context.Context, clientID, clientSecret, token string) error {
	form := url.Values{
		"token":     {token},
		"client_id": {clientID},
	}
	if clientSecret != "" {
		form.Set("client_secret", clientSecret)
	}
	return c.postForm(ctx, "/oauth/revoke", form, nil)
}

// ServerMetadata fetches the RFC 8414 discovery document.
func (c *SDKClient) ServerMetadata(ctx context.Context) (*ServerMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/.well-known/oauth-authorization-server", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if err := parseErrorResponse(resp, body); err != nil {
		return nil, err
	}

	var out ServerMetadata
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &out, nil
}

func (c *SDKClient) postToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.postForm(ctx, "/token", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) postJSON(ctx context.Context, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *SDKClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *SDKClient) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := parseErrorResponse(resp, body); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse converts a non-2xx response into a typed *OAuth2Error.
// Returns nil for success responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &OAuth2Error{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &OAuth2Error{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
