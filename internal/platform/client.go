// Package platform is the outbound client for the third-party content
// platform that ultimately hosts published articles. It trades the
// configured app credentials for a short-lived bearer token and keeps that
// token cached until shortly before expiry.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/inkpress/draftgate/pkg/slogx"
)

// expirySlack is how long before the cached platform token's expiry we stop
// trusting it and fetch a fresh one.
const expirySlack = 60 * time.Second

// Config holds the platform app credentials and endpoint.
type Config struct {
	AppID     string
	AppSecret string
	APIBase   string
}

// Client talks to the content platform API.
type Client struct {
	cfg  Config
	http *http.Client
	now  func() time.Time

	mu          sync.Mutex
	bearer      string
	bearerUntil time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
		now:  time.Now,
	}
}

// Article is a draft submitted for publication.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
	Digest  string `json:"digest,omitempty"`
}

// PublishReceipt identifies a submitted draft on the platform side.
type PublishReceipt struct {
	PublishID string `json:"publish_id"`
}

// PublishState is the platform's view of a submitted draft.
type PublishState struct {
	PublishID string `json:"publish_id"`
	Status    string `json:"status"`
	ArticleID string `json:"article_id,omitempty"`
}

// APIError is a non-2xx answer from the platform.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// PublishDraft submits a draft article and returns the platform's publish
// receipt.
func (c *Client) PublishDraft(ctx context.Context, article Article) (PublishReceipt, error) {
	var receipt PublishReceipt
	if err := c.do(ctx, http.MethodPost, "/api/articles", article, &receipt); err != nil {
		return PublishReceipt{}, err
	}

	slogx.FromContext(ctx).Info("draft submitted to platform",
		"publish_id", receipt.PublishID,
		"title", article.Title,
	)
	return receipt, nil
}

// PublishStatus fetches the current state of a submitted draft.
func (c *Client) PublishStatus(ctx context.Context, publishID string) (PublishState, error) {
	var state PublishState
	path := "/api/articles/" + publishID + "/status"
	if err := c.do(ctx, http.MethodGet, path, nil, &state); err != nil {
		return PublishState{}, err
	}
	return state, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	bearer, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("platform: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIBase+path, body)
	if err != nil {
		return fmt.Errorf("platform: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = "unknown_error"
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("platform: decode response: %w", err)
		}
	}
	return nil
}

// bearerToken returns the cached platform token, fetching a fresh one when
// the cache is empty or about to expire. Concurrent callers share a single
// fetch.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bearer != "" && c.now().Add(expirySlack).Before(c.bearerUntil) {
		return c.bearer, nil
	}

	form := map[string]string{
		"app_id":     c.cfg.AppID,
		"app_secret": c.cfg.AppSecret,
	}
	raw, _ := json.Marshal(form)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBase+"/api/token", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("platform: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("platform: fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = "unknown_error"
		}
		return "", apiErr
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("platform: decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("platform: token response missing access_token")
	}

	c.bearer = token.AccessToken
	c.bearerUntil = c.now().Add(time.Duration(token.ExpiresIn) * time.Second)

	slogx.FromContext(ctx).Debug("platform token refreshed",
		"expires_in", token.ExpiresIn,
	)
	return c.bearer, nil
}
