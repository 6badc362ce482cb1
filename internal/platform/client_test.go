package platform_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkpress/draftgate/internal/platform"
)

// fakePlatform is a minimal stand-in for the content platform API.
type fakePlatform struct {
	tokenCalls   atomic.Int64
	publishCalls atomic.Int64
	expiresIn    int64
	failPublish  int
}

func (f *fakePlatform) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)

		var creds struct {
			AppID     string `json:"app_id"`
			AppSecret string `json:"app_secret"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.AppID != "app-1" || creds.AppSecret != "shh" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_credentials", "message": "nope"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "platform-bearer",
			"expires_in":   f.expiresIn,
		})
	})

	mux.HandleFunc("POST /api/articles", func(w http.ResponseWriter, r *http.Request) {
		f.publishCalls.Add(1)

		if r.Header.Get("Authorization") != "Bearer platform-bearer" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_token", "message": "bad bearer"})
			return
		}
		if f.failPublish != 0 {
			w.WriteHeader(f.failPublish)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "draft_rejected", "message": "too short"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"publish_id": "pub-123"})
	})

	mux.HandleFunc("GET /api/articles/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"publish_id": r.PathValue("id"),
			"status":     "published",
			"article_id": "art-9",
		})
	})

	return mux
}

func newFake(t *testing.T, f *fakePlatform) *platform.Client {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	return platform.NewClient(platform.Config{
		AppID:     "app-1",
		AppSecret: "shh",
		APIBase:   srv.URL,
	})
}

func TestPublishDraftReusesCachedToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := &fakePlatform{expiresIn: 3600}
	client := newFake(t, fake)

	receipt, err := client.PublishDraft(ctx, platform.Article{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	require.Equal(t, "pub-123", receipt.PublishID)

	_, err = client.PublishDraft(ctx, platform.Article{Title: "Again", Content: "More"})
	require.NoError(t, err)

	require.EqualValues(t, 1, fake.tokenCalls.Load())
	require.EqualValues(t, 2, fake.publishCalls.Load())
}

func TestPublishDraftRefetchesExpiringToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Token expires inside the refresh slack, so every call refetches.
	fake := &fakePlatform{expiresIn: 1}
	client := newFake(t, fake)

	_, err := client.PublishDraft(ctx, platform.Article{Title: "a", Content: "b"})
	require.NoError(t, err)
	_, err = client.PublishDraft(ctx, platform.Article{Title: "c", Content: "d"})
	require.NoError(t, err)

	require.EqualValues(t, 2, fake.tokenCalls.Load())
}

func TestPublishStatus(t *testing.T) {
	t.Parallel()

	client := newFake(t, &fakePlatform{expiresIn: 3600})
	state, err := client.PublishStatus(context.Background(), "pub-123")
	require.NoError(t, err)
	require.Equal(t, "pub-123", state.PublishID)
	require.Equal(t, "published", state.Status)
	require.Equal(t, "art-9", state.ArticleID)
}

func TestPublishDraftSurfacesAPIError(t *testing.T) {
	t.Parallel()

	fake := &fakePlatform{expiresIn: 3600, failPublish: http.StatusUnprocessableEntity}
	client := newFake(t, fake)

	_, err := client.PublishDraft(context.Background(), platform.Article{Title: "x"})
	require.Error(t, err)

	var apiErr *platform.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "draft_rejected", apiErr.Code)
}

func TestBadCredentialsSurfaceFromTokenFetch(t *testing.T) {
	t.Parallel()

	fake := &fakePlatform{expiresIn: 3600}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client := platform.NewClient(platform.Config{AppID: "app-1", AppSecret: "wrong", APIBase: srv.URL})
	_, err := client.PublishDraft(context.Background(), platform.Article{Title: "x"})

	var apiErr *platform.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "bad_credentials", apiErr.Code)
}
