package httpapi

import (
	"context"
	"errors"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/inkpress/draftgate/api/docs" // swagger docs
	"github.com/inkpress/draftgate/internal/auth/service"
	"github.com/inkpress/draftgate/pkg/httpx"
)

// Routes builds the full route table with per-endpoint rate limits. The
// request logging middleware is applied by the application around the whole
// mux, not here.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Client registration and the OAuth2 grant endpoints.
	mux.Handle("POST /register", httpx.Chain(
		http.HandlerFunc(h.handleRegister),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
	mux.Handle("GET /authorize", httpx.Chain(
		http.HandlerFunc(h.handleAuthorize),
		httpx.RateLimitByIP(httpx.LenientLimit),
	))
	mux.Handle("POST /token", httpx.Chain(
		http.HandlerFunc(h.handleToken),
		httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "client_id"),
	))

	// Token lifecycle maintenance.
	mux.Handle("POST /oauth/introspect", httpx.Chain(
		http.HandlerFunc(h.handleIntrospect),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	))
	mux.Handle("POST /oauth/revoke", httpx.Chain(
		http.HandlerFunc(h.handleRevoke),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	))

	// Public documents.
	mux.Handle("GET /.well-known/oauth-authorization-server", httpx.Chain(
		http.HandlerFunc(h.handleDiscovery),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))
	mux.Handle("GET /.well-known/jwks.json", httpx.Chain(
		http.HandlerFunc(h.handleJWKS),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))

	// Protected article surface. Authentication runs before the client
	// keyed rate limit so the limiter can group by client ID.
	mux.Handle("POST /v1/articles", httpx.Chain(
		http.HandlerFunc(h.handlePublishArticle),
		httpx.AuthnMiddleware(h.verifyBearer),
		httpx.RateLimitByClient(httpx.ModerateLimit),
		httpx.RequireAnyScope("articles:publish"),
	))
	mux.Handle("GET /v1/articles/{publish_id}", httpx.Chain(
		http.HandlerFunc(h.handlePublishStatus),
		httpx.AuthnMiddleware(h.verifyBearer),
		httpx.RateLimitByClient(httpx.ModerateLimit),
		httpx.RequireAnyScope("articles:read", "articles:publish"),
	))

	// Probes and docs.
	mux.HandleFunc("GET /livez", h.handleLivez)
	mux.HandleFunc("GET /readyz", h.handleReadyz)
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	return mux
}

// verifyBearer adapts the token service to the authn middleware contract.
func (h *Handler) verifyBearer(ctx context.Context, token string) (httpx.TokenInfo, error) {
	info, err := h.tokens.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			return httpx.TokenInfo{}, httpx.ErrTokenExpired
		}
		return httpx.TokenInfo{}, err
	}
	return httpx.TokenInfo{
		ClientID:  info.ClientID,
		Scopes:    info.Scopes,
		ExpiresAt: info.ExpiresAt,
		Resource:  info.Resource,
	}, nil
}
