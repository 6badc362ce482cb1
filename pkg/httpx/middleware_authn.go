package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/inkpress/draftgate/pkg/slogx"
)

// TokenInfo is the result of verifying a bearer token against the token
// store.
type TokenInfo struct {
	ClientID  string
	Scopes    []string
	ExpiresAt time.Time
	Resource  string
}

// ErrTokenExpired lets verifiers signal expiry so the bearer challenge can
// say so; any other verification error reads as an invalid token.
var ErrTokenExpired = errors.New("httpx: token expired")

// VerifyFunc checks a bearer token value and returns its metadata. The
// token store is the authority here, not the token's own signature.
type VerifyFunc func(ctx context.Context, token string) (TokenInfo, error)

// AuthnMiddleware enforces a valid bearer token on the wrapped handler and
// injects the verification result into the request context.
func AuthnMiddleware(verify VerifyFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			info, err := verify(ctx, raw)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					writeBearerError(w, "token expired")
					return
				}
				log.Warn("bearer token verification failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, info)))
		})
	}
}

func contextWithAuth(ctx context.Context, info TokenInfo) context.Context {
	ctx = context.WithValue(ctx, CtxKeyClientID, info.ClientID)
	ctx = context.WithValue(ctx, CtxKeyScopes, info.Scopes)
	ctx = context.WithValue(ctx, CtxKeyToken, info)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
