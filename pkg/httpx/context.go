package httpx

import "context"

type ctxKey string

const (
	CtxKeyClientID ctxKey = "client_id"
	CtxKeyScopes   ctxKey = "scopes"
	CtxKeyToken    ctxKey = "token_info"
)

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}

// ClientIDFromCtx returns the authenticated client ID, or "" when the request
// did not pass through AuthnMiddleware.
func ClientIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyClientID).(string); ok {
		return v
	}
	return ""
}

// TokenInfoFromCtx returns the full verification result for the request's
// bearer token, if any.
func TokenInfoFromCtx(ctx context.Context) (TokenInfo, bool) {
	v, ok := ctx.Value(CtxKeyToken).(TokenInfo)
	return v, ok
}
