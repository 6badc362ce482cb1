package service_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/internal/auth/service"
	"github.com/inkpress/draftgate/internal/auth/store"
	"github.com/inkpress/draftgate/internal/auth/store/drivers/file"
	"github.com/inkpress/draftgate/pkg/jwtx"
)

type tokenEnv struct {
	svc    *service.TokenService
	tokens store.Tokens
	signer *jwtx.Signer
	now    time.Time
}

func newTokenEnv(t *testing.T, cfg service.TokenConfig) *tokenEnv {
	t.Helper()

	dir := t.TempDir()
	s, err := file.New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	signer, err := jwtx.LoadOrCreateSigner(filepath.Join(dir, "signing.key"))
	require.NoError(t, err)

	if cfg.Issuer == "" {
		cfg.Issuer = "https://auth.test"
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}

	env := &tokenEnv{tokens: s.Tokens(), signer: signer, now: time.Now()}
	env.svc = service.NewTokenService(s.Tokens(), signer, cfg).
		WithClock(func() time.Time { return env.now })
	return env
}

func grantClient() domain.Client {
	return domain.Client{
		ID:         "01K3ZJ3M8RV9Y1T4W6XBQH2DCF",
		GrantTypes: []string{"authorization_code", "refresh_token"},
	}
}

func grantCode(client domain.Client) domain.AuthorizationCode {
	return domain.AuthorizationCode{
		Code:     "test-code",
		ClientID: client.ID,
		Scopes:   []string{"articles:publish", "articles:read"},
	}
}

func TestExchangeIssuesLinkedPair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	require.Equal(t, domain.TokenTypeAccess, pair.AccessToken.Type)
	require.Equal(t, domain.TokenTypeRefresh, pair.RefreshToken.Type)
	require.Equal(t, pair.RefreshToken.Value, pair.AccessToken.Linked)
	require.Equal(t, pair.AccessToken.Value, pair.RefreshToken.Linked)

	info, err := env.svc.Verify(ctx, pair.AccessToken.Value)
	require.NoError(t, err)
	require.Equal(t, client.ID, info.ClientID)
	require.Equal(t, []string{"articles:publish", "articles:read"}, info.Scopes)

	stored, err := env.tokens.GetToken(ctx, pair.RefreshToken.Value)
	require.NoError(t, err)
	require.Equal(t, pair.AccessToken.Value, stored.Linked)

	// Access tokens are signed JWTs carrying the client and scopes.
	claims, err := env.signer.Verify(pair.AccessToken.Value)
	require.NoError(t, err)
	require.Equal(t, client.ID, claims.Subject)
	require.Equal(t, []string{"articles:publish", "articles:read"}, claims.Scopes)
}

func TestExchangeRejectsForeignCode(t *testing.T) {
	t.Parallel()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	code := grantCode(client)
	code.ClientID = "someone-else"

	_, err := env.svc.Exchange(context.Background(), client, code, "")
	require.ErrorIs(t, err, service.ErrInvalidGrant)
}

func TestExchangeRequiresGrantType(t *testing.T) {
	t.Parallel()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()
	client.GrantTypes = []string{"refresh_token"}

	_, err := env.svc.Exchange(context.Background(), client, grantCode(client), "")
	require.ErrorIs(t, err, service.ErrUnsupportedGrantType)
}

func TestExchangeResourceHandling(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	client := grantClient()

	t.Run("mismatch is invalid_target", func(t *testing.T) {
		env := newTokenEnv(t, service.TokenConfig{})
		code := grantCode(client)
		code.Resource = "https://platform.example.com"

		_, err := env.svc.Exchange(ctx, client, code, "https://other.example.com")
		require.ErrorIs(t, err, service.ErrInvalidTarget)
	})

	t.Run("grant resource carries through", func(t *testing.T) {
		env := newTokenEnv(t, service.TokenConfig{})
		code := grantCode(client)
		code.Resource = "https://platform.example.com"

		pair, err := env.svc.Exchange(ctx, client, code, "")
		require.NoError(t, err)
		require.Equal(t, "https://platform.example.com", pair.AccessToken.Resource)
	})

	t.Run("strict mode requires a resource", func(t *testing.T) {
		env := newTokenEnv(t, service.TokenConfig{StrictResource: true})

		_, err := env.svc.Exchange(ctx, client, grantCode(client), "")
		require.ErrorIs(t, err, service.ErrInvalidTarget)

		_, err = env.svc.Exchange(ctx, client, grantCode(client), "https://platform.example.com")
		require.NoError(t, err)
	})
}

func TestRefreshPreservesRefreshIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	first, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	second, err := env.svc.Refresh(ctx, client, first.RefreshToken.Value, nil, "")
	require.NoError(t, err)

	// The refresh token keeps its identity; only the access token rotates.
	require.Equal(t, first.RefreshToken.Value, second.RefreshToken.Value)
	require.NotEqual(t, first.AccessToken.Value, second.AccessToken.Value)
	require.Equal(t, second.AccessToken.Value, second.RefreshToken.Linked)

	// The retired access token is gone.
	_, err = env.svc.Verify(ctx, first.AccessToken.Value)
	require.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = env.svc.Verify(ctx, second.AccessToken.Value)
	require.NoError(t, err)
}

func TestRefreshScopeNarrowing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	narrowed, err := env.svc.Refresh(ctx, client, pair.RefreshToken.Value, []string{"articles:read"}, "")
	require.NoError(t, err)
	require.Equal(t, []string{"articles:read"}, narrowed.AccessToken.Scopes)

	// The refresh token's own grant is untouched by narrowing.
	require.Equal(t, []string{"articles:publish", "articles:read"}, narrowed.RefreshToken.Scopes)

	_, err = env.svc.Refresh(ctx, client, pair.RefreshToken.Value, []string{"admin:everything"}, "")
	require.ErrorIs(t, err, service.ErrInvalidScope)
}

func TestRefreshExpiredDropsFamily(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{RefreshTTL: 24 * time.Hour})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	env.now = env.now.Add(25 * time.Hour)

	_, err = env.svc.Refresh(ctx, client, pair.RefreshToken.Value, nil, "")
	require.ErrorIs(t, err, service.ErrInvalidGrant)

	_, err = env.tokens.GetToken(ctx, pair.RefreshToken.Value)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.tokens.GetToken(ctx, pair.AccessToken.Value)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRefreshRejectsWrongOwnerAndUnknown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	other := grantClient()
	other.ID = "01K3ZJ3M8RV9Y1T4W6XBQH2XXX"
	_, err = env.svc.Refresh(ctx, other, pair.RefreshToken.Value, nil, "")
	require.ErrorIs(t, err, service.ErrInvalidGrant)

	_, err = env.svc.Refresh(ctx, client, "never-issued", nil, "")
	require.ErrorIs(t, err, service.ErrInvalidGrant)

	// An access token value is not a refresh token.
	_, err = env.svc.Refresh(ctx, client, pair.AccessToken.Value, nil, "")
	require.ErrorIs(t, err, service.ErrInvalidGrant)
}

func TestVerifyExpiredAccessTokenIsDeleted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{AccessTTL: time.Hour})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	env.now = env.now.Add(2 * time.Hour)

	_, err = env.svc.Verify(ctx, pair.AccessToken.Value)
	require.ErrorIs(t, err, service.ErrTokenExpired)

	// Deleted on first sight; subsequent verifies see an unknown token.
	_, err = env.tokens.GetToken(ctx, pair.AccessToken.Value)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.svc.Verify(ctx, pair.AccessToken.Value)
	require.ErrorIs(t, err, service.ErrInvalidToken)

	// The refresh token is still live and usable.
	refreshed, err := env.svc.Refresh(ctx, client, pair.RefreshToken.Value, nil, "")
	require.NoError(t, err)
	_, err = env.svc.Verify(ctx, refreshed.AccessToken.Value)
	require.NoError(t, err)
}

func TestVerifyRejectsForgedAndOpaqueValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	// A refresh token value is opaque, not a signed access token.
	_, err = env.svc.Verify(ctx, pair.RefreshToken.Value)
	require.ErrorIs(t, err, service.ErrInvalidToken)

	// A structurally valid JWT from a foreign key is rejected too.
	_, foreignKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	foreign, err := jwtx.NewSigner(foreignKey)
	require.NoError(t, err)
	forged, err := foreign.Sign(jwtx.NewAccessClaims(client.ID, nil, "", time.Hour, "https://auth.test", time.Now()))
	require.NoError(t, err)

	_, err = env.svc.Verify(ctx, forged)
	require.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestRevokeCascadesAndIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	// Revoking the refresh token takes the linked access token with it.
	require.NoError(t, env.svc.Revoke(ctx, client, pair.RefreshToken.Value))

	_, err = env.svc.Verify(ctx, pair.AccessToken.Value)
	require.ErrorIs(t, err, service.ErrInvalidToken)
	_, err = env.tokens.GetToken(ctx, pair.RefreshToken.Value)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Revoking again, or revoking garbage, stays silent.
	require.NoError(t, env.svc.Revoke(ctx, client, pair.RefreshToken.Value))
	require.NoError(t, env.svc.Revoke(ctx, client, "never-issued"))
}

func TestRevokeIgnoresForeignTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	other := grantClient()
	other.ID = "01K3ZJ3M8RV9Y1T4W6XBQH2XXX"
	require.NoError(t, env.svc.Revoke(ctx, other, pair.AccessToken.Value))

	// Still live: another client cannot revoke what it does not own.
	_, err = env.svc.Verify(ctx, pair.AccessToken.Value)
	require.NoError(t, err)
}

func TestIntrospect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{AccessTTL: time.Hour})
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	tok, active := env.svc.Introspect(ctx, pair.AccessToken.Value)
	require.True(t, active)
	require.Equal(t, domain.TokenTypeAccess, tok.Type)
	require.Equal(t, client.ID, tok.ClientID)

	tok, active = env.svc.Introspect(ctx, pair.RefreshToken.Value)
	require.True(t, active)
	require.Equal(t, domain.TokenTypeRefresh, tok.Type)

	_, active = env.svc.Introspect(ctx, "never-issued")
	require.False(t, active)

	env.now = env.now.Add(2 * time.Hour)
	_, active = env.svc.Introspect(ctx, pair.AccessToken.Value)
	require.False(t, active)

	// Lazily swept on that read.
	_, err = env.tokens.GetToken(ctx, pair.AccessToken.Value)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestConcurrentRefreshKeepsOneLiveAccessToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTokenEnv(t, service.TokenConfig{})
	env.svc.WithClock(time.Now)
	client := grantClient()

	pair, err := env.svc.Exchange(ctx, client, grantCode(client), "")
	require.NoError(t, err)

	const workers = 16
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := env.svc.Refresh(ctx, client, pair.RefreshToken.Value, nil, "")
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	// However the refreshes interleaved, the family ends up with exactly
	// one access token, correctly linked to the surviving refresh token.
	tokens, err := env.tokens.ListTokens(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, 2)

	var access, refresh domain.Token
	for _, tok := range tokens {
		switch tok.Type {
		case domain.TokenTypeAccess:
			access = tok
		case domain.TokenTypeRefresh:
			refresh = tok
		}
	}
	require.Equal(t, pair.RefreshToken.Value, refresh.Value)
	require.Equal(t, access.Value, refresh.Linked)
	require.Equal(t, refresh.Value, access.Linked)
}
