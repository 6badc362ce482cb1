package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/internal/auth/store"
	"github.com/inkpress/draftgate/pkg/cryptox"
	"github.com/inkpress/draftgate/pkg/jwtx"
	"github.com/inkpress/draftgate/pkg/slogx"
)

// Default token lifetimes.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// TokenConfig tunes the token service.
type TokenConfig struct {
	// Issuer is the value of the "iss" claim in minted access tokens.
	Issuer string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// StrictResource rejects token issuance without an explicit resource
	// indicator (RFC 8707) with invalid_target.
	StrictResource bool
}

// TokenService owns the token lifecycle: issuing pairs for redeemed
// authorization codes, rotating access tokens under a refresh grant,
// verifying and revoking. The token store is the sole authority on
// validity; the JWT shape of access tokens is a convenience for resource
// servers, not a substitute for it.
type TokenService struct {
	tokens store.Tokens
	signer *jwtx.Signer
	cfg    TokenConfig
	now    func() time.Time

	// refreshLocks serialises refresh grants per refresh token value so a
	// family never holds more than one live access token.
	refreshLocks *keyedMutex
}

func NewTokenService(tokens store.Tokens, signer *jwtx.Signer, cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		tokens:       tokens,
		signer:       signer,
		cfg:          cfg,
		now:          time.Now,
		refreshLocks: newKeyedMutex(),
	}
}

// WithClock overrides the service clock for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Exchange turns a redeemed authorization code into a fresh token pair.
// The caller has already authenticated the client and burned the code.
func (s *TokenService) Exchange(ctx context.Context, client domain.Client, code domain.AuthorizationCode, resource string) (domain.TokenPair, error) {
	if !client.HasGrantType("authorization_code") {
		return domain.TokenPair{}, ErrUnsupportedGrantType
	}
	if code.ClientID != client.ID {
		return domain.TokenPair{}, ErrInvalidGrant
	}

	effective, err := s.resolveResource(code.Resource, resource)
	if err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, client.ID, code.Scopes, effective)
	if err != nil {
		return domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("token pair issued",
		"client_id", client.ID,
		"grant_type", "authorization_code",
		"scopes", code.Scopes,
		"refresh_fp", cryptox.FingerprintToken(pair.RefreshToken.Value),
	)
	return pair, nil
}

// Refresh rotates the access token of a family while keeping the refresh
// token's identity. The old access token is retired and the new one
// installed in a single store mutation, so the one-live-access-token
// invariant holds even across a crash between requests.
func (s *TokenService) Refresh(ctx context.Context, client domain.Client, refreshValue string, requestedScopes []string, resource string) (domain.TokenPair, error) {
	if !client.HasGrantType("refresh_token") {
		return domain.TokenPair{}, ErrUnsupportedGrantType
	}

	unlock := s.refreshLocks.Lock(refreshValue)
	defer unlock()

	refresh, err := s.tokens.GetToken(ctx, refreshValue)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidGrant
		}
		return domain.TokenPair{}, fmt.Errorf("load refresh token: %w", err)
	}
	if refresh.Type != domain.TokenTypeRefresh || refresh.ClientID != client.ID {
		return domain.TokenPair{}, ErrInvalidGrant
	}

	now := s.now()
	if refresh.Expired(now) {
		// Lazy expiry: drop the whole family on the way out.
		deletes := []string{refreshValue}
		if refresh.Linked != "" {
			deletes = append(deletes, refresh.Linked)
		}
		if derr := s.tokens.ReplaceTokens(ctx, deletes, nil); derr != nil {
			slogx.FromContext(ctx).Warn("drop expired refresh token", "err", derr)
		}
		return domain.TokenPair{}, ErrInvalidGrant
	}

	scopes := refresh.Scopes
	if len(requestedScopes) > 0 {
		for _, sc := range requestedScopes {
			if !slices.Contains(refresh.Scopes, sc) {
				return domain.TokenPair{}, ErrInvalidScope
			}
		}
		scopes = requestedScopes
	}

	effective, err := s.resolveResource(refresh.Resource, resource)
	if err != nil {
		return domain.TokenPair{}, err
	}

	accessValue, accessExpiry, err := s.mintAccessJWT(client.ID, scopes, effective, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	newAccess := domain.Token{
		Value:     accessValue,
		Type:      domain.TokenTypeAccess,
		ClientID:  client.ID,
		Scopes:    scopes,
		ExpiresAt: accessExpiry,
		Resource:  effective,
		Linked:    refreshValue,
	}
	updatedRefresh := refresh
	updatedRefresh.Linked = accessValue

	deletes := []string{}
	if refresh.Linked != "" {
		deletes = append(deletes, refresh.Linked)
	}
	if err := s.tokens.ReplaceTokens(ctx, deletes, []domain.Token{newAccess, updatedRefresh}); err != nil {
		return domain.TokenPair{}, fmt.Errorf("rotate access token: %w", err)
	}

	slogx.FromContext(ctx).Info("access token rotated",
		"client_id", client.ID,
		"grant_type", "refresh_token",
		"scopes", scopes,
		"refresh_fp", cryptox.FingerprintToken(refreshValue),
	)
	return domain.TokenPair{AccessToken: newAccess, RefreshToken: updatedRefresh}, nil
}

// Verify checks an access token: well-formed signature, present in the
// store, access-typed and unexpired. Expired tokens are deleted on sight.
func (s *TokenService) Verify(ctx context.Context, value string) (domain.TokenInfo, error) {
	if _, err := s.signer.Verify(value); err != nil {
		return domain.TokenInfo{}, ErrInvalidToken
	}

	tok, err := s.tokens.GetToken(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenInfo{}, ErrInvalidToken
		}
		return domain.TokenInfo{}, fmt.Errorf("load access token: %w", err)
	}
	if tok.Type != domain.TokenTypeAccess {
		return domain.TokenInfo{}, ErrInvalidToken
	}

	if tok.Expired(s.now()) {
		if derr := s.tokens.ReplaceTokens(ctx, []string{value}, nil); derr != nil {
			slogx.FromContext(ctx).Warn("drop expired access token", "err", derr)
		}
		return domain.TokenInfo{}, ErrTokenExpired
	}

	return domain.TokenInfo{
		ClientID:  tok.ClientID,
		Scopes:    tok.Scopes,
		ExpiresAt: tok.ExpiresAt,
		Resource:  tok.Resource,
	}, nil
}

// Introspect reports whether a token of either type is live, returning the
// stored record when it is. Expired tokens are swept on the way out. It
// never fails: storage trouble reads as inactive.
func (s *TokenService) Introspect(ctx context.Context, value string) (domain.Token, bool) {
	tok, err := s.tokens.GetToken(ctx, value)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("introspection store read failed", "err", err)
		}
		return domain.Token{}, false
	}

	if tok.Expired(s.now()) {
		if derr := s.tokens.ReplaceTokens(ctx, []string{value}, nil); derr != nil {
			slogx.FromContext(ctx).Warn("drop expired token", "err", derr)
		}
		return domain.Token{}, false
	}
	return tok, true
}

// Revoke deletes a token and its linked partner, cascading across the
// family. Unknown tokens and tokens owned by another client are silently
// ignored, so revocation is idempotent and reveals nothing.
func (s *TokenService) Revoke(ctx context.Context, client domain.Client, value string) error {
	tok, err := s.tokens.GetToken(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load token: %w", err)
	}
	if tok.ClientID != client.ID {
		return nil
	}

	deletes := []string{value}
	if tok.Linked != "" {
		deletes = append(deletes, tok.Linked)
	}
	if err := s.tokens.ReplaceTokens(ctx, deletes, nil); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	slogx.FromContext(ctx).Info("token revoked",
		"client_id", client.ID,
		"token_type", string(tok.Type),
		"token_fp", cryptox.FingerprintToken(value),
	)
	return nil
}

// resolveResource reconciles the resource bound at grant time with one
// supplied at the token endpoint (RFC 8707 allows both).
func (s *TokenService) resolveResource(granted, requested string) (string, error) {
	if requested != "" && granted != "" && requested != granted {
		return "", ErrInvalidTarget
	}
	effective := granted
	if requested != "" {
		effective = requested
	}
	if s.cfg.StrictResource && effective == "" {
		return "", ErrInvalidTarget
	}
	return effective, nil
}

// issuePair mints a linked access/refresh pair and installs it in one store
// mutation.
func (s *TokenService) issuePair(ctx context.Context, clientID string, scopes []string, resource string) (domain.TokenPair, error) {
	now := s.now()

	refreshValue, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}

	accessValue, accessExpiry, err := s.mintAccessJWT(clientID, scopes, resource, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access := domain.Token{
		Value:     accessValue,
		Type:      domain.TokenTypeAccess,
		ClientID:  clientID,
		Scopes:    scopes,
		ExpiresAt: accessExpiry,
		Resource:  resource,
		Linked:    refreshValue,
	}
	refresh := domain.Token{
		Value:     refreshValue,
		Type:      domain.TokenTypeRefresh,
		ClientID:  clientID,
		Scopes:    scopes,
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
		Resource:  resource,
		Linked:    accessValue,
	}

	if err := s.tokens.ReplaceTokens(ctx, nil, []domain.Token{access, refresh}); err != nil {
		return domain.TokenPair{}, fmt.Errorf("persist token pair: %w", err)
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) mintAccessJWT(clientID string, scopes []string, resource string, now time.Time) (string, time.Time, error) {
	claims := jwtx.NewAccessClaims(clientID, scopes, resource, s.cfg.AccessTTL, s.cfg.Issuer, now)
	signed, err := s.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, now.Add(s.cfg.AccessTTL), nil
}

// AccessTTL exposes the configured access token lifetime, used by the token
// endpoint for the expires_in field.
func (s *TokenService) AccessTTL() time.Duration { return s.cfg.AccessTTL }
