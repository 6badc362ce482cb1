package jwtx_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/inkpress/draftgate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.LoadOrCreateSigner(filepath.Join(t.TempDir(), "signing.key"))
	require.NoError(t, err)

	now := time.Now()
	claims := jwtx.NewAccessClaims(
		"client-1",
		[]string{"articles:publish"},
		"https://auth.example/mcp",
		time.Hour,
		"https://auth.example",
		now,
	)

	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	parsed, err := signer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "client-1", parsed.Subject)
	require.Equal(t, []string{"articles:publish"}, parsed.Scopes)
	require.Equal(t, "https://auth.example", parsed.Issuer)
	require.WithinDuration(t, now.Add(time.Hour), parsed.ExpiresAt.Time, time.Second)
}

func TestVerifyRejectsForeignSignatures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, err := jwtx.LoadOrCreateSigner(filepath.Join(dir, "a.key"))
	require.NoError(t, err)
	b, err := jwtx.LoadOrCreateSigner(filepath.Join(dir, "b.key"))
	require.NoError(t, err)

	raw, err := a.Sign(jwtx.NewAccessClaims("c", nil, "", time.Hour, "iss", time.Now()))
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestLoadOrCreateSignerIsStableAcrossRestarts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "signing.key")

	first, err := jwtx.LoadOrCreateSigner(path)
	require.NoError(t, err)

	second, err := jwtx.LoadOrCreateSigner(path)
	require.NoError(t, err)
	require.Equal(t, first.KID(), second.KID())

	raw, err := first.Sign(jwtx.NewAccessClaims("c", nil, "", time.Hour, "iss", time.Now()))
	require.NoError(t, err)

	_, err = second.Verify(raw)
	require.NoError(t, err)
}

func TestPublicJWKShape(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.LoadOrCreateSigner(filepath.Join(t.TempDir(), "signing.key"))
	require.NoError(t, err)

	jwk := signer.PublicJWK()
	require.Equal(t, "OKP", jwk.Kty)
	require.Equal(t, "Ed25519", jwk.Crv)
	require.Equal(t, "EdDSA", jwk.Alg)
	require.Equal(t, signer.KID(), jwk.Kid)
	require.NotEmpty(t, jwk.X)
}
