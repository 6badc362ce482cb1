package cryptox_test

import (
	"strings"
	"testing"

	"github.com/inkpress/draftgate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.HashSecret("s3cret-value")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifySecret("s3cret-value", hash))
	require.ErrorIs(t, cryptox.VerifySecret("wrong", hash), cryptox.ErrSecretMismatch)
}

func TestHashSecretSaltsEachCall(t *testing.T) {
	t.Parallel()

	a, err := cryptox.HashSecret("same-input")
	require.NoError(t, err)
	b, err := cryptox.HashSecret("same-input")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifySecretRejectsMalformedHashes(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaA",
	} {
		err := cryptox.VerifySecret("anything", bad)
		require.Error(t, err)
		require.NotErrorIs(t, err, cryptox.ErrSecretMismatch)
	}
}
