package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpress/draftgate/internal/auth/service"
)

func TestCodeIssueAndRedeem(t *testing.T) {
	t.Parallel()

	issuer := service.NewCodeIssuer(0)
	code, err := issuer.Issue(service.IssueParams{
		ClientID:    "client_01",
		Scopes:      []string{"articles:publish"},
		RedirectURI: "https://cms.example.com/callback",
		State:       "xyz",
	})
	require.NoError(t, err)
	require.NotEmpty(t, code.Code)
	require.True(t, code.ExpiresAt.After(code.CreatedAt))

	got, err := issuer.Redeem(code.Code)
	require.NoError(t, err)
	require.Equal(t, "client_01", got.ClientID)
	require.Equal(t, "xyz", got.State)

	// Redeem does not consume; the record is still there.
	_, err = issuer.Redeem(code.Code)
	require.NoError(t, err)
}

func TestCodeIsSingleUseAfterConsume(t *testing.T) {
	t.Parallel()

	issuer := service.NewCodeIssuer(0)
	code, err := issuer.Issue(service.IssueParams{ClientID: "c"})
	require.NoError(t, err)

	_, err = issuer.Redeem(code.Code)
	require.NoError(t, err)

	issuer.Consume(code.Code)

	_, err = issuer.Redeem(code.Code)
	require.ErrorIs(t, err, service.ErrInvalidGrant)

	// Consuming again is harmless.
	issuer.Consume(code.Code)
}

func TestCodeExpiresLazily(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := func() time.Time { return now }
	issuer := service.NewCodeIssuer(10 * time.Minute).WithClock(clock)

	code, err := issuer.Issue(service.IssueParams{ClientID: "c"})
	require.NoError(t, err)

	// Just inside the window.
	now = now.Add(9 * time.Minute)
	_, err = issuer.Redeem(code.Code)
	require.NoError(t, err)

	// Past it: deleted on read.
	now = now.Add(2 * time.Minute)
	_, err = issuer.Redeem(code.Code)
	require.ErrorIs(t, err, service.ErrInvalidGrant)

	// And it stays gone even if time rewinds.
	now = now.Add(-5 * time.Minute)
	_, err = issuer.Redeem(code.Code)
	require.ErrorIs(t, err, service.ErrInvalidGrant)
}

func TestCodeRedeemUnknown(t *testing.T) {
	t.Parallel()

	issuer := service.NewCodeIssuer(0)
	_, err := issuer.Redeem("never-issued")
	require.ErrorIs(t, err, service.ErrInvalidGrant)
}
