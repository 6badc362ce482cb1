package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/pkg/cryptox"
)

// DefaultCodeTTL is the exchange window for authorization codes.
const DefaultCodeTTL = 10 * time.Minute

// CodeIssuer mints and redeems single-use authorization codes. Codes live
// in memory only; expiry is enforced lazily when a code is read, there is
// no background sweeper.
type CodeIssuer struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	codes map[string]domain.AuthorizationCode
}

func NewCodeIssuer(ttl time.Duration) *CodeIssuer {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &CodeIssuer{
		ttl:   ttl,
		now:   time.Now,
		codes: make(map[string]domain.AuthorizationCode),
	}
}

// WithClock overrides the issuer's clock. Tests use this to step time past
// a code's expiry without sleeping.
func (c *CodeIssuer) WithClock(now func() time.Time) *CodeIssuer {
	c.now = now
	return c
}

// IssueParams binds a code to the authorization request that produced it.
type IssueParams struct {
	ClientID            string
	Scopes              []string
	Resource            string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
	State               string
}

// Issue mints a fresh 256-bit code bound to the request parameters.
func (c *CodeIssuer) Issue(p IssueParams) (domain.AuthorizationCode, error) {
	value, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.AuthorizationCode{}, fmt.Errorf("generate authorization code: %w", err)
	}

	now := c.now()
	code := domain.AuthorizationCode{
		Code:                value,
		ClientID:            p.ClientID,
		Scopes:              p.Scopes,
		Resource:            p.Resource,
		RedirectURI:         p.RedirectURI,
		CodeChallenge:       p.CodeChallenge,
		CodeChallengeMethod: p.CodeChallengeMethod,
		State:               p.State,
		CreatedAt:           now,
		ExpiresAt:           now.Add(c.ttl),
	}

	c.mu.Lock()
	c.codes[value] = code
	c.mu.Unlock()

	return code, nil
}

// Redeem looks up a code without consuming it, so the caller can run its
// checks (client binding, redirect URI, PKCE) against the stored record.
// An expired code is deleted on sight and reported as an invalid grant.
func (c *CodeIssuer) Redeem(value string) (domain.AuthorizationCode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, ok := c.codes[value]
	if !ok {
		return domain.AuthorizationCode{}, ErrInvalidGrant
	}
	if code.Expired(c.now()) {
		delete(c.codes, value)
		return domain.AuthorizationCode{}, ErrInvalidGrant
	}
	return code, nil
}

// Consume removes a code. Consuming an unknown code is a no-op, so a code
// can be burned regardless of how the exchange attempt went.
func (c *CodeIssuer) Consume(value string) {
	c.mu.Lock()
	delete(c.codes, value)
	c.mu.Unlock()
}
