package domain

import "time"

// TokenType tags a stored token as the access or refresh half of a family.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token is a stored access or refresh token. An access token and its refresh
// token are mutually linked via Linked; at most one live access token is
// linked to a given refresh token at any time.
type Token struct {
	Value     string    `json:"-"` // map key on disk, not repeated in the record
	Type      TokenType `json:"type"`
	ClientID  string    `json:"client_id"`
	Scopes    []string  `json:"scopes,omitempty"`
	ExpiresAt time.Time `json:"-"` // persisted as epoch millis, see store driver
	Resource  string    `json:"resource,omitempty"`
	Linked    string    `json:"linked_token,omitempty"`
}

// Expired reports whether the token is past its expiry.
func (t Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TokenPair is what the token endpoint hands back: a fresh access token and
// the refresh token of the same family.
type TokenPair struct {
	AccessToken  Token
	RefreshToken Token
}

// TokenInfo is the result of verifying an access token.
type TokenInfo struct {
	ClientID  string
	Scopes    []string
	ExpiresAt time.Time
	Resource  string
}
