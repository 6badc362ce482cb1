package domain

import "time"

// AuthorizationCode is a single-use grant binding a client to the parameters
// of its authorization request. Codes live in memory only; an in-flight
// authorize→exchange round trip does not survive a restart.
type AuthorizationCode struct {
	Code                string
	ClientID            string
	Scopes              []string
	Resource            string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
	State               string
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

// Expired reports whether the code's exchange window has closed.
func (c AuthorizationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
