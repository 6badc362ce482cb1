package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims embedded in access tokens. The token store
// stays authoritative for validity; these claims exist so resource servers
// can cheaply reject garbage before asking the introspection endpoint.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Scopes granted to the token, e.g. ["articles:publish"].
	Scopes []string `json:"scp,omitempty"`
}

// NewAccessClaims builds minimally-correct access token claims. The subject
// is the owning client ID and the audience is the resource the token is
// scoped to (when one was requested).
func NewAccessClaims(
	clientID string,
	scopes []string,
	resource string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) AccessClaims {
	var aud jwt.ClaimStrings
	if resource != "" {
		aud = jwt.ClaimStrings{resource}
	}

	return AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Scopes: scopes,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
