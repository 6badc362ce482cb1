package domain

import (
	"slices"
	"time"
)

// Token endpoint authentication methods accepted at registration.
const (
	AuthMethodSecretPost = "client_secret_post"
	AuthMethodNone       = "none"
)

// Client is a registered OAuth2 client. Clients are immutable after
// registration and keyed by ID.
type Client struct {
	ID            string    `json:"client_id"`
	Name          string    `json:"client_name,omitempty"`
	SecretHash    string    `json:"client_secret_hash,omitempty"` // empty for public clients
	RedirectURIs  []string  `json:"redirect_uris"`                // ordered as registered
	GrantTypes    []string  `json:"grant_types"`
	ResponseTypes []string  `json:"response_types"`
	Scopes        []string  `json:"scopes,omitempty"`
	AuthMethod    string    `json:"token_endpoint_auth_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsPublic reports whether the client registered without a secret.
func (c Client) IsPublic() bool { return c.SecretHash == "" }

// HasRedirectURI checks for an exact match against the registered URIs.
func (c Client) HasRedirectURI(uri string) bool {
	return slices.Contains(c.RedirectURIs, uri)
}

// HasGrantType reports whether the client registered for the grant type.
func (c Client) HasGrantType(grantType string) bool {
	return slices.Contains(c.GrantTypes, grantType)
}
