package httpapi

import (
	"net/http"

	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/httpx"
	"github.com/inkpress/draftgate/pkg/jwtx"
)

// handleDiscovery serves the RFC 8414 authorization server metadata.
//
//	@Summary		Authorization server metadata
//	@Tags			discovery
//	@Produce		json
//	@Success		200	{object}	authsdk.ServerMetadata
//	@Router			/.well-known/oauth-authorization-server [get]
func (h *Handler) handleDiscovery(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.ServerMetadata{
		Issuer:                            h.issuer,
		AuthorizationEndpoint:             h.issuer + "/authorize",
		TokenEndpoint:                     h.issuer + "/token",
		RegistrationEndpoint:              h.issuer + "/register",
		IntrospectionEndpoint:             h.issuer + "/oauth/introspect",
		RevocationEndpoint:                h.issuer + "/oauth/revoke",
		JWKSURI:                           h.issuer + "/.well-known/jwks.json",
		ScopesSupported:                   []string{"articles:publish", "articles:read"},
		ResponseTypesSupported:            []string{"code"},
		GrantTypesSupported:               []string{"authorization_code", "refresh_token"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_post", "none"},
		CodeChallengeMethodsSupported:     []string{"S256", "plain"},
	})
}

// handleJWKS serves the public signing keys for access token verification.
//
//	@Summary		JSON Web Key Set
//	@Tags			discovery
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse
//	@Router			/.well-known/jwks.json [get]
func (h *Handler) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.JWKSResponse{
		Keys: []jwtx.JWK{h.signer.PublicJWK()},
	})
}
