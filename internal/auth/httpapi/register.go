package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/inkpress/draftgate/internal/auth/service"
	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/httpx"
)

// handleRegister implements dynamic client registration (RFC 7591 subset).
//
//	@Summary		Register an OAuth2 client
//	@Description	Registers a client and returns its credentials. The client_secret is returned exactly once.
//	@Tags			oauth2
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterClientRequest	true	"Client metadata"
//	@Success		200		{object}	authsdk.RegisterClientResponse
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Router			/register [post]
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.NewOAuth2Error(
			http.StatusBadRequest,
			"invalid_client_metadata",
			"request body is not valid JSON",
		).WriteError(w)
		return
	}

	client, secret, err := h.clients.Register(r.Context(), service.RegisterParams{
		Name:          req.ClientName,
		RedirectURIs:  req.RedirectURIs,
		GrantTypes:    req.GrantTypes,
		ResponseTypes: req.ResponseTypes,
		Scopes:        httpx.ParseSpaceDelimitedFields(req.Scope),
		AuthMethod:    req.TokenEndpointAuthMethod,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			code := "invalid_client_metadata"
			if ve.Field == "redirect_uris" {
				code = "invalid_redirect_uri"
			}
			authsdk.NewOAuth2Error(http.StatusBadRequest, code, ve.Error()).WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RegisterClientResponse{
		ClientID:                client.ID,
		ClientSecret:            secret,
		ClientName:              client.Name,
		RedirectURIs:            client.RedirectURIs,
		GrantTypes:              client.GrantTypes,
		ResponseTypes:           client.ResponseTypes,
		Scope:                   strings.Join(client.Scopes, " "),
		TokenEndpointAuthMethod: client.AuthMethod,
		ClientIDIssuedAt:        client.CreatedAt.Unix(),
	})
}
