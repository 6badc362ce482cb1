package httpapi

import (
	"net/http"
	"strings"

	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/httpx"
)

// handleIntrospect implements RFC 7662 token introspection. The endpoint
// never reports an error for a bad token: anything unknown, expired,
// revoked or malformed comes back as {"active": false}. Callers presenting
// client credentials must get them right, though; anything else would let
// a bad deploy silently read as "token dead".
//
//	@Summary		Token introspection
//	@Description	Reports whether a token is active, with its metadata when it is.
//	@Tags			oauth2
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			token			formData	string	true	"Token value to introspect"
//	@Param			client_id		formData	string	false	"Client ID"
//	@Param			client_secret	formData	string	false	"Client secret"
//	@Success		200	{object}	authsdk.IntrospectionResponse
//	@Router			/oauth/introspect [post]
func (h *Handler) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeInactive(w)
		return
	}

	// Credentials are optional, but when presented they must be valid.
	if clientID := r.PostFormValue("client_id"); clientID != "" {
		if _, err := h.clients.Authenticate(r.Context(), clientID, r.PostFormValue("client_secret")); err != nil {
			writeInactive(w)
			return
		}
	}

	value := r.PostFormValue("token")
	if value == "" {
		writeInactive(w)
		return
	}

	tok, active := h.tokens.Introspect(r.Context(), value)
	if !active {
		writeInactive(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.IntrospectionResponse{
		Active:   true,
		ClientID: tok.ClientID,
		Scope:    strings.Join(tok.Scopes, " "),
		Exp:      tok.ExpiresAt.Unix(),
		Aud:      tok.Resource,
		TokenUse: string(tok.Type),
	})
}

func writeInactive(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.IntrospectionResponse{Active: false})
}
