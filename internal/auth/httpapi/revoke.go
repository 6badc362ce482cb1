package httpapi

import (
	"net/http"

	"github.com/inkpress/draftgate/pkg/httpx"
	"github.com/inkpress/draftgate/pkg/slogx"
)

// handleRevoke implements RFC 7009 token revocation. Revoking a token also
// revokes its linked partner, and revoking a token that does not exist (or
// belongs to another client) is a silent success. Only a failed client
// authentication produces an error response.
//
//	@Summary		Token revocation
//	@Description	Revokes a token and its linked partner. Unknown tokens succeed silently.
//	@Tags			oauth2
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			token			formData	string	true	"Token value to revoke"
//	@Param			client_id		formData	string	true	"Client ID"
//	@Param			client_secret	formData	string	false	"Client secret (confidential clients)"
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	authsdk.ErrorResponse
//	@Router			/oauth/revoke [post]
func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if werr := parseFormRequest(w, r); werr != nil {
		return
	}

	client, err := h.clients.Authenticate(r.Context(), r.PostFormValue("client_id"), r.PostFormValue("client_secret"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Revocation answers 200 no matter what happened past authentication;
	// an internal failure is logged, not surfaced.
	if err := h.tokens.Revoke(r.Context(), client, r.PostFormValue("token")); err != nil {
		slogx.FromContext(r.Context()).Error("revocation failed", "err", err)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{})
}
