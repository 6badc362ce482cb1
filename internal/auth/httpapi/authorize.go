package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/inkpress/draftgate/internal/auth/service"
	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/httpx"
)

// handleAuthorize implements the authorization endpoint. There is no
// interactive consent: a valid request is answered immediately with a 302
// carrying the code. Failures are reported as JSON rather than redirected,
// since an unvalidated redirect target is never a safe place for errors.
//
//	@Summary		Authorization endpoint
//	@Description	Validates the request against the client registration and redirects back with an authorization code.
//	@Tags			oauth2
//	@Produce		json
//	@Param			response_type			query	string	true	"Must be \"code\""
//	@Param			client_id				query	string	true	"Client ID"
//	@Param			redirect_uri			query	string	false	"One of the registered redirect URIs"
//	@Param			scope					query	string	false	"Space-delimited scopes"
//	@Param			state					query	string	false	"Opaque client state, echoed back"
//	@Param			resource				query	string	false	"Target resource indicator (RFC 8707)"
//	@Param			code_challenge			query	string	false	"PKCE code challenge"
//	@Param			code_challenge_method	query	string	false	"PKCE method: S256 or plain"
//	@Success		302
//	@Failure		400	{object}	authsdk.ErrorResponse
//	@Router			/authorize [get]
func (h *Handler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	code, err := h.authorize.Authorize(r.Context(), service.AuthorizeParams{
		ClientID:            q.Get("client_id"),
		RedirectURI:         q.Get("redirect_uri"),
		ResponseType:        q.Get("response_type"),
		Scopes:              httpx.ParseSpaceDelimitedFields(q.Get("scope")),
		State:               q.Get("state"),
		Resource:            q.Get("resource"),
		CodeChallenge:       q.Get("code_challenge"),
		CodeChallengeMethod: q.Get("code_challenge_method"),
	})
	if err != nil {
		writeAuthorizeError(w, r, err)
		return
	}

	target, perr := url.Parse(code.RedirectURI)
	if perr != nil {
		authsdk.ErrServerError.WriteError(w)
		return
	}
	params := target.Query()
	params.Set("code", code.Code)
	if code.State != "" {
		params.Set("state", code.State)
	}
	target.RawQuery = params.Encode()

	httpx.NoCache(w)
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func writeAuthorizeError(w http.ResponseWriter, r *http.Request, err error) {
	// The authorization endpoint reports unknown clients as a plain 400
	// rather than a 401 challenge; there are no credentials to challenge.
	if errors.Is(err, service.ErrInvalidClient) {
		authsdk.NewOAuth2Error(
			http.StatusBadRequest,
			authsdk.ErrorCodeInvalidRequest,
			"unknown client_id",
		).WriteError(w)
		return
	}
	writeServiceError(w, r, err)
}
