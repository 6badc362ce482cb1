package httpapi

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/httpx"
)

// handleToken implements the token endpoint for the authorization_code and
// refresh_token grants. Clients authenticate with client_secret_post;
// public clients send only their client_id.
//
//	@Summary		Token endpoint
//	@Description	Exchanges an authorization code or refresh token for an access token.
//	@Tags			oauth2
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string	true	"authorization_code or refresh_token"
//	@Param			client_id		formData	string	true	"Client ID"
//	@Param			client_secret	formData	string	false	"Client secret (confidential clients)"
//	@Param			code			formData	string	false	"Authorization code"
//	@Param			redirect_uri	formData	string	false	"Redirect URI used at the authorize step"
//	@Param			code_verifier	formData	string	false	"PKCE code verifier"
//	@Param			refresh_token	formData	string	false	"Refresh token"
//	@Param			scope			formData	string	false	"Requested scopes (refresh grant, narrowing only)"
//	@Param			resource		formData	string	false	"Target resource indicator (RFC 8707)"
//	@Success		200	{object}	authsdk.TokenResponse
//	@Failure		400	{object}	authsdk.ErrorResponse
//	@Failure		401	{object}	authsdk.ErrorResponse
//	@Router			/token [post]
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	if werr := parseFormRequest(w, r); werr != nil {
		return
	}

	client, err := h.clients.Authenticate(r.Context(), r.PostFormValue("client_id"), r.PostFormValue("client_secret"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch r.PostFormValue("grant_type") {
	case "authorization_code":
		h.tokenAuthorizationCode(w, r, client)
	case "refresh_token":
		h.tokenRefresh(w, r, client)
	default:
		authsdk.ErrUnsupportedGrantType.WriteError(w)
	}
}

func (h *Handler) tokenAuthorizationCode(w http.ResponseWriter, r *http.Request, client domain.Client) {
	codeValue := r.PostFormValue("code")
	if codeValue == "" {
		authsdk.NewOAuth2Error(
			http.StatusBadRequest,
			authsdk.ErrorCodeInvalidRequest,
			"code is required",
		).WriteError(w)
		return
	}

	code, err := h.codes.Redeem(codeValue)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	// A code is burned on its first exchange attempt, successful or not.
	h.codes.Consume(codeValue)

	if code.ClientID != client.ID {
		authsdk.ErrInvalidGrant.WriteError(w)
		return
	}
	if redirect := r.PostFormValue("redirect_uri"); code.RedirectURI != "" && redirect != code.RedirectURI {
		authsdk.ErrInvalidGrant.WriteError(w)
		return
	}
	if !verifyCodeChallenge(code, r.PostFormValue("code_verifier")) {
		authsdk.ErrInvalidGrant.WriteError(w)
		return
	}

	pair, err := h.tokens.Exchange(r.Context(), client, code, r.PostFormValue("resource"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeTokenResponse(w, pair)
}

func (h *Handler) tokenRefresh(w http.ResponseWriter, r *http.Request, client domain.Client) {
	refreshValue := r.PostFormValue("refresh_token")
	if refreshValue == "" {
		authsdk.NewOAuth2Error(
			http.StatusBadRequest,
			authsdk.ErrorCodeInvalidRequest,
			"refresh_token is required",
		).WriteError(w)
		return
	}

	pair, err := h.tokens.Refresh(
		r.Context(),
		client,
		refreshValue,
		httpx.ParseSpaceDelimitedFields(r.PostFormValue("scope")),
		r.PostFormValue("resource"),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeTokenResponse(w, pair)
}

func (h *Handler) writeTokenResponse(w http.ResponseWriter, pair domain.TokenPair) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken.Value,
		TokenType:    "bearer",
		ExpiresIn:    int(h.tokens.AccessTTL().Seconds()),
		RefreshToken: pair.RefreshToken.Value,
		Scope:        strings.Join(pair.AccessToken.Scopes, " "),
	})
}

// verifyCodeChallenge checks the PKCE verifier against the challenge bound
// to the code at the authorize step (RFC 7636). Codes issued without a
// challenge accept no verifier and require none.
func verifyCodeChallenge(code domain.AuthorizationCode, verifier string) bool {
	if code.CodeChallenge == "" {
		return true
	}
	if verifier == "" {
		return false
	}

	switch code.CodeChallengeMethod {
	case "S256":
		sum := sha256.Sum256([]byte(verifier))
		derived := base64.RawURLEncoding.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(derived), []byte(code.CodeChallenge)) == 1
	case "plain", "":
		return subtle.ConstantTimeCompare([]byte(verifier), []byte(code.CodeChallenge)) == 1
	default:
		return false
	}
}
