package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/inkpress/draftgate/internal/auth/service"
	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/slogx"
)

// writeServiceError translates service errors into OAuth2 error responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var oe *authsdk.OAuth2Error
	if errors.As(err, &oe) {
		oe.WriteError(w)
		return
	}

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, ve.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidClient):
		authsdk.ErrInvalidClient.WriteError(w)
	case errors.Is(err, service.ErrInvalidGrant):
		authsdk.ErrInvalidGrant.WriteError(w)
	case errors.Is(err, service.ErrInvalidScope):
		authsdk.ErrInvalidScope.WriteError(w)
	case errors.Is(err, service.ErrInvalidTarget):
		authsdk.ErrInvalidTarget.WriteError(w)
	case errors.Is(err, service.ErrUnsupportedGrantType):
		authsdk.ErrUnsupportedGrantType.WriteError(w)
	case errors.Is(err, service.ErrUnsupportedResponseType):
		authsdk.ErrUnsupportedResponseType.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenExpired):
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrInvalidRedirect):
		authsdk.NewOAuth2Error(
			http.StatusBadRequest,
			authsdk.ErrorCodeInvalidRequest,
			"redirect_uri is not registered for this client",
		).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// parseFormRequest enforces the form content type the OAuth2 endpoints
// require and parses the body. A non-nil return has already been written.
func parseFormRequest(w http.ResponseWriter, r *http.Request) *authsdk.OAuth2Error {
	ct := r.Header.Get("Content-Type")
	if mediaType, _, _ := strings.Cut(ct, ";"); strings.TrimSpace(mediaType) != "application/x-www-form-urlencoded" {
		authsdk.ErrInvalidContentType.WriteError(w)
		return authsdk.ErrInvalidContentType
	}
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return authsdk.ErrInvalidFormBody
	}
	return nil
}
