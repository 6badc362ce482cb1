package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkpress/draftgate/internal/platform"
	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/httpx"
	"github.com/inkpress/draftgate/pkg/slogx"
)

// handlePublishArticle is the protected publishing operation: the bearer
// token has already been verified and scoped by the middleware chain, so
// all that is left is forwarding the draft to the content platform.
//
//	@Summary		Publish a draft article
//	@Description	Submits a draft to the content platform. Requires the articles:publish scope.
//	@Tags			articles
//	@Accept			json
//	@Produce		json
//	@Security		OAuth2
//	@Param			request	body		authsdk.PublishArticleRequest	true	"Draft article"
//	@Success		202		{object}	authsdk.PublishArticleResponse
//	@Failure		400		{object}	authsdk.ErrorResponse
//	@Failure		401		{object}	authsdk.ErrorResponse
//	@Failure		502		{object}	authsdk.ErrorResponse
//	@Router			/v1/articles [post]
func (h *Handler) handlePublishArticle(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		authsdk.NewOAuth2Error(
			http.StatusServiceUnavailable,
			"platform_unconfigured",
			"no content platform is configured",
		).WriteError(w)
		return
	}

	var req authsdk.PublishArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.NewOAuth2Error(
			http.StatusBadRequest,
			authsdk.ErrorCodeInvalidRequest,
			"request body is not valid JSON",
		).WriteError(w)
		return
	}
	if req.Title == "" || req.Content == "" {
		authsdk.NewOAuth2Error(
			http.StatusBadRequest,
			authsdk.ErrorCodeInvalidRequest,
			"title and content are required",
		).WriteError(w)
		return
	}

	receipt, err := h.publisher.PublishDraft(r.Context(), platform.Article{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Digest:  req.Digest,
	})
	if err != nil {
		writePlatformError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("article publish accepted",
		"client_id", httpx.ClientIDFromCtx(r.Context()),
		"publish_id", receipt.PublishID,
	)
	httpx.WriteJSON(w, http.StatusAccepted, authsdk.PublishArticleResponse{
		PublishID: receipt.PublishID,
	})
}

// handlePublishStatus reports the platform-side state of a publish job.
//
//	@Summary		Publish job status
//	@Tags			articles
//	@Produce		json
//	@Security		OAuth2
//	@Param			publish_id	path		string	true	"Publish job ID"
//	@Success		200			{object}	authsdk.PublishStatusResponse
//	@Failure		401			{object}	authsdk.ErrorResponse
//	@Failure		502			{object}	authsdk.ErrorResponse
//	@Router			/v1/articles/{publish_id} [get]
func (h *Handler) handlePublishStatus(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		authsdk.NewOAuth2Error(
			http.StatusServiceUnavailable,
			"platform_unconfigured",
			"no content platform is configured",
		).WriteError(w)
		return
	}

	state, err := h.publisher.PublishStatus(r.Context(), r.PathValue("publish_id"))
	if err != nil {
		writePlatformError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.PublishStatusResponse{
		PublishID: state.PublishID,
		Status:    state.Status,
		ArticleID: state.ArticleID,
	})
}

// writePlatformError maps content platform failures onto our surface:
// platform 4xx means the draft was rejected, anything else is a gateway
// problem.
func writePlatformError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		authsdk.NewOAuth2Error(apiErr.StatusCode, apiErr.Code, apiErr.Message).WriteError(w)
		return
	}

	slogx.FromContext(r.Context()).Error("content platform call failed", "err", err)
	authsdk.NewOAuth2Error(
		http.StatusBadGateway,
		"platform_unavailable",
		"the content platform did not accept the request",
	).WriteError(w)
}
