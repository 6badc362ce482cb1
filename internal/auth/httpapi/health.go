package httpapi

import (
	"net/http"
	"time"

	"github.com/inkpress/draftgate/pkg/authsdk"
	"github.com/inkpress/draftgate/pkg/httpx"
)

// handleLivez reports process liveness.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	authsdk.HealthResponse
//	@Router		/livez [get]
func (h *Handler) handleLivez(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Version: h.version,
	})
}

// handleReadyz reports readiness: the store must answer and the signer must
// be loaded.
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	authsdk.HealthResponse
//	@Failure	503	{object}	authsdk.HealthResponse
//	@Router		/readyz [get]
func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := &authsdk.HealthChecks{Store: "ok", Signer: "ok"}
	status := "ok"
	code := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		checks.Store = err.Error()
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	if h.signer == nil {
		checks.Signer = "signer not loaded"
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	httpx.WriteJSON(w, code, authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Version: h.version,
		Checks:  checks,
	})
}
