package http

import (
	"errors"
	"net/http"

	"github.com/takaio/ipgate/internal/service"
	"github.com/takaio/ipgate/pkg/httpx"
	"github.com/takaio/ipgate/pkg/slogx"
)

type GenerateCodeHandler struct {
	LifecycleService *service.LifecycleService
}

// ServeHTTP godoc
//
//	@Summary		Issue Authorization Code
//	@Description	Issues a fresh 6-character code for the calling IP, replacing any
//	@Description	still-pending code. Reports "authenticated" when the IP already
//	@Description	holds a valid authorization and "failed" when issuance degraded.
//	@Tags			Gate
//	@Produce		json
//	@Success		200	{object}	CodeResponse	"status, code"
//	@Router			/generate_id [get].
func (h *GenerateCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := httpx.ClientIP(r)

	code, err := h.LifecycleService.IssueCode(ctx, ip)
	switch {
	case errors.Is(err, service.ErrAlreadyAuthenticated):
		httpx.WriteJSON(w, http.StatusOK, CodeResponse{Status: "authenticated"})
	case err != nil:
		// Degraded issuance is still a 200; the page retries on its next poll.
		slogx.FromContext(ctx).Error("code issuance failed", "ip", ip, "error", err)
		httpx.WriteJSON(w, http.StatusOK, CodeResponse{Status: "failed"})
	default:
		httpx.WriteJSON(w, http.StatusOK, CodeResponse{Status: "success", Code: code})
	}
}
