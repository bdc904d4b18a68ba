package http

import (
	"net/http"

	"github.com/takaio/ipgate/internal/service"
	"github.com/takaio/ipgate/pkg/httpx"
)

type CheckAuthHandler struct {
	LifecycleService *service.LifecycleService
}

// ServeHTTP godoc
//
//	@Summary		Authorization Status Poll
//	@Description	Reports whether the calling IP currently holds a valid
//	@Description	authorization. Polled by the gate page every few seconds.
//	@Tags			Gate
//	@Produce		json
//	@Success		200	{object}	StatusResponse	"authenticated"
//	@Router			/check_auth [get].
func (h *CheckAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authenticated := h.LifecycleService.IsAuthenticated(r.Context(), httpx.ClientIP(r))
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Authenticated: authenticated})
}
