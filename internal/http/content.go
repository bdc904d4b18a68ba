package http

import (
	"net/http"

	"github.com/takaio/ipgate/internal/http/web"
	"github.com/takaio/ipgate/internal/service"
	"github.com/takaio/ipgate/pkg/httpx"
)

type GatedContentHandler struct {
	LifecycleService *service.LifecycleService
}

// ServeHTTP godoc
//
//	@Summary		Gated Content
//	@Description	Returns the protected content fragment for authorized IPs.
//	@Tags			Gate
//	@Produce		html
//	@Success		200	{string}	string			"content fragment"
//	@Failure		403	{object}	ErrorResponse	"error, error_description"
//	@Router			/authenticated_content [get].
func (h *GatedContentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.LifecycleService.IsAuthenticated(r.Context(), httpx.ClientIP(r)) {
		httpx.WriteJSON(w, http.StatusForbidden, ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "IP authorization required",
		})
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(web.GatedContent)
}
