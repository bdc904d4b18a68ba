package http

import (
	"net/http"

	"github.com/takaio/ipgate/internal/http/web"
)

// IndexHandler serves the embedded gate page. The page issues a code,
// shows it for copying into Discord and polls /check_auth until approval.
func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(web.IndexPage)
	}
}
