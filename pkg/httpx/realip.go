package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client address used as the authorization subject
// key. The first entry of a comma-separated X-Forwarded-For list wins,
// then X-Real-IP, then the direct peer address with the port stripped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
