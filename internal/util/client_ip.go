package util

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller IP used to key login rate limiting. The
// X-Forwarded-For header is consulted only when trustForwarded is set (the
// server sits behind a reverse proxy); otherwise the direct peer address
// wins.
func ClientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
