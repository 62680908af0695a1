package httpapi

import (
	"net"
	"net/http"
	"strings"
)

// KeyFunc derives the rate limit identity of a request.
type KeyFunc func(r *http.Request) string

// ClientKey uses the connection's remote host. With trustProxy the first
// X-Forwarded-For entry wins, which is only safe behind a proxy that sets it.
func ClientKey(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		if trustProxy {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		addr := strings.TrimSpace(r.RemoteAddr)
		if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
			return host
		}
		if addr != "" {
			return addr
		}
		return "unknown"
	}
}
