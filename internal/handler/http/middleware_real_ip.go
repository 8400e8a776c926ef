package http

import (
	"net"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5/middleware"
)

// withTrustedRealIP applies chi's RealIP rewrite only to requests whose peer
// is one of the configured trusted proxies. Everyone else keeps the socket
// address, so forwarding headers cannot change the identity the login
// limiter and the access log see.
func (h *Handler) withTrustedRealIP(next http.Handler) http.Handler {
	if len(h.trustedProxies) == 0 {
		return next
	}

	forwarded := middleware.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.fromTrustedProxy(r.RemoteAddr) {
			forwarded.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) fromTrustedProxy(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range h.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
