package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientKey identifies the caller of r. X-Forwarded-For is trusted only from
// loopback peers, which is how the site forwards visitors to the feed proxy.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}

	return host
}
