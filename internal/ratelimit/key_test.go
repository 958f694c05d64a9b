package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "remote host", remoteAddr: "198.51.100.4:5123", want: "198.51.100.4"},
		{name: "forwarded from loopback", remoteAddr: "127.0.0.1:40000", forwarded: "203.0.113.7, 10.0.0.1", want: "203.0.113.7"},
		{name: "forwarded from outside is ignored", remoteAddr: "198.51.100.4:5123", forwarded: "203.0.113.7", want: "198.51.100.4"},
		{name: "loopback without header", remoteAddr: "[::1]:40000", want: "::1"},
		{name: "no port", remoteAddr: "198.51.100.4", want: "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/feed", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientKey(r))
		})
	}
}
