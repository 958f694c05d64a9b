package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/orgball2608/mozimo-site/internal/metrics"
	"github.com/orgball2608/mozimo-site/internal/ratelimit"
	apperrors "github.com/orgball2608/mozimo-site/pkg/errors"
	"github.com/orgball2608/mozimo-site/pkg/logger"
)

type Middleware func(http.Handler) http.Handler

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Recover turns a panic in a handler into the catch-all 500 response. When
// the handler already started its response nothing more is written.
func Recover(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic while handling request", "path", r.URL.Path, "panic", rec, "response_started", rw.wroteHeader)
					if rw.wroteHeader {
						return
					}
					writeJSON(w, http.StatusInternalServerError, ErrorResponse{
						Error:   feedFailureMessage,
						Details: fmt.Sprint(rec),
					})
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// RateLimit rejects clients over their budget. Operational endpoints are exempt.
func RateLimit(limiter ratelimit.Limiter, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isOperational(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := ratelimit.ClientKey(r)
			if !limiter.Allow(key) {
				metrics.RateLimitedTotal.Inc()
				log.Warn("Rate limit exceeded", "client", key, "path", r.URL.Path)
				writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: apperrors.ErrRateLimited.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Logging(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if isOperational(r.URL.Path) {
				return
			}
			log.Info("Request handled",
				"Method", r.Method,
				"URL", r.URL.String(),
				"Status", rec.status,
				"Duration", time.Since(start).Round(time.Millisecond).String())
		})
	}
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func isOperational(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/metrics")
}
