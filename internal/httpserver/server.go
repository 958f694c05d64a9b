package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/orgball2608/mozimo-site/internal/feed"
	"github.com/orgball2608/mozimo-site/internal/ratelimit"
	"github.com/orgball2608/mozimo-site/internal/site"
	"github.com/orgball2608/mozimo-site/pkg/config"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Config  *config.Config
	Logger  logger.Logger
	Feed    feed.Service
	Site    *site.Site
	Limiter ratelimit.Limiter
}

// NewHandler builds the routed and instrumented handler.
func NewHandler(log logger.Logger, svc feed.Service, s *site.Site, limiter ratelimit.Limiter) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/feed", NewFeedHandler(svc, log))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	s.Register(mux)

	handler := Chain(mux,
		Recover(log),
		Logging(log),
		RateLimit(limiter, log),
	)
	return otelhttp.NewHandler(handler, "mozimo-site")
}

// New creates the HTTP server and ties it to the fx lifecycle.
func New(opts Opts) *http.Server {
	log := opts.Logger.WithComponent("HTTPServer")
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           NewHandler(log, opts.Feed, opts.Site, opts.Limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	opts.LC.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				ln, err := net.Listen("tcp", srv.Addr)
				if err != nil {
					return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
				}

				log.Info(fmt.Sprintf("Starting server on %s", srv.Addr))
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("Server failed", "error", err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info("Shutting down server")
				return srv.Shutdown(ctx)
			},
		},
	)

	return srv
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, log logger.Logger) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Error("Failed to write response", "Error", err)
	}
}
