package app

import (
	"context"
	"net/http"

	"github.com/orgball2608/mozimo-site/internal/feed"
	"github.com/orgball2608/mozimo-site/internal/feed/feedimpl"
	"github.com/orgball2608/mozimo-site/internal/httpserver"
	"github.com/orgball2608/mozimo-site/internal/instagram"
	"github.com/orgball2608/mozimo-site/internal/instagram/graphapi"
	"github.com/orgball2608/mozimo-site/internal/monitor"
	"github.com/orgball2608/mozimo-site/internal/monitor/monitorimpl"
	"github.com/orgball2608/mozimo-site/internal/ratelimit"
	"github.com/orgball2608/mozimo-site/internal/site"
	"github.com/orgball2608/mozimo-site/internal/telegram"
	"github.com/orgball2608/mozimo-site/internal/telegram/telegramimpl"
	"github.com/orgball2608/mozimo-site/pkg/config"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		newLimiter,
	),
	fx.Provide(
		fx.Annotate(
			graphapi.New,
			fx.As(new(instagram.Client)),
		), fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Service)),
		), fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		), fx.Annotate(
			monitorimpl.New,
			fx.As(new(monitor.Client)),
		),
		site.New,
		httpserver.New,
	),
	fx.Invoke(run),
)

func newLimiter(cfg *config.Config) ratelimit.Limiter {
	return ratelimit.NewInMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per, cfg.RateLimit.Burst)
}

func run(lc fx.Lifecycle, log logger.Logger, _ *http.Server, monClient monitor.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := monClient.CheckCredential(ctx); err != nil {
					log.Warn("Initial credential check failed", "error", err)
				}
			}()

			return monClient.ScheduleCredentialChecks(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			logger.Flush()
			return nil
		},
	})
}
