package monitorimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/mozimo-site/internal/domain"
	"github.com/orgball2608/mozimo-site/internal/instagram"
	"github.com/orgball2608/mozimo-site/internal/metrics"
	"github.com/orgball2608/mozimo-site/internal/monitor"
	"github.com/orgball2608/mozimo-site/internal/telegram"
	"github.com/orgball2608/mozimo-site/pkg/config"
	apperrors "github.com/orgball2608/mozimo-site/pkg/errors"
	"github.com/orgball2608/mozimo-site/pkg/formatter"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"github.com/orgball2608/mozimo-site/pkg/retry"
	"go.uber.org/fx"
)

type credentialStatus int

const (
	statusUnknown credentialStatus = iota
	statusValid
	statusExpired
)

const checkTimeout = time.Minute

type Opts struct {
	fx.In

	Instagram instagram.Client
	Telegram  telegram.Client
	Logger    logger.Logger
	Config    *config.Config
}

type MonitorImpl struct {
	Instagram   instagram.Client
	Telegram    telegram.Client
	Logger      logger.Logger
	Config      *config.Config
	RetryConfig retry.Config

	mu     sync.Mutex
	status credentialStatus
}

func New(opts Opts) *MonitorImpl {
	return &MonitorImpl{
		Instagram:   opts.Instagram,
		Telegram:    opts.Telegram,
		Logger:      opts.Logger.WithComponent("CredentialMonitor"),
		Config:      opts.Config,
		RetryConfig: retry.DefaultConfig(),
	}
}

var _ monitor.Client = (*MonitorImpl)(nil)

func (m *MonitorImpl) CheckCredential(ctx context.Context) error {
	token := m.Config.Instagram.AccessToken
	if token == "" {
		metrics.CredentialValid.Set(0)
		m.Logger.Warn("Instagram access token not configured, skipping credential check")
		return apperrors.WrapWithCode(apperrors.ErrNotConfigured, apperrors.CodeNotConfigured,
			"Instagram access token not configured")
	}

	var identity domain.Identity
	err := retry.Do(ctx, m.Logger, "InstagramIdentity", func() error {
		id, err := m.Instagram.GetIdentity(ctx, token)
		if err != nil {
			if apperrors.IsTokenExpired(err) {
				return retry.Permanent(err)
			}
			return err
		}
		identity = id
		return nil
	}, m.RetryConfig)

	switch {
	case apperrors.IsTokenExpired(err):
		metrics.CredentialValid.Set(0)
		m.markExpired(err)
		return err
	case err != nil:
		m.Logger.Warn("Could not verify Instagram credential", "error", err)
		return fmt.Errorf("credential check failed: %w", err)
	}

	metrics.CredentialValid.Set(1)
	m.markValid(identity)
	return nil
}

func (m *MonitorImpl) markExpired(err error) {
	m.mu.Lock()
	previous := m.status
	m.status = statusExpired
	m.mu.Unlock()

	if previous == statusExpired {
		m.Logger.Debug("Instagram credential still expired")
		return
	}

	m.Logger.Error("Instagram access token has expired", "error", err)
	m.Telegram.SendMessageToUser(formatter.Bold(formatter.EscapeMarkdownV2("Instagram connection expired")) + "\n\n" +
		formatter.EscapeMarkdownV2("The site is showing the fallback gallery. Generate a new access token and update INSTAGRAM_ACCESS_TOKEN."))
}

func (m *MonitorImpl) markValid(identity domain.Identity) {
	m.mu.Lock()
	previous := m.status
	m.status = statusValid
	m.mu.Unlock()

	if previous == statusExpired {
		m.Logger.Info("Instagram credential recovered", "username", identity.Username)
		return
	}
	m.Logger.Debug("Instagram credential valid", "username", identity.Username)
}

// ScheduleCredentialChecks sets up a cron job that probes the access token
func (m *MonitorImpl) ScheduleCredentialChecks(ctx context.Context) error {
	schedule := m.Config.Monitor.Schedule
	if schedule == "" {
		m.Logger.Info("Credential monitor disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create credential monitor scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				m.Logger.Info("Context cancelled, skipping credential check")
				return
			}

			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			_ = m.CheckCredential(checkCtx)
		}),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule credential checks: %w", err)
	}

	scheduler.Start()
	m.Logger.Info("Credential monitor scheduled", "schedule", schedule)

	go func() {
		<-ctx.Done()
		m.Logger.Info("Stopping credential monitor scheduler")
		if err := scheduler.Shutdown(); err != nil {
			m.Logger.Error("Failed to shut down credential monitor scheduler", "error", err)
		}
	}()

	return nil
}
