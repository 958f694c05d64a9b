package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Instagram struct {
		AccessToken string        `env:"INSTAGRAM_ACCESS_TOKEN" env-description:"Instagram Graph API access token"`
		GraphURL    string        `env:"INSTAGRAM_GRAPH_URL" env-default:"https://graph.instagram.com"`
		MediaLimit  int           `env:"INSTAGRAM_MEDIA_LIMIT" env-default:"6"`
		Timeout     time.Duration `env:"INSTAGRAM_TIMEOUT" env-default:"10s"`
	}
	Telegram struct {
		Token string `env:"TELEGRAM_TOKEN"`
		User  int64  `env:"TELEGRAM_USER"`
	}
	Monitor struct {
		Schedule string `env:"MONITOR_SCHEDULE" env-default:"0 */6 * * *"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"60"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"1m"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"10"`
	}
	Site struct {
		FeedEndpoint string        `env:"SITE_FEED_ENDPOINT"`
		FeedWait     time.Duration `env:"SITE_FEED_WAIT" env-default:"3s"`
	}
}

// New reads the configuration from the process environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("failed to read configuration: %w\n%s", err, help)
	}
	return cfg, nil
}

// FeedEndpoint is the URL the site uses to reach the feed proxy.
func (c *Config) FeedEndpoint() string {
	if c.Site.FeedEndpoint != "" {
		return c.Site.FeedEndpoint
	}
	return fmt.Sprintf("http://127.0.0.1:%d/api/feed", c.App.Port)
}
