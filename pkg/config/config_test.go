package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("INSTAGRAM_ACCESS_TOKEN", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Empty(t, cfg.Instagram.AccessToken)
	assert.Equal(t, "https://graph.instagram.com", cfg.Instagram.GraphURL)
	assert.Equal(t, 6, cfg.Instagram.MediaLimit)
	assert.Equal(t, 10*time.Second, cfg.Instagram.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Site.FeedWait)
	assert.Equal(t, "http://127.0.0.1:8080/api/feed", cfg.FeedEndpoint())
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("INSTAGRAM_ACCESS_TOKEN", "token-from-env")
	t.Setenv("INSTAGRAM_MEDIA_LIMIT", "4")
	t.Setenv("SITE_FEED_ENDPOINT", "http://feed.internal/api/feed")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "token-from-env", cfg.Instagram.AccessToken)
	assert.Equal(t, 4, cfg.Instagram.MediaLimit)
	assert.Equal(t, "http://feed.internal/api/feed", cfg.FeedEndpoint())
}

func TestNew_InvalidValue(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-number")

	_, err := New()
	assert.Error(t, err)
}
