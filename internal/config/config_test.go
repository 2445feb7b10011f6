package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FEED_LIMIT", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LINK_FETCH_TIMEOUT", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 300, cfg.FeedLimit)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 15*time.Second, cfg.LinkFetchTimeout)
	assert.Equal(t, "@every 10m", cfg.FeedSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("FEED_LIMIT", "50")
	t.Setenv("AD_FREE_BASE_URL", "https://cdn.example.com/adfree/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("LINK_FETCH_TIMEOUT", "3s")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 50, cfg.FeedLimit)
	assert.Equal(t, "https://cdn.example.com/adfree", cfg.AdFreeBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.LinkFetchTimeout)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("FEED_LIMIT", "-4")
	t.Setenv("LINK_FETCH_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 300, cfg.FeedLimit)
	assert.Equal(t, 15*time.Second, cfg.LinkFetchTimeout)
}
