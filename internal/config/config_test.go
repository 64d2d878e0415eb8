package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "CORS_ORIGINS", "LEAD_RATE_LIMIT", "TRUST_PROXY", "SUBMIT_TIMEOUT", "STALE_LEAD_WINDOW",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "TELEGRAM_API_URL", "MAIL_HOST", "MAIL_PORT", "MAIL_TO",
	} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.LeadRateLimit)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, 10*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 15*time.Minute, cfg.StaleLeadWindow)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
	assert.False(t, cfg.Telegram.Configured())
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.Mail.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("CORS_ORIGINS", "https://a.ru, https://b.ru ,")
	t.Setenv("LEAD_RATE_LIMIT", "3")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("SUBMIT_TIMEOUT", "2s")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:ABC")
	t.Setenv("TELEGRAM_CHAT_ID", "-100500")
	t.Setenv("TELEGRAM_API_URL", "http://localhost:8081/")
	t.Setenv("MAIL_HOST", "smtp.example.ru")
	t.Setenv("MAIL_TO", "office@example.ru")

	cfg := FromEnv()

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://a.ru", "https://b.ru"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.LeadRateLimit)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, 2*time.Second, cfg.SubmitTimeout)
	assert.True(t, cfg.Telegram.Configured())
	assert.Equal(t, "http://localhost:8081", cfg.Telegram.APIURL)
	assert.True(t, cfg.Mail.Enabled())
}

func TestFromEnvInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("LEAD_RATE_LIMIT", "-1")
	t.Setenv("SUBMIT_TIMEOUT", "soon")
	t.Setenv("MAIL_PORT", "smtp")
	t.Setenv("TRUST_PROXY", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 10, cfg.LeadRateLimit)
	assert.Equal(t, 10*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.TrustProxy)
}

func TestFromEnvStaleWindowOutlivesSubmitTimeout(t *testing.T) {
	t.Setenv("SUBMIT_TIMEOUT", "20m")
	t.Setenv("STALE_LEAD_WINDOW", "5m")

	cfg := FromEnv()

	assert.Equal(t, 20*time.Minute, cfg.SubmitTimeout)
	assert.Greater(t, cfg.StaleLeadWindow, cfg.SubmitTimeout)

	t.Setenv("STALE_LEAD_WINDOW", "20m")
	assert.Greater(t, FromEnv().StaleLeadWindow, 20*time.Minute, "equal is not enough")
}
