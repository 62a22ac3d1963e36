package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"TARGET_PRICE_USD", "CHECK_INTERVAL_MINUTES", "JITTER_MAX_SECONDS",
		"DB_PATH", "BESTBUY_API_KEY", "BESTBUY_SKU", "BESTBUY_PRODUCT_URL",
		"SCRAPERAPI_KEY", "ENABLE_SCRAPE_FALLBACK", "APPLE_STORE_URL",
		"APPLE_MODEL_KEYWORD", "SMTP_HOST", "SMTP_PORT", "SMTP_USER",
		"SMTP_PASS", "SMTP_TO", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"REPORT_PATH", "REPORT_LIMIT",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Zero(t, cfg.TargetPriceUSD)
	assert.Equal(t, 30*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 180*time.Second, cfg.JitterMax)
	assert.Equal(t, "data/prices.db", cfg.DBPath)
	assert.Equal(t, "6602748", cfg.BestBuySKU)
	assert.True(t, cfg.EnableScrapeFallback)
	assert.Equal(t, "14-inch", cfg.AppleModelKeyword)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Zero(t, cfg.TelegramChatID)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET_PRICE_USD", "1500")
	t.Setenv("CHECK_INTERVAL_MINUTES", "5")
	t.Setenv("JITTER_MAX_SECONDS", "30")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("ENABLE_SCRAPE_FALLBACK", "false")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")
	t.Setenv("SMTP_USER", "watcher@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500.0, cfg.TargetPriceUSD)
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 30*time.Second, cfg.JitterMax)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.False(t, cfg.EnableScrapeFallback)
	assert.Equal(t, int64(-100123456), cfg.TelegramChatID)

	// Recipient falls back to the sender account.
	assert.Equal(t, "watcher@example.com", cfg.SMTPTo)
}

func TestLoadMalformedTargetDisablesAlerts(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET_PRICE_USD", "not-a-price")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.TargetPriceUSD)
}

func TestLoadMalformedNumbersFail(t *testing.T) {
	cases := map[string]string{
		"CHECK_INTERVAL_MINUTES": "soon",
		"JITTER_MAX_SECONDS":     "a bit",
		"SMTP_PORT":              "tls",
		"TELEGRAM_CHAT_ID":       "@channel",
		"REPORT_LIMIT":           "all",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(name, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}
