package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the tracked product. The SKU and URLs point at the
// 14" MacBook Pro M4 Pro listing the watcher was built around; all of them
// can be overridden from the environment.
const (
	defaultBestBuySKU        = "6602748"
	defaultBestBuyProductURL = "https://www.bestbuy.com/product/apple-macbook-pro-14-inch-laptop-apple-m4-pro-chip-built-for-apple-intelligence-24gb-memory-512gb-ssd-space-black/JJGCQ8HVWL"
	defaultAppleStoreURL     = "https://www.apple.com/shop/refurbished/mac"
	defaultAppleKeyword      = "14-inch"
	defaultDBPath            = "data/prices.db"
	defaultReportPath        = "data/price_report.xlsx"
	defaultSMTPHost          = "smtp.gmail.com"
	defaultSMTPPort          = 587
	defaultCheckInterval     = 30 * time.Minute
	defaultJitterMax         = 180 * time.Second
)

// Config holds everything the watcher reads from the environment. It is
// built once at startup and passed by reference; components never read the
// environment themselves.
type Config struct {
	// TargetPriceUSD is the alert threshold. Zero or below disables alerts.
	TargetPriceUSD float64
	CheckInterval  time.Duration
	JitterMax      time.Duration

	DBPath string

	BestBuyAPIKey     string
	BestBuySKU        string
	BestBuyProductURL string

	ScraperAPIKey        string
	EnableScrapeFallback bool

	AppleStoreURL     string
	AppleModelKeyword string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPTo   string

	TelegramToken  string
	TelegramChatID int64

	ReportPath  string
	ReportLimit int
}

// Load builds the configuration from the environment, reading a .env file
// first when one is present. Missing notifier or fetcher credentials are a
// valid state, not an error; only malformed numeric values fail the load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		CheckInterval:        defaultCheckInterval,
		JitterMax:            defaultJitterMax,
		DBPath:               defaultDBPath,
		BestBuySKU:           defaultBestBuySKU,
		BestBuyProductURL:    defaultBestBuyProductURL,
		EnableScrapeFallback: true,
		AppleStoreURL:        defaultAppleStoreURL,
		AppleModelKeyword:    defaultAppleKeyword,
		SMTPHost:             defaultSMTPHost,
		SMTPPort:             defaultSMTPPort,
		ReportPath:           defaultReportPath,

		BestBuyAPIKey: os.Getenv("BESTBUY_API_KEY"),
		ScraperAPIKey: os.Getenv("SCRAPERAPI_KEY"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	// An unparseable target is treated as "not set" so a typo in the
	// threshold degrades to disabled alerts instead of a crash loop.
	if raw := os.Getenv("TARGET_PRICE_USD"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.TargetPriceUSD = parsed
		}
	}

	if raw := os.Getenv("CHECK_INTERVAL_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("CHECK_INTERVAL_MINUTES is not a number: %w", err)
		}
		cfg.CheckInterval = time.Duration(parsed) * time.Minute
	}

	if raw := os.Getenv("JITTER_MAX_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("JITTER_MAX_SECONDS is not a number: %w", err)
		}
		cfg.JitterMax = time.Duration(parsed) * time.Second
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BESTBUY_SKU"); v != "" {
		cfg.BestBuySKU = v
	}
	if v := os.Getenv("BESTBUY_PRODUCT_URL"); v != "" {
		cfg.BestBuyProductURL = v
	}
	if v := os.Getenv("APPLE_STORE_URL"); v != "" {
		cfg.AppleStoreURL = v
	}
	if v := os.Getenv("APPLE_MODEL_KEYWORD"); v != "" {
		cfg.AppleModelKeyword = v
	}
	if v := os.Getenv("REPORT_PATH"); v != "" {
		cfg.ReportPath = v
	}

	if raw := os.Getenv("ENABLE_SCRAPE_FALLBACK"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("ENABLE_SCRAPE_FALLBACK is not a boolean: %w", err)
		}
		cfg.EnableScrapeFallback = parsed
	}

	if raw := os.Getenv("SMTP_HOST"); raw != "" {
		cfg.SMTPHost = raw
	}
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("SMTP_PORT is not a number: %w", err)
		}
		cfg.SMTPPort = parsed
	}
	cfg.SMTPTo = os.Getenv("SMTP_TO")
	if cfg.SMTPTo == "" {
		cfg.SMTPTo = cfg.SMTPUser
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not a number: %w", err)
		}
		cfg.TelegramChatID = parsed
	}

	if raw := os.Getenv("REPORT_LIMIT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("REPORT_LIMIT is not a number: %w", err)
		}
		cfg.ReportLimit = parsed
	}

	return cfg, nil
}
