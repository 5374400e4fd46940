package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

type Config struct {
	TelegramToken    string
	Mode             string
	WebhookPublicURL string
	Port             string
	DBPath           string // empty disables the usage log
	LogLevel         string

	CoinGeckoBaseURL string
	CoinGeckoAPIKey  string
	PriceTimeout     time.Duration

	LocalCurrencyPerUSD float64 // RUB per 1 USD
	GoldUSDPerGram      float64 // USD per 1 g of gold
}

// LoadDotEnv loads a .env file into the environment when one exists.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func floatEnv(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s: %w", k, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("env %s must be positive, got %v", k, f)
	}
	return f, nil
}

func Load() (Config, error) {
	cfg := Config{
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		Mode:             strings.ToLower(envOr("BOT_MODE", ModeWebhook)),
		WebhookPublicURL: os.Getenv("WEBHOOK_PUBLIC_URL"),
		Port:             envOr("PORT", "8443"),
		DBPath:           os.Getenv("DB_PATH"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		CoinGeckoBaseURL: envOr("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoAPIKey:  os.Getenv("COINGECKO_API_KEY"),
	}

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("missing env TELEGRAM_BOT_TOKEN")
	}
	switch cfg.Mode {
	case ModeWebhook:
		if cfg.WebhookPublicURL == "" {
			return Config{}, fmt.Errorf("missing env WEBHOOK_PUBLIC_URL (required when BOT_MODE=webhook)")
		}
	case ModePolling:
	default:
		return Config{}, fmt.Errorf("env BOT_MODE: unknown mode %q", cfg.Mode)
	}

	timeout, err := time.ParseDuration(envOr("PRICE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("env PRICE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("env PRICE_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.PriceTimeout = timeout

	if cfg.LocalCurrencyPerUSD, err = floatEnv("LOCAL_CURRENCY_PER_USD", 90); err != nil {
		return Config{}, err
	}
	if cfg.GoldUSDPerGram, err = floatEnv("GOLD_USD_PER_GRAM", 70); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error"), defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
