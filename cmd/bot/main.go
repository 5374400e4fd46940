package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"assetlogBot/internal/config"
	"assetlogBot/internal/finance"
	"assetlogBot/internal/httpclient"
	"assetlogBot/internal/server"
	"assetlogBot/internal/storage"
	"assetlogBot/internal/telegram"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("config: failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config: invalid configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var usage telegram.UsageStore
	if cfg.DBPath != "" {
		// Ensure parent directory for the DB exists
		_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
		db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_busy_timeout=5000")
		if err != nil {
			return err
		}
		defer db.Close()
		if err := storage.InitSchema(db); err != nil {
			return err
		}
		usage = storage.NewStore(db)
		log.Info("db: usage log enabled", "path", cfg.DBPath)
	}

	prices := finance.NewCoinGecko(finance.CoinGeckoConfig{
		BaseURL: cfg.CoinGeckoBaseURL,
		APIKey:  cfg.CoinGeckoAPIKey,
	}, httpclient.New(cfg.PriceTimeout))
	calc := finance.NewCalculator(prices, finance.Rates{
		LocalCurrencyPerUSD: cfg.LocalCurrencyPerUSD,
		GoldUSDPerGram:      cfg.GoldUSDPerGram,
	})

	api, err := telegram.NewAPI(cfg.TelegramToken)
	if err != nil {
		return err
	}
	log.Info("telegram: bot initialized", "username", api.Self.UserName, "mode", cfg.Mode)

	bot := telegram.NewBot(api, telegram.NewHandlers(api, calc, usage, log), log)
	defer bot.Wait()

	if cfg.Mode == config.ModePolling {
		return bot.RunPolling(ctx)
	}

	if err := bot.SetWebhook(cfg.WebhookPublicURL); err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(bot.WebhookHandler) // registers /telegram/webhook
	addr := ":" + cfg.Port
	log.Info("http: listening", "addr", addr)
	return server.ListenAndServe(ctx, addr, router, 15*time.Second)
}
