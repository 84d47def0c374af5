package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tradeview/internal/collector"
	"tradeview/internal/config"
	"tradeview/internal/scheduler"
	"tradeview/internal/server"
	"tradeview/internal/service"
	"tradeview/internal/store"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("app", "tradeview").Logger()
	logger.Info().Msg("tradeview starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("TRADEVIEW_CONFIG"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}

	fetcher := collector.NewYahooFetcher(collector.YahooOptions{
		BaseURL:        cfg.DataSource.BaseURL,
		ProxyURL:       cfg.Proxy,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
	}, logger)
	logger.Info().Str("source", fetcher.Name()).Msg("data source ready")

	var st store.Store
	if cfg.Cache.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("sqlite store unavailable, caching disabled")
			st = store.NewNoopStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoopStore()
	}

	svc := service.New(fetcher, st, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, svc, cfg.Watchlist.Symbols, logger)
	if err := sched.Register(cfg.Watchlist.RefreshCron); err != nil {
		logger.Fatal().Err(err).Msg("register refresh task")
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("REFRESH_ON_START") == "true" {
		logger.Info().Msg("REFRESH_ON_START enabled, warming cache now")
		go sched.RunNow()
	}

	srv := server.New(cfg.Server.Addr, server.NewHandler(svc, logger), logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server failed")
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("tradeview stopped")
}
