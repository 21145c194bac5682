package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	r "stockanalyzer/data/repos"
	av "stockanalyzer/service/api/alpha_vantage"
	"stockanalyzer/service/config"
	c "stockanalyzer/service/core"
	"stockanalyzer/service/logging"
	"stockanalyzer/service/market"
	"stockanalyzer/service/metrics"
)

const serviceName = "stock-analyzer"

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(serviceName, logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if cfg.Provider.APIKey == "" {
		logger.Warn("ALPHAVANTAGE_API_KEY is not set, quotes fall back to static data and history to synthetic series")
	}

	mt := metrics.New()

	// get postgres connection and make sure the schema exists
	postgresConnection, err := r.GetPostgresConnection(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer postgresConnection.Close()

	if err := postgresConnection.Migrate(ctx); err != nil {
		logger.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	// quotes are cached in redis when configured, in process otherwise
	var store market.CacheStore = market.NewMemoryStore()
	if cfg.Redis.URL != "" {
		redisStore, err := market.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
	}

	avClient := av.GetClient(cfg.Provider.APIKey, cfg.Provider.Timeout, cfg.Provider.MinInterval)
	provider := market.NewAlphaVantageProvider(avClient, cfg.Provider.FullHistory, mt)

	sc := &c.ServiceContext{
		Store:    postgresConnection,
		Quotes:   market.NewQuoteCache(provider, store, cfg.Cache.QuoteTTL, cfg.Analysis.BulkWorkers, mt),
		History:  market.NewHistoryGenerator(provider),
		Analyzer: market.NewAnalyzer(provider, cfg.Analysis.BulkWorkers, mt),
		Tokens:   c.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Metrics:  mt,
		Logger:   logger,
	}

	if !cfg.Alerts.Disabled {
		scheduler := c.NewAlertScheduler(sc)
		if err := scheduler.Register(cfg.Alerts.Cron); err != nil {
			logger.Error("failed to schedule alert checks", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// get http server, makes all of the endpoints and routes
	s := c.GetHttpServer(sc, cfg.Addr(), cfg.Server.CORSOrigins)

	// start http server in goroutine
	go func() {
		logger.Info("starting server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	// wait here until the context is closed (ie, ctrl+C)
	<-ctx.Done()
	logger.Info("received shutdown signal, shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
