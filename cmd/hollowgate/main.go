// Package main is the entry point for Hollowgate.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/config"
	"github.com/samdwyer/hollowgate/internal/game"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/logging"
	"github.com/samdwyer/hollowgate/internal/sim"
	"github.com/samdwyer/hollowgate/internal/store"
	"github.com/samdwyer/hollowgate/internal/telemetry"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_HOLLOWGATE_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session", sessionID))

	if cfg.Telemetry {
		telemetry.ExportEnv()
		shutdown, err := telemetry.Setup(ctx, sessionID)
		if err != nil {
			// Continue without telemetry - game still works
			logger.Warn("telemetry setup failed, running without observability", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown", zap.Error(err))
				}
			}()
		}
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("game error", zap.Error(err))
		log.Fatalf("Game error: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return err
	}

	balance, err := config.LoadBalance(cfg.BalanceFile, catalog.Balance)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.StoreDriver, cfg.StorePath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing progress store", zap.Error(err))
		}
	}()

	s, err := sim.New(ctx, sim.Options{
		Catalog: catalog,
		Balance: &balance,
		Seed:    cfg.Seed,
		Store:   st,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	g, err := game.New(cfg, s, logger)
	if err != nil {
		return err
	}
	return g.Run(ctx)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return logging.New(cfg.LogLevel, cfg.LogFormat)
	}
	return logging.ToFile(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
}
