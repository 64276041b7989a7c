package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinicops/internal/config"
	"github.com/hackgods/clinicops/internal/db"
	"github.com/hackgods/clinicops/internal/inventory"
	"github.com/hackgods/clinicops/internal/logger"
	"github.com/hackgods/clinicops/internal/metrics"
)

// expiry-worker takes expired medicine batches off the shelf.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Bootstrap().Fatal().Err(err).Msg("config load error")
	}

	log := logger.New(cfg.Env, cfg.LogLevel).With().Str("component", "expiry-worker").Logger()
	log.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Msg("expiry worker starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN, cfg.DBMaxConns, cfg.DBMinConns)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	svc := inventory.NewService(inventory.NewPgRepository(pgPool), metrics.New("expiry-worker"), log)

	runOnce(rootCtx, svc, cfg.Loc(), log)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info().Msg("shutdown signal received, stopping expiry worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, cfg.Loc(), log)
		}
	}
}

func runOnce(ctx context.Context, svc *inventory.Service, loc *time.Location, log zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	n, err := svc.DeactivateExpired(runCtx, start.In(loc))
	if err != nil {
		log.Error().Err(err).Msg("expiry run error")
		return
	}
	log.Info().
		Int("deactivated", n).
		Dur("took", time.Since(start)).
		Msg("expiry run complete")
}
