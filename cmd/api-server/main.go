package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/clinicops/internal/api"
	"github.com/hackgods/clinicops/internal/appointment"
	"github.com/hackgods/clinicops/internal/auth"
	"github.com/hackgods/clinicops/internal/billing"
	"github.com/hackgods/clinicops/internal/config"
	"github.com/hackgods/clinicops/internal/consultation"
	"github.com/hackgods/clinicops/internal/db"
	"github.com/hackgods/clinicops/internal/directory"
	"github.com/hackgods/clinicops/internal/document"
	"github.com/hackgods/clinicops/internal/inventory"
	"github.com/hackgods/clinicops/internal/logger"
	"github.com/hackgods/clinicops/internal/metrics"
	redisclient "github.com/hackgods/clinicops/internal/redis"
	"github.com/hackgods/clinicops/internal/schedule"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Bootstrap().Fatal().Err(err).Msg("config load error")
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	log.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Str("version", version).
		Msg("api-server starting up")

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

	var (
		locker      redisclient.Locker
		redisHealth api.Pinger
	)
	rdb, err := redisclient.NewRedisClient(rootCtx, cfg)
	switch {
	case err == nil:
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("error closing redis")
			}
		}()
		locker = redisclient.NewRedisLocker(rdb, cfg.LockTTL)
		redisHealth = api.RedisPinger{Client: rdb}
		log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
	case cfg.IsDev():
		locker = redisclient.NewLocalLocker()
		log.Warn().Err(err).Msg("redis unavailable, using in-process slot locks")
	default:
		log.Fatal().Err(err).Msg("redis connection error")
	}

	m := metrics.New("api-server")
	renderer := document.NewPDFRenderer("ClinicOps")
	dir := directory.NewPgRepository(pgPool)

	appointmentRepo := appointment.NewPgRepository(pgPool)
	appointments := appointment.NewService(appointmentRepo, dir, locker, m, log, cfg)
	schedules := schedule.NewService(schedule.NewPgRepository(pgPool), appointmentRepo, dir, log)
	consultations := consultation.NewService(consultation.NewPgStore(pgPool), dir, renderer, m, log)
	medicines := inventory.NewService(inventory.NewPgRepository(pgPool), m, log)
	billings := billing.NewService(billing.NewPgRepository(pgPool), appointmentRepo, dir, medicines, renderer, m, log, cfg)

	authn := auth.New(auth.Config{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		Dev:    cfg.IsDev(),
	})
	if cfg.IsDev() && cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, every bearer token is accepted with all roles")
	}

	router := api.NewRouter(api.RouterConfig{
		Schedules:     schedules,
		Appointments:  appointments,
		Consultations: consultations,
		Inventory:     medicines,
		Billing:       billings,
		Auth:          authn,
		Metrics:       m,
		Logger:        log,
		Postgres:      pgPool,
		Redis:         redisHealth,
		Location:      cfg.Loc(),
		Env:           cfg.Env,
		Version:       version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("api-server stopped")
}
