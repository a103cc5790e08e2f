// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/taibuivan/collabconnect/internal/api"
	"github.com/taibuivan/collabconnect/internal/hr/company"
	"github.com/taibuivan/collabconnect/internal/hr/request"
	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/metrics"
	"github.com/taibuivan/collabconnect/internal/platform/migration"
	pgstore "github.com/taibuivan/collabconnect/internal/platform/postgres"
	redisstore "github.com/taibuivan/collabconnect/internal/platform/redis"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/portal"
	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/internal/users/account"
	"github.com/taibuivan/collabconnect/internal/users/auth"
)

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *envFile)
		},
	}
}

// runServe performs the startup sequence:
//
//  1. Load configuration and the structured logger.
//  2. Connect to PostgreSQL (pgxpool) and Redis.
//  3. Run database migrations (idempotent).
//  4. Wire the session manager and the domain handlers.
//  5. Serve until SIGINT/SIGTERM, then drain requests and stop every session timer.
func runServe(parent context.Context, envFile string) error {
	cfg, log, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	log.Info("service_initializing")

	// Root context for startup. A 30s deadline catches misconfiguration quickly.
	startupCtx, startupCancel := context.WithTimeout(parent, 30*time.Second)
	defer startupCancel()

	// ── PostgreSQL ────────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return startupFailure(log, "connect to postgres", err)
	}
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── Redis ─────────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return startupFailure(log, "connect to redis", err)
	}
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── Migrations ────────────────────────────────────────────────────────
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return startupFailure(log, "run migrations", err)
	}

	// ── Token signing ─────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return startupFailure(log, "initialize jwt service", err)
	}

	// ── Metrics ───────────────────────────────────────────────────────────
	var (
		collector      *metrics.Collector
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.NewCollector(registry)
		metricsHandler = metrics.Handler(registry)
	}

	// ── Sessions ──────────────────────────────────────────────────────────
	auditRepository := auth.NewSessionAuditRepository(pool)

	deps := session.Deps{
		Store:    session.NewRedisStore(rdb, cfg.SessionStoreTTL),
		Recorder: auditRepository,
		Logger:   log,
	}
	if collector != nil {
		deps.Observer = collector
	}

	manager, err := session.NewManager(session.Config{
		Timeout:        cfg.SessionTimeout,
		WarningLead:    cfg.SessionWarningLead,
		EndedRetention: cfg.SessionStoreTTL,
	}, deps)
	if err != nil {
		return startupFailure(log, "initialize session manager", err)
	}
	defer manager.Shutdown()

	if collector != nil {
		collector.TrackActiveSessions(manager.Active)
	}

	// ── Health ────────────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		ActiveSessions: manager.Active,
	}, log)

	// ── Domain Wiring ─────────────────────────────────────────────────────
	companyService := company.NewService(company.NewPostgresRepository(pool), log)

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auditRepository,
		auth.NewResetTokenRepository(rdb),
		manager,
		tokens,
		cfg.AccessTokenTTL,
	).WithCompanies(companyService)
	if collector != nil {
		authService.WithObserver(collector)
	}

	accountService := account.NewService(account.NewAccountRepository(pool), authService, manager, log)
	requestService := request.NewService(request.NewPostgresRepository(pool), log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   metricsHandler,
		Auth:      auth.NewHandler(authService, cfg.IsProduction(), cfg.IsDevelopment()),
		Session:   session.NewHandler(manager, constants.SessionEventsKeepAlive),
		Account:   account.NewHandler(accountService),
		Company:   company.NewHandler(companyService),
		Request:   request.NewHandler(requestService),
		Portal:    portal.NewHandler(manager, cfg.LoginPath, cfg.DefaultPath),
	}

	serverCtx, serverCancel := context.WithCancel(parent)
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Dependencies{
		Verifier:  tokens,
		Sessions:  manager,
		Collector: collector,
	}, handlers)

	// ── Graceful Shutdown ─────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	var runErr error
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
		runErr = err
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		return err
	}

	log.Info("server_stopped_cleanly")
	return runErr
}

// startupFailure logs a structured startup error and returns it to cobra.
func startupFailure(log *slog.Logger, step string, err error) error {
	log.Error("startup_failure", slog.String("context", step), slog.Any("error", err))
	return fmt.Errorf("%s: %w", step, err)
}
