// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/offspot-metrics/internal/api"
	"github.com/tomtom215/offspot-metrics/internal/backend"
	"github.com/tomtom215/offspot-metrics/internal/config"
	"github.com/tomtom215/offspot-metrics/internal/logging"
	"github.com/tomtom215/offspot-metrics/internal/metrics"
	"github.com/tomtom215/offspot-metrics/internal/session"
	"github.com/tomtom215/offspot-metrics/internal/supervisor"
	"github.com/tomtom215/offspot-metrics/internal/supervisor/services"
	ws "github.com/tomtom215/offspot-metrics/internal/websocket"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	httpShutdownTimeout = 10 * time.Second
	// sweepDivisor controls how often idle sessions are checked relative to the idle timeout.
	sweepDivisor = 4
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Version:   version,
	})

	logging.Info().Msg("Starting Offspot Metrics with supervisor tree")
	logging.Info().
		Str("backend", cfg.Backend.RootAPI).
		Dur("cache_ttl", cfg.Backend.CacheTTL).
		Bool("validate_schema", cfg.Backend.ValidateSchema).
		Dur("session_idle_timeout", cfg.Session.IdleTimeout).
		Int("max_sessions", cfg.Session.MaxSessions).
		Msg("Configuration loaded")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS to the dashboard host")
	}

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Backend chain: HTTP client, circuit breaker, then the shared TTL cache.
	client, err := backend.NewClient(&cfg.Backend)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize backend client")
	}
	breaker := backend.NewCircuitBreakerClient(client, "backend")
	var fetcher backend.Backend = breaker
	if cfg.Backend.CacheTTL > 0 {
		caching := backend.NewCachingFetcher(fetcher, cfg.Backend.CacheTTL)
		defer caching.Close()
		fetcher = caching
		logging.Info().Dur("ttl", cfg.Backend.CacheTTL).Msg("Aggregation cache enabled")
	}

	wsHub := ws.NewHub()

	sessions := session.NewManager(fetcher, &cfg.Session,
		session.WithOnCreate(wsHub.Attach),
		session.WithOnEvict(wsHub.Detach),
		session.WithContext(ctx),
	)
	defer sessions.Close()

	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	handler := api.NewHandler(sessions, wsHub, breaker, mw)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	tree.AddDataService(services.NewSessionJanitorService(sessions, cfg.Session.IdleTimeout/sweepDivisor))

	tree.AddAPIService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), httpShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
