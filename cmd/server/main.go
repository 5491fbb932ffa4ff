// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

// Package main is the entry point for the Barfani monitoring gateway.
//
// Barfani ingests telemetry from glacier lake sensor stations, evaluates
// each reading against alert rules and statistical models, archives
// everything to DuckDB, and pushes alerts to disaster management
// authorities over email and to dashboards over WebSocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables over config.yaml over defaults (Koanf v2)
//  2. Archive: DuckDB for readings and alert history
//  3. Delivery ledger: BadgerDB audit trail for notification attempts
//  4. Rules and stats engines, in-memory reading history
//  5. Alert dispatcher: multilingual email delivery behind a circuit breaker
//  6. WebSocket hub: live dashboard updates
//  7. Authentication: JWT, Basic Auth, or no-auth mode
//  8. HTTP server: REST API with Swagger documentation
//
// The long-running pieces (hub, HTTP server) run under a suture
// supervision tree so a crash in one layer restarts only that layer.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
//
// For JWT authentication (default):
//   - SECURITY_JWT_SECRET: 32+ character secret for token signing
//   - SECURITY_ADMIN_USERNAME: Operator username
//   - SECURITY_ADMIN_PASSWORD: Operator password (8+ characters, or a bcrypt hash)
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests (10s timeout),
// waits for pending notification deliveries, and closes the archive
// and ledger.
//
// # Example Usage
//
// Development, no authentication:
//
//	export SECURITY_AUTH_MODE=none
//	./barfani
//
// Production with JWT and persistent storage:
//
//	export SECURITY_JWT_SECRET=$(openssl rand -base64 32)
//	export SECURITY_ADMIN_USERNAME=operator
//	export SECURITY_ADMIN_PASSWORD=secure-password
//	export DATABASE_PATH=/data/barfani.db
//	export LEDGER_PATH=/data/ledger
//	./barfani
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/project-barfani/barfani/docs" // swagger document registration
	"github.com/project-barfani/barfani/internal/alerting"
	"github.com/project-barfani/barfani/internal/api"
	"github.com/project-barfani/barfani/internal/auth"
	"github.com/project-barfani/barfani/internal/config"
	"github.com/project-barfani/barfani/internal/database"
	"github.com/project-barfani/barfani/internal/history"
	"github.com/project-barfani/barfani/internal/insight"
	"github.com/project-barfani/barfani/internal/logging"
	"github.com/project-barfani/barfani/internal/pipeline"
	"github.com/project-barfani/barfani/internal/rules"
	"github.com/project-barfani/barfani/internal/stats"
	"github.com/project-barfani/barfani/internal/supervisor"
	"github.com/project-barfani/barfani/internal/supervisor/services"
	ws "github.com/project-barfani/barfani/internal/websocket"
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
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Barfani monitoring gateway")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize archive")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing archive")
		}
	}()

	ledger, err := alerting.OpenLedger(cfg.Ledger.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open delivery ledger")
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing delivery ledger")
		}
	}()

	hist := history.NewStore(cfg.History.Capacity)
	engine := rules.NewEngine(cfg.Rules)
	detector := stats.NewEngine(cfg.Stats)
	insights := insight.NewService(hist, detector)

	dispatcher := alerting.NewDispatcher(cfg.Alerting, ledger, nil)
	if cfg.Alerting.SMTP.Enabled() {
		logging.Info().
			Str("smtp_host", cfg.Alerting.SMTP.Host).
			Msg("Email delivery enabled")
	} else {
		logging.Info().Msg("SMTP not configured - alerts are logged, not emailed")
	}

	wsHub := ws.NewHub()
	pipe := pipeline.New(hist, engine, db, dispatcher, wsHub)

	var jwtManager *auth.JWTManager
	var basicAuthManager *auth.BasicAuthManager

	switch cfg.Security.AuthMode {
	case "jwt":
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		// JWT mode still needs the credential store for /auth/login.
		if cfg.Security.AdminUsername != "" {
			basicAuthManager, err = auth.NewBasicAuthManager(
				cfg.Security.AdminUsername,
				cfg.Security.AdminPassword,
			)
			if err != nil {
				logging.Fatal().Err(err).Msg("Failed to initialize operator credentials")
			}
		}
		logging.Info().Msg("JWT authentication enabled")
	case "basic":
		basicAuthManager, err = auth.NewBasicAuthManager(
			cfg.Security.AdminUsername,
			cfg.Security.AdminPassword,
		)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize Basic Auth manager")
		}
		logging.Info().Msg("Basic authentication enabled")
		logging.Warn().Msg("Basic Auth transmits credentials with each request. Use HTTPS in production!")
	case "none":
		logging.Warn().Msg("Authentication is DISABLED (SECURITY_AUTH_MODE=none)")
		logging.Warn().Msg("All endpoints are publicly accessible. Development only!")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	authMW := auth.NewMiddleware(&cfg.Security, jwtManager, basicAuthManager)

	handler := api.NewHandler(cfg, pipe, hist, engine, insights, db, dispatcher, ledger, wsHub, authMW)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
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
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Let in-flight notification deliveries finish before the ledger closes.
	dispatcher.Wait()

	logging.Info().Msg("Barfani stopped gracefully")
}
