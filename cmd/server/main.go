// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package main is the entry point for the Indicium server.
//
// Indicium is a self-hosted business intelligence dashboard. It ingests
// tabular business data (sales, customers, marketing, operations), runs a
// descriptive analysis pipeline (summary statistics, correlations,
// distribution shape, IQR outliers, k-means clustering), and serves
// templated recommendation cards with confidence scores over a JSON API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, YAML, env)
//  2. Logging: zerolog, console or JSON format
//  3. Dataset store: DuckDB persistence for uploaded datasets
//  4. Sample loader: seeded generators with CSV override
//  5. Analyzer and recommendation engine
//  6. HTTP server: chi-routed REST API plus dashboard pages
//
// # Configuration
//
// Configuration is loaded with layered sources (highest priority wins):
//   - Environment variables (SERVER_PORT, DUCKDB_PATH, AUTH_MODE, ...)
//   - Config file (config.yaml or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10s for in-flight requests, then
// closes the database.
//
// # Example Usage
//
// Development, no auth:
//
//	export AUTH_MODE=none
//	./indicium
//
// Production with basic auth:
//
//	export AUTH_MODE=basic
//	export ADMIN_USERNAME=admin
//	export ADMIN_PASSWORD=secure-password
//	export DUCKDB_PATH=/data/indicium.db
//	./indicium
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/indicium/internal/analyzer"
	"github.com/tomtom215/indicium/internal/api"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/dataset"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/recommend"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Indicium")

	store, err := dataset.NewStore(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize dataset store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing dataset store")
		}
	}()
	logging.Info().Msg("Dataset store initialized")

	loader := dataset.NewLoader(cfg.Data.Dir, cfg.Engine.Seed)

	an := analyzer.New(analyzer.Options{
		StrongCorrelation: cfg.Engine.StrongCorrelation,
		MaxClusters:       cfg.Engine.MaxClusters,
		Restarts:          cfg.Engine.KMeansRestarts,
		Seed:              cfg.Engine.Seed,
	}, logging.Logger())

	engine := recommend.NewEngine(recommend.Options{
		Limit:         cfg.Engine.RecommendationLimit,
		MinConfidence: cfg.Engine.MinConfidence,
		CacheTTL:      cfg.Engine.CacheTTL,
		CacheSize:     cfg.Engine.CacheSize,
	}, loader, logging.Logger())

	handler := api.NewHandler(cfg, store, loader, an, engine)
	router, err := api.NewRouter(cfg, handler)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to configure router")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	// Serve in the background so the main goroutine can wait on signals.
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
