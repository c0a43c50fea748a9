// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/indicium/internal/auth"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/middleware"
	"github.com/tomtom215/indicium/internal/models"
)

// chiMiddleware adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler so it can be used with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authManager   *auth.BasicAuthManager
}

// NewRouter builds a Router from the configuration.
func NewRouter(cfg *config.Config, handler *Handler) (*Router, error) {
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow

	var authManager *auth.BasicAuthManager
	switch cfg.Security.AuthMode {
	case config.AuthModeBasic:
		manager, err := auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("configure basic auth: %w", err)
		}
		authManager = manager
	default:
		logging.Warn().Msg("authentication disabled, API endpoints are unprotected")
	}

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
		authManager:   authManager,
	}, nil
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	authenticate := auth.Middleware(router.authManager, func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusUnauthorized, models.ErrCodeAuthentication,
			"Authentication required", nil)
	})

	// Dashboard pages.
	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware(middleware.Compression))
		r.Get("/", router.handler.Dashboard)
		r.Get("/recommendations", router.handler.RecommendationsPage)
	})

	// Health probes get a permissive rate limit so monitoring can poll.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Data endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(chiMiddleware(authenticate))

		r.Post("/analysis", router.handler.Analysis)
		r.Post("/recommendations", router.handler.Recommendations)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", router.handler.ListDatasets)
			r.Post("/", router.handler.CreateDataset)
			r.Get("/{id}", router.handler.GetDataset)
			r.Delete("/{id}", router.handler.DeleteDataset)
			r.Get("/{id}/analysis", router.handler.AnalyzeDataset)
			r.Get("/{id}/export", router.handler.ExportDataset)
		})
	})

	// Prometheus scrape endpoint.
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Consistent envelope for unknown routes and bad methods.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}
