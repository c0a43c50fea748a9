// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package api provides the HTTP surface: chi routing, JSON handlers for
// analysis, recommendations and dataset management, and the dashboard pages.
package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/indicium/internal/analyzer"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/dataset"
	"github.com/tomtom215/indicium/internal/models"
	"github.com/tomtom215/indicium/internal/recommend"
)

// Version is the reported application version. Overridden at build time
// via -ldflags.
var Version = "dev"

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	config    *config.Config
	store     *dataset.Store
	loader    *dataset.Loader
	analyzer  *analyzer.Analyzer
	engine    *recommend.Engine
	startTime time.Time
}

// NewHandler creates a Handler. store may be nil when persistence is
// disabled; dataset endpoints then return 404.
func NewHandler(cfg *config.Config, store *dataset.Store, loader *dataset.Loader, an *analyzer.Analyzer, engine *recommend.Engine) *Handler {
	return &Handler{
		config:    cfg,
		store:     store,
		loader:    loader,
		analyzer:  an,
		engine:    engine,
		startTime: time.Now(),
	}
}

// Health reports overall service health including database connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	checks := map[string]string{}
	status := "healthy"

	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			checks["database"] = "unreachable"
			status = "degraded"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "disabled"
	}

	respondSuccess(w, http.StatusOK, models.HealthStatus{
		Status:    status,
		Version:   Version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
		Timestamp: time.Now(),
	}, time.Now())
}

// HealthLive is the liveness probe. Always 200 while the process serves.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady is the readiness probe. 503 until dependencies respond.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, models.ErrCodeInternal, "Database not ready", err)
			return
		}
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, time.Now())
}
