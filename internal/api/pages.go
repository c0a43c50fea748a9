// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/tomtom215/indicium/internal/logging"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// pageTemplates holds the parsed dashboard pages. Parsed once at startup;
// a parse failure is a build defect, hence the panic in template.Must.
var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// pageData is passed to every page template.
type pageData struct {
	Version string
}

// Dashboard serves the main dashboard page at GET /.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Page not found", nil)
		return
	}
	renderPage(w, "dashboard.html.tmpl")
}

// RecommendationsPage serves the recommendations page at GET /recommendations.
func (h *Handler) RecommendationsPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, "recommendations.html.tmpl")
}

func renderPage(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, pageData{Version: Version}); err != nil {
		logging.Error().Err(err).Str("template", name).Msg("failed to render page")
	}
}
