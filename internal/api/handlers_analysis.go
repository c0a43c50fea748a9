// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/indicium/internal/analyzer"
	"github.com/tomtom215/indicium/internal/dataset"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
)

// analysisPayload is the data section of an analysis response.
type analysisPayload struct {
	Source   string             `json:"source"`
	Analysis *analyzer.Analysis `json:"analysis"`
	Insights []string           `json:"insights"`
}

// Analysis handles POST /api/v1/analysis.
//
// The body selects the data to analyze: inline columns, a stored dataset ID,
// or a built-in sample kind. An empty body analyzes the sales sample.
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AnalysisRequest
	if err := decodeJSONBody(w, r, &req, h.config.Data.MaxUploadBytes); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	frame, source, apiErr := h.resolveFrame(r, &req)
	if apiErr != nil {
		status := http.StatusInternalServerError
		switch apiErr.Code {
		case models.ErrCodeNotFound:
			status = http.StatusNotFound
		case models.ErrCodeValidation:
			status = http.StatusBadRequest
		}
		respondError(w, status, apiErr.Code, apiErr.Message, nil)
		return
	}

	analysis := h.analyzer.Analyze(frame)
	metrics.AnalysisRuns.WithLabelValues(source).Inc()

	logging.Ctx(r.Context()).Debug().
		Str("source", sanitizeLogValue(source)).
		Int("rows", frame.Rows()).
		Int("cols", frame.Cols()).
		Msg("analysis completed")

	respondSuccess(w, http.StatusOK, analysisPayload{
		Source:   source,
		Analysis: analysis,
		Insights: analyzer.Insights(analysis),
	}, start)
}

// resolveFrame turns an analysis request into a frame and a source label.
func (h *Handler) resolveFrame(r *http.Request, req *models.AnalysisRequest) (*dataset.Frame, string, *models.APIError) {
	switch {
	case len(req.Data) > 0:
		frame, err := dataset.FromColumns(req.Data)
		if err != nil {
			return nil, "", &models.APIError{
				Code:    models.ErrCodeValidation,
				Message: "Invalid inline data: " + err.Error(),
			}
		}
		return frame, "inline", nil

	case req.DatasetID != "":
		if h.store == nil {
			return nil, "", &models.APIError{
				Code:    models.ErrCodeNotFound,
				Message: "Dataset storage is disabled",
			}
		}
		frame, err := h.store.Load(r.Context(), req.DatasetID)
		if err != nil {
			if errors.Is(err, dataset.ErrNotFound) {
				return nil, "", &models.APIError{
					Code:    models.ErrCodeNotFound,
					Message: "Dataset not found",
				}
			}
			logging.Error().Err(err).Msg("failed to load stored dataset")
			return nil, "", &models.APIError{
				Code:    models.ErrCodeDataset,
				Message: "Failed to load dataset",
			}
		}
		return frame, "stored", nil

	default:
		kind := req.DataType
		if kind == "" {
			kind = dataset.KindSales
		}
		frame, err := h.loader.Load(kind)
		if err != nil {
			logging.Error().Err(err).Str("kind", sanitizeLogValue(kind)).Msg("failed to load sample dataset")
			return nil, "", &models.APIError{
				Code:    models.ErrCodeDataset,
				Message: "Failed to load sample dataset",
			}
		}
		return frame, kind, nil
	}
}
