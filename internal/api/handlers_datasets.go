// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/indicium/internal/analyzer"
	"github.com/tomtom215/indicium/internal/dataset"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
)

// ListDatasets handles GET /api/v1/datasets.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.store == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset storage is disabled", nil)
		return
	}

	datasets, err := h.store.List(r.Context())
	metrics.RecordDBQuery("list", time.Since(start), err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDataset, "Failed to list datasets", err)
		return
	}

	summaries := make([]models.DatasetSummary, len(datasets))
	for i, ds := range datasets {
		summaries[i] = datasetSummary(ds, false)
	}
	metrics.DatasetsStored.Set(float64(len(datasets)))

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"datasets": summaries,
		"count":    len(summaries),
	}, start)
}

// CreateDataset handles POST /api/v1/datasets.
//
// Accepts CSV as a raw text/csv body or a multipart "file" field, or inline
// JSON columns via models.DatasetUploadRequest.
func (h *Handler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.store == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset storage is disabled", nil)
		return
	}

	frame, name, apiErr := h.parseUpload(w, r)
	if apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ds, err := h.store.Save(r.Context(), name, "upload", frame)
	metrics.RecordDBQuery("save", time.Since(start), err)
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeDataset, "Failed to store dataset", err)
		return
	}

	// Stored data may change what the cards would say.
	h.engine.InvalidateCache()

	logging.Ctx(r.Context()).Info().
		Str("dataset_id", ds.ID).
		Str("name", sanitizeLogValue(ds.Name)).
		Int("rows", ds.Rows).
		Msg("dataset stored")

	respondSuccess(w, http.StatusCreated, datasetSummary(ds, true), start)
}

// GetDataset handles GET /api/v1/datasets/{id}.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.store == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset storage is disabled", nil)
		return
	}
	id := chi.URLParam(r, "id")

	ds, err := h.store.Get(r.Context(), id)
	metrics.RecordDBQuery("get", time.Since(start), err)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeDataset, "Failed to fetch dataset", err)
		return
	}

	detail := models.DatasetDetail{DatasetSummary: datasetSummary(ds, true)}
	if frame, err := h.store.Load(r.Context(), id); err == nil {
		detail.Preview = frame.Records(h.config.Data.PreviewRows)
	} else {
		logging.Error().Err(err).Str("dataset_id", id).Msg("failed to load preview rows")
	}

	respondSuccess(w, http.StatusOK, detail, start)
}

// DeleteDataset handles DELETE /api/v1/datasets/{id}.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.store == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset storage is disabled", nil)
		return
	}
	id := chi.URLParam(r, "id")

	err := h.store.Delete(r.Context(), id)
	metrics.RecordDBQuery("delete", time.Since(start), err)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeDataset, "Failed to delete dataset", err)
		return
	}

	h.engine.InvalidateCache()
	respondSuccess(w, http.StatusOK, map[string]string{"id": id, "deleted": "true"}, start)
}

// ExportDataset handles GET /api/v1/datasets/{id}/export, streaming the
// dataset back out as CSV.
func (h *Handler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.store == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset storage is disabled", nil)
		return
	}
	id := chi.URLParam(r, "id")

	frame, err := h.store.Load(r.Context(), id)
	metrics.RecordDBQuery("load", time.Since(start), err)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeDataset, "Failed to load dataset", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dataset.csv"`)
	if err := dataset.WriteCSV(w, frame); err != nil {
		logging.Error().Err(err).Str("dataset_id", id).Msg("failed to stream CSV export")
	}
}

// AnalyzeDataset handles GET /api/v1/datasets/{id}/analysis.
func (h *Handler) AnalyzeDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.store == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset storage is disabled", nil)
		return
	}
	id := chi.URLParam(r, "id")

	frame, err := h.store.Load(r.Context(), id)
	metrics.RecordDBQuery("load", time.Since(start), err)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Dataset not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, models.ErrCodeDataset, "Failed to load dataset", err)
		return
	}

	analysis := h.analyzer.Analyze(frame)
	metrics.AnalysisRuns.WithLabelValues("stored").Inc()

	respondSuccess(w, http.StatusOK, analysisPayload{
		Source:   "stored",
		Analysis: analysis,
		Insights: analyzer.Insights(analysis),
	}, start)
}

// parseUpload extracts a frame and dataset name from an upload request.
func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) (*dataset.Frame, string, *models.APIError) {
	maxBytes := h.config.Data.MaxUploadBytes
	contentType := r.Header.Get("Content-Type")

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, "", &models.APIError{Code: models.ErrCodeValidation, Message: "Invalid multipart form"}
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", &models.APIError{Code: models.ErrCodeValidation, Message: `Missing "file" field`}
		}
		defer func() { _ = file.Close() }()

		frame, err := dataset.ParseCSV(file)
		if err != nil {
			return nil, "", &models.APIError{Code: models.ErrCodeValidation, Message: "Invalid CSV: " + err.Error()}
		}
		name := r.FormValue("name")
		if name == "" {
			name = strings.TrimSuffix(header.Filename, ".csv")
		}
		return frame, name, nil

	case strings.HasPrefix(contentType, "text/csv"):
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		frame, err := dataset.ParseCSV(r.Body)
		if err != nil {
			return nil, "", &models.APIError{Code: models.ErrCodeValidation, Message: "Invalid CSV: " + err.Error()}
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "uploaded"
		}
		return frame, name, nil

	default:
		var req models.DatasetUploadRequest
		if err := decodeJSONBody(w, r, &req, maxBytes); err != nil {
			return nil, "", &models.APIError{Code: models.ErrCodeValidation, Message: "Invalid JSON body"}
		}
		if apiErr := validateRequest(&req); apiErr != nil {
			return nil, "", apiErr
		}
		frame, err := dataset.FromColumns(req.Data)
		if err != nil {
			return nil, "", &models.APIError{Code: models.ErrCodeValidation, Message: "Invalid inline data: " + err.Error()}
		}
		return frame, req.Name, nil
	}
}

// datasetSummary converts a store record to the API shape.
func datasetSummary(ds dataset.Dataset, includeColumns bool) models.DatasetSummary {
	summary := models.DatasetSummary{
		ID:        ds.ID,
		Name:      ds.Name,
		Source:    ds.Source,
		Rows:      ds.Rows,
		Cols:      ds.Cols,
		CreatedAt: ds.CreatedAt,
	}
	if includeColumns {
		summary.Columns = make([]models.DatasetColumnMeta, len(ds.Columns))
		for i, col := range ds.Columns {
			summary.Columns[i] = models.DatasetColumnMeta{
				Name: col.Name,
				Kind: col.Kind,
			}
		}
	}
	return summary
}
