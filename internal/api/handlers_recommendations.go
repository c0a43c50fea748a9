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

	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/middleware"
	"github.com/tomtom215/indicium/internal/models"
	"github.com/tomtom215/indicium/internal/recommend"
)

// recommendationsPayload is the data section of a recommendations response.
type recommendationsPayload struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Count           int                        `json:"count"`
}

// Recommendations handles POST /api/v1/recommendations.
//
// An empty body uses the configured defaults.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RecommendationRequest
	if err := decodeJSONBody(w, r, &req, h.config.Data.MaxUploadBytes); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	cards, err := h.engine.Generate(r.Context(), recommend.Request{
		DataType:      req.DataType,
		FocusArea:     req.FocusArea,
		MinConfidence: req.MinConfidence,
		Limit:         req.Limit,
		RequestID:     middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.ErrCodeRecommendation,
			"Failed to generate recommendations", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Int("cards", len(cards)).
		Str("focus_area", sanitizeLogValue(req.FocusArea)).
		Msg("recommendations served")

	respondSuccess(w, http.StatusOK, recommendationsPayload{
		Recommendations: cards,
		Count:           len(cards),
	}, start)
}
