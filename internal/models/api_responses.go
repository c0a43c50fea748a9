// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package models defines the JSON shapes shared by the API handlers.
package models

import "time"

// APIResponse is the envelope used by every JSON endpoint.
//
// Status is "success" or "error". Data carries the endpoint payload and is
// null on errors. Error is set only when Status is "error".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
//
// QueryTimeMS is the server-side processing time in milliseconds and Cached
// reports whether the payload came from the response cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the structured error body.
//
// Common codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - NOT_FOUND: resource does not exist
//   - DATASET_ERROR: dataset load or persistence failure
//   - ANALYSIS_ERROR: analysis computation failure
//   - RECOMMENDATION_ERROR: recommendation generation failure
//   - METHOD_NOT_ALLOWED: unsupported HTTP method
//   - AUTHENTICATION_ERROR: invalid or missing credentials
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned by the API.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeDataset          = "DATASET_ERROR"
	ErrCodeAnalysis         = "ANALYSIS_ERROR"
	ErrCodeRecommendation   = "RECOMMENDATION_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeAuthentication   = "AUTHENTICATION_ERROR"
	ErrCodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// HealthStatus is the /api/v1/health payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// AnalysisRequest is the POST /api/v1/analysis body. At most one of
// Data, DatasetID, or DataType may be provided; an empty body analyzes
// the sales sample.
type AnalysisRequest struct {
	// DataType selects a built-in dataset kind.
	DataType string `json:"data_type" validate:"omitempty,oneof=sales customer marketing operations"`

	// DatasetID selects a stored dataset.
	DatasetID string `json:"dataset_id" validate:"omitempty,uuid"`

	// Data supplies inline columns, each a list of values.
	Data map[string][]interface{} `json:"data" validate:"omitempty,min=1"`
}

// RecommendationRequest is the POST /api/v1/recommendations body.
type RecommendationRequest struct {
	DataType      string  `json:"data_type" validate:"omitempty,oneof=sales customer marketing operations"`
	FocusArea     string  `json:"focus_area" validate:"omitempty,max=128"`
	MinConfidence float64 `json:"min_confidence" validate:"omitempty,gte=0,lte=1"`
	Limit         int     `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// DatasetUploadRequest is the POST /api/v1/datasets body when uploading
// inline columns rather than CSV.
type DatasetUploadRequest struct {
	Name string                   `json:"name" validate:"required,max=128"`
	Data map[string][]interface{} `json:"data" validate:"required,min=1"`
}

// DatasetSummary is the list/detail payload for a stored dataset.
type DatasetSummary struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Source    string              `json:"source"`
	Rows      int                 `json:"rows"`
	Cols      int                 `json:"cols"`
	Columns   []DatasetColumnMeta `json:"columns,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// DatasetColumnMeta describes one stored column.
type DatasetColumnMeta struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// DatasetDetail is the single-dataset payload including a row preview.
type DatasetDetail struct {
	DatasetSummary
	Preview []map[string]interface{} `json:"preview,omitempty"`
}
