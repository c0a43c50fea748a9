// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package middleware provides HandlerFunc middleware shared by the API
// routes. The router adapts these to chi's Handler-based signature.
package middleware

import (
	"context"
	"net/http"

	"github.com/tomtom215/indicium/internal/logging"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID assigns a unique ID to each request, honoring an upstream
// X-Request-ID header when present. The ID is echoed on the response and
// stored in both the request context and the logging context.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)

		next(w, r.WithContext(ctx))
	}
}

// GetRequestID extracts the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
