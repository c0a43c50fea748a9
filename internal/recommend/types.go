// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package recommend

// Recommendation is one templated suggestion card surfaced on the dashboard.
type Recommendation struct {
	// Type categorizes the card: "product", "customer", or "insight".
	Type string `json:"type"`

	// Title is the card heading.
	Title string `json:"title"`

	// Items are the card's action items or findings.
	Items []string `json:"items"`

	// Confidence is the card's confidence score in [0,1].
	Confidence float64 `json:"confidence"`
}

// Request describes one recommendation query.
type Request struct {
	// DataType selects the primary dataset: sales, customer, marketing,
	// operations. Defaults to sales.
	DataType string `json:"data_type"`

	// FocusArea is a free-form hint recorded for observability; it does not
	// change card selection.
	FocusArea string `json:"focus_area"`

	// MinConfidence drops cards scoring below it. Zero keeps everything.
	MinConfidence float64 `json:"min_confidence"`

	// Limit caps the number of cards. Zero uses the configured default.
	Limit int `json:"limit"`

	// RequestID correlates logs; generated when empty.
	RequestID string `json:"-"`
}

// Metrics are cumulative engine counters, exposed on the status endpoint.
type Metrics struct {
	Requests    int64 `json:"requests"`
	Generated   int64 `json:"generated"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Errors      int64 `json:"errors"`
}
