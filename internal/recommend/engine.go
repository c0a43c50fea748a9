// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package recommend generates the templated recommendation cards served by
// the recommendations API. Cards are derived from the sales and customer
// datasets: top revenue products, high-value customers, and a margin insight
// summary, each carrying a fixed confidence score.
//
// The package has no dependency on the HTTP or storage layers. The
// DataLoader interface decouples it from where datasets come from.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/dataset"
	"github.com/tomtom215/indicium/internal/metrics"
)

// Card confidence scores. Fixed per card type; the values are part of the
// API contract.
const (
	productConfidence  = 0.85
	customerConfidence = 0.78
	insightConfidence  = 0.92
)

// topN is the number of entities listed on ranking cards.
const topN = 5

// DataLoader resolves datasets by kind. Implemented by dataset.Loader.
type DataLoader interface {
	Load(kind string) (*dataset.Frame, error)
}

// Options tunes the engine.
type Options struct {
	// Limit is the default maximum number of cards per response.
	Limit int

	// MinConfidence is the default confidence floor applied when the
	// request does not set one.
	MinConfidence float64

	// CacheTTL and CacheSize configure the response cache.
	CacheTTL  time.Duration
	CacheSize int
}

// Engine generates recommendation cards. It is safe for concurrent use.
type Engine struct {
	opts   Options
	loader DataLoader
	logger zerolog.Logger
	cache  *cache.LRU

	requests    atomic.Int64
	generated   atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	errorCount  atomic.Int64
}

// NewEngine creates an Engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(opts Options, loader DataLoader, logger zerolog.Logger) *Engine {
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	return &Engine{
		opts:   opts,
		loader: loader,
		logger: logger.With().Str("component", "recommend").Logger(),
		cache:  cache.NewLRU(opts.CacheSize, opts.CacheTTL),
	}
}

// Generate produces recommendation cards for the request.
//
// Card order is fixed: product, customer, insight. Cards scoring below the
// confidence floor are dropped, and the result is capped at the limit.
func (e *Engine) Generate(ctx context.Context, req Request) ([]Recommendation, error) {
	e.requests.Add(1)
	req = e.prepareRequest(req)

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("data_type", req.DataType).
		Logger()

	if err := ctx.Err(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	key := cacheKey(req)
	if cached, ok := e.cache.Get(key); ok {
		e.cacheHits.Add(1)
		metrics.RecommendationCacheHits.Inc()
		logger.Debug().Msg("cache hit")
		return cached.([]Recommendation), nil
	}
	e.cacheMisses.Add(1)
	metrics.RecommendationCacheMisses.Inc()

	sales, err := e.loader.Load(dataset.KindSales)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("load sales data: %w", err)
	}
	customers, err := e.loader.Load(dataset.KindCustomer)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("load customer data: %w", err)
	}

	cards := make([]Recommendation, 0, 3)
	if card, ok := rankingCard(sales, "product_id", "revenue",
		"product", "Top Revenue Generating Products", "Product", productConfidence); ok {
		cards = append(cards, card)
	} else {
		logger.Warn().Msg("sales dataset missing product_id/revenue columns, product card skipped")
	}

	if card, ok := rankingCard(customers, "customer_id", "total_spent",
		"customer", "High Value Customers to Focus On", "Customer", customerConfidence); ok {
		cards = append(cards, card)
	} else {
		logger.Warn().Msg("customer dataset missing customer_id/total_spent columns, customer card skipped")
	}

	if card, ok := insightCard(sales); ok {
		cards = append(cards, card)
	}

	filtered := make([]Recommendation, 0, len(cards))
	for _, card := range cards {
		if card.Confidence >= req.MinConfidence {
			filtered = append(filtered, card)
			metrics.RecommendationsGenerated.WithLabelValues(card.Type).Inc()
		}
	}
	if len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}

	e.generated.Add(int64(len(filtered)))
	e.cache.Add(key, filtered)

	logger.Debug().Int("cards", len(filtered)).Msg("recommendations generated")
	return filtered, nil
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		Requests:    e.requests.Load(),
		Generated:   e.generated.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Errors:      e.errorCount.Load(),
	}
}

// InvalidateCache clears cached responses, e.g. after new data arrives.
func (e *Engine) InvalidateCache() {
	e.cache.Purge()
}

// prepareRequest applies defaults and generates a request ID if needed.
func (e *Engine) prepareRequest(req Request) Request {
	if req.DataType == "" {
		req.DataType = dataset.KindSales
	}
	if req.Limit < 1 {
		req.Limit = e.opts.Limit
	}
	if req.MinConfidence <= 0 {
		req.MinConfidence = e.opts.MinConfidence
	}
	if req.RequestID == "" {
		req.RequestID = generateRequestID()
	}
	return req
}

// generateRequestID creates a short correlation ID for engine logs.
func generateRequestID() string {
	return uuid.New().String()[:8]
}

// cacheKey builds the cache key from the request fields that affect output.
func cacheKey(req Request) string {
	return fmt.Sprintf("%s|%g|%d", req.DataType, req.MinConfidence, req.Limit)
}

// rankingCard builds a "top N by metric" card from a frame.
// Returns false when the frame lacks the needed columns or has no usable rows.
func rankingCard(f *dataset.Frame, idColumn, metricColumn, cardType, title, label string, confidence float64) (Recommendation, bool) {
	ids := f.Column(idColumn)
	metric := f.Column(metricColumn)
	if ids == nil || metric == nil || ids.Kind != dataset.KindNumeric || metric.Kind != dataset.KindNumeric {
		return Recommendation{}, false
	}

	type ranked struct {
		id    float64
		value float64
	}
	rows := make([]ranked, 0, len(ids.Floats))
	for i := range ids.Floats {
		if ids.Missing[i] || metric.Missing[i] {
			continue
		}
		rows = append(rows, ranked{id: ids.Floats[i], value: metric.Floats[i]})
	}
	if len(rows) == 0 {
		return Recommendation{}, false
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].value > rows[j].value })
	if len(rows) > topN {
		rows = rows[:topN]
	}

	items := make([]string, len(rows))
	for i, row := range rows {
		items[i] = fmt.Sprintf("%s %s", label, formatID(row.id))
	}

	return Recommendation{
		Type:       cardType,
		Title:      title,
		Items:      items,
		Confidence: confidence,
	}, true
}

// insightCard builds the business insights card from the sales frame.
func insightCard(sales *dataset.Frame) (Recommendation, bool) {
	margin := sales.Column("profit_margin")
	if margin == nil || margin.Kind != dataset.KindNumeric {
		return Recommendation{}, false
	}
	values := margin.Values()
	if len(values) == 0 {
		return Recommendation{}, false
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))

	return Recommendation{
		Type:  "insight",
		Title: "Business Insights",
		Items: []string{
			fmt.Sprintf("Average profit margin: %.2f%%", avg*100),
			"Consider focusing on high-margin products",
			"Implement customer retention strategies",
		},
		Confidence: insightConfidence,
	}, true
}

// formatID renders a numeric entity ID, without a decimal point for whole
// numbers.
func formatID(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
