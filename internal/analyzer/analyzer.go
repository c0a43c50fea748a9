// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package analyzer computes the descriptive analysis bundle served by the
// analysis API: summary statistics, correlation structure, distribution
// shape, IQR outliers, and k-means clustering over a dataset.Frame.
//
// Analyze never returns an error. Sections that cannot be computed for a
// given dataset (no numeric columns, too few rows) degrade to a Message
// field instead, so a partial dataset still produces a useful report.
package analyzer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/indicium/internal/dataset"
	"github.com/tomtom215/indicium/internal/metrics"
)

// timeSection records the wall time of one analysis section.
func timeSection(name string, fn func()) {
	start := time.Now()
	fn()
	metrics.RecordAnalysisSection(name, time.Since(start))
}

// Section messages for datasets a section cannot be computed on.
const (
	msgNoNumericStats        = "No numeric columns found for statistical analysis"
	msgNoNumericDistribution = "No numeric columns found for distribution analysis"
	msgNoNumericOutliers     = "No numeric columns found for outlier detection"
	msgFewColumnsCorrelation = "Insufficient numeric columns for correlation analysis"
	msgFewColumnsClustering  = "Insufficient numeric columns for clustering analysis"
	msgFewRowsClustering     = "Insufficient data points for clustering"
)

// Options tunes the analyzer. Zero values fall back to the standard
// defaults.
type Options struct {
	// StrongCorrelation is the |r| threshold above which a pair of columns
	// is reported as strongly correlated. Default 0.7.
	StrongCorrelation float64

	// MaxClusters bounds the k-means sweep. Default 5.
	MaxClusters int

	// Restarts is the number of k-means runs per k; the lowest inertia
	// wins. Default 10.
	Restarts int

	// Seed fixes the clustering RNG. Default 42.
	Seed int64
}

// Analyzer computes analysis bundles. Safe for concurrent use: each Analyze
// call builds its own RNG from the configured seed, so results are
// deterministic and runs do not share state.
type Analyzer struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an Analyzer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(opts Options, logger zerolog.Logger) *Analyzer {
	if opts.StrongCorrelation <= 0 {
		opts.StrongCorrelation = 0.7
	}
	if opts.MaxClusters < 2 {
		opts.MaxClusters = 5
	}
	if opts.Restarts < 1 {
		opts.Restarts = 10
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	return &Analyzer{
		opts:   opts,
		logger: logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analysis is the full analysis bundle for one dataset.
type Analysis struct {
	BasicStats   BasicStats           `json:"basic_stats"`
	Correlation  CorrelationAnalysis  `json:"correlation_analysis"`
	Distribution DistributionAnalysis `json:"distribution_analysis"`
	Outliers     OutlierAnalysis      `json:"outlier_detection"`
	Clustering   ClusteringAnalysis   `json:"clustering_analysis"`
}

// BasicStats summarizes dataset shape and per-column descriptive statistics.
type BasicStats struct {
	Message        string             `json:"message,omitempty"`
	Shape          [2]int             `json:"shape"`
	NumericColumns int                `json:"numeric_columns"`
	MissingValues  map[string]int     `json:"missing_values,omitempty"`
	SummaryStats   map[string]Summary `json:"summary_stats,omitempty"`
}

// Summary holds the describe()-style statistics for one numeric column.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// CorrelationAnalysis holds the Pearson matrix and the strong pairs.
type CorrelationAnalysis struct {
	Message            string                        `json:"message,omitempty"`
	Matrix             map[string]map[string]float64 `json:"correlation_matrix,omitempty"`
	StrongCorrelations []StrongCorrelation           `json:"strong_correlations"`
}

// StrongCorrelation reports one strongly correlated column pair.
type StrongCorrelation struct {
	Var1        string  `json:"var1"`
	Var2        string  `json:"var2"`
	Correlation float64 `json:"correlation"`
}

// DistributionAnalysis holds distribution shape per numeric column.
type DistributionAnalysis struct {
	Message string                       `json:"message,omitempty"`
	Columns map[string]DistributionStats `json:"columns,omitempty"`
}

// DistributionStats describes the distribution of one numeric column.
type DistributionStats struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// OutlierAnalysis holds IQR outlier reports per numeric column.
type OutlierAnalysis struct {
	Message string                    `json:"message,omitempty"`
	Columns map[string]ColumnOutliers `json:"columns,omitempty"`
}

// ColumnOutliers reports the IQR-rule outliers for one column.
// Values is capped at the first ten outlying values.
type ColumnOutliers struct {
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Values     []float64 `json:"values"`
}

// ClusteringAnalysis holds the k-means sweep and final cluster statistics.
type ClusteringAnalysis struct {
	Message         string                  `json:"message,omitempty"`
	OptimalClusters int                     `json:"optimal_clusters,omitempty"`
	Inertias        []float64               `json:"inertias,omitempty"`
	ClusterStats    map[string]ClusterStats `json:"cluster_stats,omitempty"`
}

// ClusterStats describes one cluster of the final assignment.
// MeanValues are means of the raw (unscaled) column values.
type ClusterStats struct {
	Size       int                `json:"size"`
	Percentage float64            `json:"percentage"`
	MeanValues map[string]float64 `json:"mean_values"`
}

// Analyze computes the full analysis bundle for a frame.
func (a *Analyzer) Analyze(f *dataset.Frame) *Analysis {
	analysis := &Analysis{}
	timeSection("basic_stats", func() { analysis.BasicStats = a.basicStatistics(f) })
	timeSection("correlation", func() { analysis.Correlation = a.correlationAnalysis(f) })
	timeSection("distribution", func() { analysis.Distribution = a.distributionAnalysis(f) })
	timeSection("outliers", func() { analysis.Outliers = a.detectOutliers(f) })
	timeSection("clustering", func() { analysis.Clustering = a.clusteringAnalysis(f) })

	a.logger.Debug().
		Int("rows", f.Rows()).
		Int("cols", f.Cols()).
		Int("strong_correlations", len(analysis.Correlation.StrongCorrelations)).
		Msg("analysis complete")

	return analysis
}

// basicStatistics produces shape, missing counts, and per-column summaries.
func (a *Analyzer) basicStatistics(f *dataset.Frame) BasicStats {
	stats := BasicStats{
		Shape:         [2]int{f.Rows(), f.Cols()},
		MissingValues: f.MissingCounts(),
	}

	numeric := f.NumericColumns()
	stats.NumericColumns = len(numeric)
	if len(numeric) == 0 {
		stats.Message = msgNoNumericStats
		return stats
	}

	stats.SummaryStats = make(map[string]Summary, len(numeric))
	for _, col := range numeric {
		values := col.Values()
		summary := Summary{Count: len(values)}
		if len(values) > 0 {
			summary.Mean = Mean(values)
			summary.Std = StdDev(values)
			summary.Min = Quantile(values, 0)
			summary.P25 = Quantile(values, 0.25)
			summary.Median = Quantile(values, 0.5)
			summary.P75 = Quantile(values, 0.75)
			summary.Max = Quantile(values, 1)
		}
		stats.SummaryStats[col.Name] = summary
	}

	return stats
}

// correlationAnalysis builds the Pearson matrix and flags strong pairs.
// Each pair is computed over the rows where both columns have a value, so
// missing cells in one column do not discard rows for unrelated pairs.
func (a *Analyzer) correlationAnalysis(f *dataset.Frame) CorrelationAnalysis {
	numeric := f.NumericColumns()
	if len(numeric) < 2 {
		return CorrelationAnalysis{Message: msgFewColumnsCorrelation, StrongCorrelations: []StrongCorrelation{}}
	}

	matrix := make(map[string]map[string]float64, len(numeric))
	for _, col := range numeric {
		matrix[col.Name] = map[string]float64{col.Name: 1}
	}

	strong := []StrongCorrelation{}
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			x, y := pairwiseComplete(&numeric[i], &numeric[j])
			r, ok := Pearson(x, y)
			if !ok {
				continue
			}
			matrix[numeric[i].Name][numeric[j].Name] = r
			matrix[numeric[j].Name][numeric[i].Name] = r

			if r > a.opts.StrongCorrelation || r < -a.opts.StrongCorrelation {
				strong = append(strong, StrongCorrelation{
					Var1:        numeric[i].Name,
					Var2:        numeric[j].Name,
					Correlation: roundTo(r, 3),
				})
			}
		}
	}

	return CorrelationAnalysis{Matrix: matrix, StrongCorrelations: strong}
}

// pairwiseComplete returns the value pairs where both columns are present.
func pairwiseComplete(a, b *dataset.Column) ([]float64, []float64) {
	x := make([]float64, 0, len(a.Floats))
	y := make([]float64, 0, len(b.Floats))
	for i := range a.Floats {
		if !a.Missing[i] && !b.Missing[i] {
			x = append(x, a.Floats[i])
			y = append(y, b.Floats[i])
		}
	}
	return x, y
}

// distributionAnalysis reports distribution shape per numeric column.
func (a *Analyzer) distributionAnalysis(f *dataset.Frame) DistributionAnalysis {
	numeric := f.NumericColumns()
	if len(numeric) == 0 {
		return DistributionAnalysis{Message: msgNoNumericDistribution}
	}

	columns := make(map[string]DistributionStats, len(numeric))
	for _, col := range numeric {
		values := col.Values()
		columns[col.Name] = DistributionStats{
			Mean:     Mean(values),
			Median:   Median(values),
			Std:      StdDev(values),
			Skewness: Skewness(values),
			Kurtosis: Kurtosis(values),
		}
	}

	return DistributionAnalysis{Columns: columns}
}

// detectOutliers applies the 1.5*IQR rule per numeric column.
func (a *Analyzer) detectOutliers(f *dataset.Frame) OutlierAnalysis {
	numeric := f.NumericColumns()
	if len(numeric) == 0 {
		return OutlierAnalysis{Message: msgNoNumericOutliers}
	}

	columns := make(map[string]ColumnOutliers, len(numeric))
	for _, col := range numeric {
		values := col.Values()
		report := ColumnOutliers{Values: []float64{}}

		if len(values) > 0 {
			q1 := Quantile(values, 0.25)
			q3 := Quantile(values, 0.75)
			iqr := q3 - q1
			lower := q1 - 1.5*iqr
			upper := q3 + 1.5*iqr

			for _, v := range values {
				if v < lower || v > upper {
					report.Count++
					if len(report.Values) < 10 {
						report.Values = append(report.Values, v)
					}
				}
			}
			report.Percentage = roundTo(float64(report.Count)/float64(len(values))*100, 2)
		}

		columns[col.Name] = report
	}

	return OutlierAnalysis{Columns: columns}
}

// clusteringAnalysis standardizes complete rows and sweeps k-means over
// k = 1..min(MaxClusters, rows-1), recording inertias, then reports cluster
// statistics for the chosen cluster count. The chosen count is fixed:
// 3 when the sweep reaches 3, otherwise 2.
func (a *Analyzer) clusteringAnalysis(f *dataset.Frame) ClusteringAnalysis {
	numeric := f.NumericColumns()
	if len(numeric) < 2 {
		return ClusteringAnalysis{Message: msgFewColumnsClustering}
	}

	// Rows with any missing numeric value are dropped.
	raw := completeRows(numeric)
	if len(raw) < 3 {
		return ClusteringAnalysis{Message: msgFewRowsClustering}
	}

	scaled := make([][]float64, len(raw))
	for i, row := range raw {
		scaled[i] = append([]float64(nil), row...)
	}
	standardize(scaled)

	rng := rand.New(rand.NewSource(a.opts.Seed)) //nolint:gosec // deterministic clustering, not crypto

	maxClusters := a.opts.MaxClusters
	if maxClusters > len(raw)-1 {
		maxClusters = len(raw) - 1
	}

	inertias := make([]float64, 0, maxClusters)
	for k := 1; k <= maxClusters; k++ {
		inertias = append(inertias, kmeans(scaled, k, a.opts.Restarts, rng).inertia)
	}

	optimal := 2
	if maxClusters >= 3 {
		optimal = 3
	}

	final := kmeans(scaled, optimal, a.opts.Restarts, rng)

	clusterStats := make(map[string]ClusterStats, optimal)
	for c := 0; c < optimal; c++ {
		members := make([][]float64, 0)
		for i, label := range final.labels {
			if label == c {
				members = append(members, raw[i])
			}
		}

		means := make(map[string]float64, len(numeric))
		for d, col := range numeric {
			colVals := make([]float64, len(members))
			for i, row := range members {
				colVals[i] = row[d]
			}
			means[col.Name] = Mean(colVals)
		}

		clusterStats[fmt.Sprintf("Cluster_%d", c)] = ClusterStats{
			Size:       len(members),
			Percentage: roundTo(float64(len(members))/float64(len(raw))*100, 2),
			MeanValues: means,
		}
	}

	return ClusteringAnalysis{
		OptimalClusters: optimal,
		Inertias:        inertias,
		ClusterStats:    clusterStats,
	}
}

// completeRows extracts the rows where every numeric column has a value.
func completeRows(numeric []dataset.Column) [][]float64 {
	if len(numeric) == 0 {
		return nil
	}
	rows := len(numeric[0].Floats)

	out := make([][]float64, 0, rows)
	for r := 0; r < rows; r++ {
		complete := true
		for i := range numeric {
			if numeric[i].Missing[r] {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		row := make([]float64, len(numeric))
		for i := range numeric {
			row[i] = numeric[i].Floats[r]
		}
		out = append(out, row)
	}
	return out
}
