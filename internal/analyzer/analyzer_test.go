// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package analyzer

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/indicium/internal/dataset"
)

func testAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(Options{}, zerolog.Nop())
}

func mustFrame(t *testing.T, data map[string][]interface{}) *dataset.Frame {
	t.Helper()
	f, err := dataset.FromColumns(data)
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	return f
}

func TestAnalyzeTextOnlyFrame(t *testing.T) {
	f := mustFrame(t, map[string][]interface{}{
		"region":  []interface{}{"north", "south", "east"},
		"channel": []interface{}{"web", "store", "web"},
	})

	analysis := testAnalyzer(t).Analyze(f)

	if analysis.BasicStats.Message != msgNoNumericStats {
		t.Errorf("basic stats message = %q, want %q", analysis.BasicStats.Message, msgNoNumericStats)
	}
	if analysis.BasicStats.Shape != [2]int{3, 2} {
		t.Errorf("shape = %v, want [3 2]", analysis.BasicStats.Shape)
	}
	if analysis.Correlation.Message != msgFewColumnsCorrelation {
		t.Errorf("correlation message = %q, want %q", analysis.Correlation.Message, msgFewColumnsCorrelation)
	}
	if analysis.Distribution.Message != msgNoNumericDistribution {
		t.Errorf("distribution message = %q, want %q", analysis.Distribution.Message, msgNoNumericDistribution)
	}
	if analysis.Outliers.Message != msgNoNumericOutliers {
		t.Errorf("outliers message = %q, want %q", analysis.Outliers.Message, msgNoNumericOutliers)
	}
	if analysis.Clustering.Message != msgFewColumnsClustering {
		t.Errorf("clustering message = %q, want %q", analysis.Clustering.Message, msgFewColumnsClustering)
	}
}

func TestAnalyzeBasicStats(t *testing.T) {
	f := mustFrame(t, map[string][]interface{}{
		"revenue": []interface{}{1.0, 2.0, 3.0, 4.0},
		"label":   []interface{}{"a", "b", "c", "d"},
	})

	stats := testAnalyzer(t).Analyze(f).BasicStats

	if stats.NumericColumns != 1 {
		t.Fatalf("numeric columns = %d, want 1", stats.NumericColumns)
	}
	summary, ok := stats.SummaryStats["revenue"]
	if !ok {
		t.Fatal("missing summary for revenue")
	}
	if summary.Count != 4 {
		t.Errorf("count = %d, want 4", summary.Count)
	}
	if summary.Mean != 2.5 {
		t.Errorf("mean = %g, want 2.5", summary.Mean)
	}
	if summary.Min != 1 || summary.Max != 4 {
		t.Errorf("min/max = %g/%g, want 1/4", summary.Min, summary.Max)
	}
	if summary.P25 != 1.75 || summary.P75 != 3.25 {
		t.Errorf("quartiles = %g/%g, want 1.75/3.25", summary.P25, summary.P75)
	}
}

func TestAnalyzeStrongCorrelations(t *testing.T) {
	f := mustFrame(t, map[string][]interface{}{
		"spend":   []interface{}{1.0, 2.0, 3.0, 4.0, 5.0},
		"revenue": []interface{}{2.0, 4.0, 6.0, 8.0, 10.0},
		"noise":   []interface{}{5.0, -3.0, 9.0, 0.0, 2.0},
	})

	correlation := testAnalyzer(t).Analyze(f).Correlation

	found := false
	for _, pair := range correlation.StrongCorrelations {
		if (pair.Var1 == "revenue" && pair.Var2 == "spend") ||
			(pair.Var1 == "spend" && pair.Var2 == "revenue") {
			found = true
			if pair.Correlation != 1 {
				t.Errorf("correlation = %g, want 1", pair.Correlation)
			}
		}
	}
	if !found {
		t.Error("perfectly correlated pair not reported as strong")
	}

	if correlation.Matrix["spend"]["spend"] != 1 {
		t.Error("matrix diagonal should be 1")
	}
	if correlation.Matrix["spend"]["revenue"] != correlation.Matrix["revenue"]["spend"] {
		t.Error("matrix should be symmetric")
	}
}

func TestAnalyzeOutliers(t *testing.T) {
	values := []interface{}{10.0, 11.0, 9.0, 10.0, 12.0, 11.0, 10.0, 100.0}
	f := mustFrame(t, map[string][]interface{}{
		"amount": values,
		"other":  values,
	})

	outliers := testAnalyzer(t).Analyze(f).Outliers

	report, ok := outliers.Columns["amount"]
	if !ok {
		t.Fatal("missing outlier report for amount")
	}
	if report.Count != 1 {
		t.Fatalf("outlier count = %d, want 1", report.Count)
	}
	if len(report.Values) != 1 || report.Values[0] != 100 {
		t.Errorf("outlier values = %v, want [100]", report.Values)
	}
	if report.Percentage != 12.5 {
		t.Errorf("percentage = %g, want 12.5", report.Percentage)
	}
}

func TestAnalyzeClustering(t *testing.T) {
	f := mustFrame(t, map[string][]interface{}{
		"x": []interface{}{1.0, 1.1, 0.9, 10.0, 10.1, 9.9, 20.0, 20.1, 19.9, 20.2},
		"y": []interface{}{1.0, 0.9, 1.1, 10.0, 9.9, 10.1, 20.0, 19.9, 20.1, 20.2},
	})

	clustering := testAnalyzer(t).Analyze(f).Clustering

	if clustering.Message != "" {
		t.Fatalf("unexpected clustering message %q", clustering.Message)
	}
	if clustering.OptimalClusters != 3 {
		t.Errorf("optimal clusters = %d, want 3", clustering.OptimalClusters)
	}
	if len(clustering.Inertias) != 5 {
		t.Errorf("inertias length = %d, want 5", len(clustering.Inertias))
	}
	if len(clustering.ClusterStats) != 3 {
		t.Fatalf("cluster stats entries = %d, want 3", len(clustering.ClusterStats))
	}

	total := 0
	for name, cs := range clustering.ClusterStats {
		total += cs.Size
		if _, ok := cs.MeanValues["x"]; !ok {
			t.Errorf("cluster %s missing mean for x", name)
		}
	}
	if total != 10 {
		t.Errorf("cluster sizes sum to %d, want 10", total)
	}
}

func TestAnalyzeClusteringFewRows(t *testing.T) {
	f := mustFrame(t, map[string][]interface{}{
		"x": []interface{}{1.0, 2.0},
		"y": []interface{}{3.0, 4.0},
	})

	clustering := testAnalyzer(t).Analyze(f).Clustering
	if clustering.Message != msgFewRowsClustering {
		t.Errorf("message = %q, want %q", clustering.Message, msgFewRowsClustering)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	data := map[string][]interface{}{
		"a": []interface{}{1.0, 5.0, 9.0, 2.0, 8.0, 3.0, 7.0, 4.0},
		"b": []interface{}{2.0, 6.0, 1.0, 8.0, 3.0, 9.0, 4.0, 7.0},
	}

	first := testAnalyzer(t).Analyze(mustFrame(t, data))
	second := testAnalyzer(t).Analyze(mustFrame(t, data))

	if first.Clustering.OptimalClusters != second.Clustering.OptimalClusters {
		t.Error("optimal clusters differ across runs")
	}
	for i := range first.Clustering.Inertias {
		if first.Clustering.Inertias[i] != second.Clustering.Inertias[i] {
			t.Errorf("inertia %d differs across runs", i)
		}
	}
}

func TestInsights(t *testing.T) {
	f := mustFrame(t, map[string][]interface{}{
		"x": []interface{}{1.0, 1.1, 0.9, 10.0, 10.1, 9.9, 20.0, 20.1, 19.9, 100.0},
		"y": []interface{}{1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0, 10.0},
	})

	analysis := testAnalyzer(t).Analyze(f)
	insights := Insights(analysis)

	if len(insights) == 0 {
		t.Fatal("expected at least the shape insight")
	}
	if insights[0] != "Dataset contains 10 records and 2 features" {
		t.Errorf("shape insight = %q", insights[0])
	}

	if got := Insights(nil); len(got) != 0 {
		t.Errorf("Insights(nil) = %v, want empty", got)
	}
}
