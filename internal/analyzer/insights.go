// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package analyzer

import "fmt"

// Insights renders an analysis bundle into short business-facing sentences
// for the dashboard summary panel. Sections that degraded to a message
// contribute nothing.
func Insights(analysis *Analysis) []string {
	insights := []string{}
	if analysis == nil {
		return insights
	}

	insights = append(insights, fmt.Sprintf("Dataset contains %d records and %d features",
		analysis.BasicStats.Shape[0], analysis.BasicStats.Shape[1]))

	if n := len(analysis.Correlation.StrongCorrelations); n > 0 {
		insights = append(insights, fmt.Sprintf("Found %d strong correlations in the data", n))
	}

	totalOutliers := 0
	for _, report := range analysis.Outliers.Columns {
		totalOutliers += report.Count
	}
	if totalOutliers > 0 {
		insights = append(insights, fmt.Sprintf("Detected %d outliers across all numeric variables", totalOutliers))
	}

	if analysis.Clustering.OptimalClusters > 0 {
		insights = append(insights, fmt.Sprintf("Data naturally groups into %d distinct clusters",
			analysis.Clustering.OptimalClusters))
	}

	return insights
}
