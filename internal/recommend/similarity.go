// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package recommend

import (
	"math"

	"github.com/tomtom215/indicium/internal/dataset"
)

// Similarity scores how alike two datasets are, as the cosine similarity of
// their numeric column mean vectors. Columns are matched by name; columns
// present in only one frame contribute a zero on the other side.
//
// Returns 0 when either frame has no numeric data or when either mean
// vector has zero magnitude.
func Similarity(a, b *dataset.Frame) float64 {
	if a == nil || b == nil {
		return 0
	}

	meansA := columnMeans(a)
	meansB := columnMeans(b)
	if len(meansA) == 0 || len(meansB) == 0 {
		return 0
	}

	names := make(map[string]struct{}, len(meansA)+len(meansB))
	for name := range meansA {
		names[name] = struct{}{}
	}
	for name := range meansB {
		names[name] = struct{}{}
	}

	var dot, magA, magB float64
	for name := range names {
		va := meansA[name]
		vb := meansB[name]
		dot += va * vb
		magA += va * va
		magB += vb * vb
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// columnMeans returns the mean of each numeric column with at least one
// observed value.
func columnMeans(f *dataset.Frame) map[string]float64 {
	means := make(map[string]float64)
	for _, col := range f.NumericColumns() {
		values := col.Values()
		if len(values) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		means[col.Name] = sum / float64(len(values))
	}
	return means
}
