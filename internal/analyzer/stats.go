// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package analyzer

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Returns 0 for fewer than two values.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// popStdDev returns the population standard deviation (n denominator),
// used for z-score standardization before clustering.
func popStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// Quantile returns the q-th quantile (0 <= q <= 1) using linear
// interpolation between closest ranks, matching the default dataframe
// semantics. Returns 0 for an empty slice.
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(n-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// Median returns the 50th percentile.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Skewness returns the bias-adjusted sample skewness (the G1 estimator,
// matching the dataframe library's skew). Returns 0 for fewer than three
// values or zero variance.
func Skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	mean := Mean(values)

	var m2, m3 float64
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}

	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// Kurtosis returns the bias-adjusted excess kurtosis (the G2 estimator,
// matching the dataframe library's kurtosis). Returns 0 for fewer than four
// values or zero variance.
func Kurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return 0
	}
	mean := Mean(values)

	var m2, m4 float64
	for _, v := range values {
		d := v - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}

	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

// Pearson returns the Pearson correlation coefficient of the paired samples.
// The inputs must have equal length. Returns 0 (and false) when either side
// has zero variance or fewer than two observations.
func Pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, false
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}

	return cov / math.Sqrt(varX*varY), true
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
