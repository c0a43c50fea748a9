// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package analyzer

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"simple", []float64{1, 2, 3, 4}, 2.5},
		{"negative", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.values); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("Mean(%v) = %g, want %g", tt.values, got, tt.want)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{3}, 0},
		// Sample std of 2,4,4,4,5,5,7,9 is sqrt(32/7).
		{"known", []float64{2, 4, 4, 4, 5, 5, 7, 9}, math.Sqrt(32.0 / 7.0)},
		{"constant", []float64{5, 5, 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StdDev(tt.values); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("StdDev(%v) = %g, want %g", tt.values, got, tt.want)
			}
		})
	}
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"min", 0, 1},
		{"p25", 0.25, 1.75},
		{"median interpolated", 0.5, 2.5},
		{"p75", 0.75, 3.25},
		{"max", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quantile(values, tt.q); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("Quantile(%v, %g) = %g, want %g", values, tt.q, got, tt.want)
			}
		})
	}

	if got := Quantile(nil, 0.5); got != 0 {
		t.Errorf("Quantile(nil, 0.5) = %g, want 0", got)
	}
	if got := Quantile([]float64{7}, 0.9); got != 7 {
		t.Errorf("Quantile single value = %g, want 7", got)
	}
}

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("Median odd = %g, want 2", got)
	}
	if got := Median([]float64{4, 1, 2, 3}); got != 2.5 {
		t.Errorf("Median even = %g, want 2.5", got)
	}
}

func TestSkewness(t *testing.T) {
	if got := Skewness([]float64{1, 2}); got != 0 {
		t.Errorf("Skewness of 2 values = %g, want 0", got)
	}
	if got := Skewness([]float64{5, 5, 5, 5}); got != 0 {
		t.Errorf("Skewness of constant = %g, want 0", got)
	}

	// Symmetric data has zero skewness.
	if got := Skewness([]float64{1, 2, 3, 4, 5}); !almostEqual(got, 0, 1e-12) {
		t.Errorf("Skewness of symmetric data = %g, want 0", got)
	}

	// Right-tailed data skews positive.
	if got := Skewness([]float64{1, 1, 1, 1, 10}); got <= 0 {
		t.Errorf("Skewness of right-tailed data = %g, want > 0", got)
	}
}

func TestKurtosis(t *testing.T) {
	if got := Kurtosis([]float64{1, 2, 3}); got != 0 {
		t.Errorf("Kurtosis of 3 values = %g, want 0", got)
	}
	if got := Kurtosis([]float64{2, 2, 2, 2}); got != 0 {
		t.Errorf("Kurtosis of constant = %g, want 0", got)
	}

	// Bias-adjusted excess kurtosis of a uniform sequence 1..5 is -1.2.
	if got := Kurtosis([]float64{1, 2, 3, 4, 5}); !almostEqual(got, -1.2, 1e-9) {
		t.Errorf("Kurtosis of 1..5 = %g, want -1.2", got)
	}
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name   string
		x, y   []float64
		want   float64
		wantOK bool
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1, true},
		{"perfect negative", []float64{1, 2, 3}, []float64{6, 4, 2}, -1, true},
		{"zero variance", []float64{1, 1, 1}, []float64{1, 2, 3}, 0, false},
		{"too short", []float64{1}, []float64{2}, 0, false},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pearson(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("Pearson ok = %v, want %v", ok, tt.wantOK)
			}
			if !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("Pearson = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestRoundTo(t *testing.T) {
	if got := roundTo(0.123456, 3); got != 0.123 {
		t.Errorf("roundTo(0.123456, 3) = %g, want 0.123", got)
	}
	if got := roundTo(-1.236, 2); !almostEqual(got, -1.24, 1e-12) {
		t.Errorf("roundTo(-1.236, 2) = %g, want -1.24", got)
	}
}
