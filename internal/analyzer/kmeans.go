// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package analyzer

import (
	"math"
	"math/rand"
)

// kmeansMaxIterations bounds Lloyd iterations per run.
const kmeansMaxIterations = 100

// kmeansResult holds the outcome of a clustering run.
type kmeansResult struct {
	labels  []int
	inertia float64
}

// kmeans clusters the points into k groups using Lloyd's algorithm with
// random (Forgy) initialization. It runs restarts times and keeps the run
// with the lowest inertia. The rng makes results deterministic for a fixed
// seed.
func kmeans(points [][]float64, k, restarts int, rng *rand.Rand) kmeansResult {
	n := len(points)
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	if restarts < 1 {
		restarts = 1
	}

	best := kmeansResult{inertia: math.Inf(1)}
	for run := 0; run < restarts; run++ {
		result := kmeansOnce(points, k, rng)
		if result.inertia < best.inertia {
			best = result
		}
	}
	return best
}

// kmeansOnce performs a single k-means run.
func kmeansOnce(points [][]float64, k int, rng *rand.Rand) kmeansResult {
	n := len(points)
	dims := len(points[0])

	// Forgy initialization: k distinct random points become centroids.
	perm := rng.Perm(n)
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}

	labels := make([]int, n)
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false

		// Assignment step.
		for i, p := range points {
			bestCluster := 0
			bestDist := math.Inf(1)
			for c, centroid := range centroids {
				d := squaredDistance(p, centroid)
				if d < bestDist {
					bestDist = d
					bestCluster = c
				}
			}
			if labels[i] != bestCluster {
				labels[i] = bestCluster
				changed = true
			}
		}

		if iter > 0 && !changed {
			break
		}

		// Update step.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Empty cluster: reseed with a random point.
				centroids[c] = append([]float64(nil), points[rng.Intn(n)]...)
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += squaredDistance(p, centroids[labels[i]])
	}

	return kmeansResult{labels: labels, inertia: inertia}
}

// squaredDistance returns the squared Euclidean distance between two points.
func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// standardize z-scores each column of the matrix in place using the
// population standard deviation. Columns with zero variance become all
// zeros.
func standardize(points [][]float64) {
	if len(points) == 0 {
		return
	}
	dims := len(points[0])

	for d := 0; d < dims; d++ {
		col := make([]float64, len(points))
		for i, p := range points {
			col[i] = p[d]
		}
		mean := Mean(col)
		std := popStdDev(col)
		for i := range points {
			if std == 0 {
				points[i][d] = 0
				continue
			}
			points[i][d] = (points[i][d] - mean) / std
		}
	}
}
