// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package dataset

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

// Sample kinds understood by the generator and loader.
const (
	KindSales      = "sales"
	KindCustomer   = "customer"
	KindMarketing  = "marketing"
	KindOperations = "operations"
)

// sampleFiles maps dataset kinds to the CSV file names searched in the data
// directory before falling back to generated data.
var sampleFiles = map[string]string{
	KindSales:      "sample_sales_data.csv",
	KindCustomer:   "sample_customer_data.csv",
	KindMarketing:  "sample_marketing_data.csv",
	KindOperations: "sample_operations_data.csv",
}

// Sample generates a deterministic demonstration dataset of the given kind.
// The same seed always yields the same frame.
//
// Shapes:
//   - sales: 100 rows of product_id, sales_volume, revenue, profit_margin
//   - customer: 200 rows of customer_id, age, purchase_frequency, total_spent
//   - anything else: 50 rows of id, value, category
func Sample(kind string, seed int64) *Frame {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // demonstration data, not crypto

	switch kind {
	case KindSales:
		const n = 100
		return mustFrame(
			sequenceColumn("product_id", n),
			intColumn(rng, "sales_volume", n, 10, 1000),
			floatColumn(rng, "revenue", n, 100, 10000),
			floatColumn(rng, "profit_margin", n, 0.1, 0.5),
		)
	case KindCustomer:
		const n = 200
		return mustFrame(
			sequenceColumn("customer_id", n),
			intColumn(rng, "age", n, 18, 80),
			intColumn(rng, "purchase_frequency", n, 1, 50),
			floatColumn(rng, "total_spent", n, 50, 5000),
		)
	default:
		const n = 50
		categories := []string{"A", "B", "C"}
		picks := make([]string, n)
		value := floatColumn(rng, "value", n, 0, 100)
		for i := range picks {
			picks[i] = categories[rng.Intn(len(categories))]
		}
		return mustFrame(
			sequenceColumn("id", n),
			value,
			Column{Name: "category", Kind: KindText, Strings: picks, Missing: make([]bool, n)},
		)
	}
}

// sequenceColumn builds a numeric identity column 1..n.
func sequenceColumn(name string, n int) Column {
	floats := make([]float64, n)
	for i := range floats {
		floats[i] = float64(i + 1)
	}
	return Column{Name: name, Kind: KindNumeric, Floats: floats, Missing: make([]bool, n)}
}

// intColumn builds a numeric column of integers drawn from [low, high).
func intColumn(rng *rand.Rand, name string, n int, low, high int) Column {
	floats := make([]float64, n)
	for i := range floats {
		floats[i] = float64(low + rng.Intn(high-low))
	}
	return Column{Name: name, Kind: KindNumeric, Floats: floats, Missing: make([]bool, n)}
}

// floatColumn builds a numeric column of floats drawn uniformly from [low, high).
func floatColumn(rng *rand.Rand, name string, n int, low, high float64) Column {
	floats := make([]float64, n)
	for i := range floats {
		floats[i] = low + rng.Float64()*(high-low)
	}
	return Column{Name: name, Kind: KindNumeric, Floats: floats, Missing: make([]bool, n)}
}

// mustFrame wraps New for generated columns, which are equal length by construction.
func mustFrame(columns ...Column) *Frame {
	f, err := New(columns...)
	if err != nil {
		panic(fmt.Sprintf("generated frame invalid: %v", err))
	}
	return f
}

// Loader resolves sample datasets, preferring CSV files from the data
// directory and falling back to generated data.
type Loader struct {
	dir  string
	seed int64
}

// NewLoader creates a Loader reading from dir. Seed controls generated
// fallback data.
func NewLoader(dir string, seed int64) *Loader {
	return &Loader{dir: dir, seed: seed}
}

// Load returns the dataset of the given kind.
// A CSV file named sample_<kind>_data.csv in the data directory takes
// precedence; otherwise a generated sample is returned. Unknown kinds fall
// back to the generic generated dataset.
func (l *Loader) Load(kind string) (*Frame, error) {
	name, known := sampleFiles[kind]
	if known && l.dir != "" {
		path := filepath.Join(l.dir, name)
		if f, err := os.Open(path); err == nil {
			defer f.Close() //nolint:errcheck // read-only file
			frame, perr := ParseCSV(f)
			if perr != nil {
				return nil, fmt.Errorf("parse %s: %w", path, perr)
			}
			return frame, nil
		}
	}
	return Sample(kind, l.seed), nil
}
