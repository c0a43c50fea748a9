// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package dataset provides the column-oriented tabular data model used by the
// analysis and recommendation engines, together with CSV ingestion, sample
// data generation, and DuckDB-backed persistence.
//
// A Frame is a small, immutable-by-convention table: an ordered list of named
// columns, each either numeric (float64 with a missing mask) or text. It
// covers exactly the operations the analyzers need - numeric selection,
// missing counts, and shape - without attempting to be a general dataframe.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
)

// ColumnKind distinguishes numeric from text columns.
type ColumnKind string

const (
	// KindNumeric marks columns holding float64 values.
	KindNumeric ColumnKind = "numeric"

	// KindText marks columns holding string values.
	KindText ColumnKind = "text"
)

// Column is a single named column of a Frame.
// For numeric columns Floats holds the values; for text columns Strings does.
// Missing marks absent cells for both kinds and is always the same length as
// the value slice.
type Column struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Floats  []float64  `json:"floats,omitempty"`
	Strings []string   `json:"strings,omitempty"`
	Missing []bool     `json:"missing,omitempty"`
}

// Len returns the number of cells in the column, including missing ones.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Values returns the non-missing numeric values in order.
// For text columns it returns nil.
func (c *Column) Values() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Frame is an ordered collection of equally sized columns.
type Frame struct {
	columns []Column
}

// New builds a Frame from the given columns.
// All columns must have the same length and distinct, non-empty names, and
// each column's Missing mask must match its value slice.
func New(columns ...Column) (*Frame, error) {
	seen := make(map[string]struct{}, len(columns))
	rows := -1
	for i := range columns {
		c := &columns[i]
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}

		if c.Kind != KindNumeric && c.Kind != KindText {
			return nil, fmt.Errorf("column %q has unknown kind %q", c.Name, c.Kind)
		}
		if c.Missing == nil {
			c.Missing = make([]bool, c.Len())
		}
		if len(c.Missing) != c.Len() {
			return nil, fmt.Errorf("column %q missing mask length %d does not match %d values",
				c.Name, len(c.Missing), c.Len())
		}

		if rows == -1 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, fmt.Errorf("ragged columns: %q has %d rows, expected %d", c.Name, c.Len(), rows)
		}
	}

	return &Frame{columns: columns}, nil
}

// FromColumns builds a Frame from decoded JSON column data of the shape
// {"col": [1, 2, null], "label": ["a", "b", "c"]}.
//
// A column whose non-null values are all JSON numbers becomes numeric;
// anything else becomes text with non-string values formatted. Column order
// is alphabetical by name since JSON objects carry no ordering.
func FromColumns(data map[string][]interface{}) (*Frame, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no columns provided")
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]Column, 0, len(names))
	for _, name := range names {
		columns = append(columns, buildColumn(name, data[name]))
	}

	return New(columns...)
}

// buildColumn classifies raw JSON cell values into a numeric or text column.
func buildColumn(name string, cells []interface{}) Column {
	numeric := true
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		if _, ok := toFloat(cell); !ok {
			numeric = false
			break
		}
	}

	missing := make([]bool, len(cells))
	if numeric {
		floats := make([]float64, len(cells))
		for i, cell := range cells {
			if cell == nil {
				missing[i] = true
				continue
			}
			floats[i], _ = toFloat(cell)
		}
		return Column{Name: name, Kind: KindNumeric, Floats: floats, Missing: missing}
	}

	strs := make([]string, len(cells))
	for i, cell := range cells {
		switch v := cell.(type) {
		case nil:
			missing[i] = true
		case string:
			strs[i] = v
		case float64:
			strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
		case bool:
			strs[i] = strconv.FormatBool(v)
		default:
			strs[i] = fmt.Sprint(v)
		}
	}
	return Column{Name: name, Kind: KindText, Strings: strs, Missing: missing}
}

// toFloat converts JSON-decoded numeric types to float64.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return f.columns[0].Len()
}

// Cols returns the number of columns.
func (f *Frame) Cols() int {
	return len(f.columns)
}

// Columns returns all columns in order.
func (f *Frame) Columns() []Column {
	return f.columns
}

// Column returns the column with the given name, or nil if absent.
func (f *Frame) Column(name string) *Column {
	for i := range f.columns {
		if f.columns[i].Name == name {
			return &f.columns[i]
		}
	}
	return nil
}

// NumericColumns returns the numeric columns in order.
func (f *Frame) NumericColumns() []Column {
	out := make([]Column, 0, len(f.columns))
	for _, c := range f.columns {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}

// Records returns up to limit rows as maps keyed by column name. Missing
// cells are nil. A non-positive limit returns all rows.
func (f *Frame) Records(limit int) []map[string]interface{} {
	n := f.Rows()
	if limit > 0 && limit < n {
		n = limit
	}
	records := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		row := make(map[string]interface{}, len(f.columns))
		for j := range f.columns {
			c := &f.columns[j]
			switch {
			case c.Missing[i]:
				row[c.Name] = nil
			case c.Kind == KindNumeric:
				row[c.Name] = c.Floats[i]
			default:
				row[c.Name] = c.Strings[i]
			}
		}
		records[i] = row
	}
	return records
}

// MissingCounts returns per-column missing value counts keyed by column name.
func (f *Frame) MissingCounts() map[string]int {
	out := make(map[string]int, len(f.columns))
	for i := range f.columns {
		out[f.columns[i].Name] = f.columns[i].MissingCount()
	}
	return out
}
