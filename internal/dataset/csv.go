// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyCSV indicates the input had no header row.
var ErrEmptyCSV = errors.New("csv input is empty")

// ParseCSV reads a CSV document with a header row into a Frame.
//
// Column types are inferred: a column where every non-empty cell parses as a
// float becomes numeric, everything else becomes text. Empty cells are
// missing values for both kinds.
func ParseCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		if names[i] == "" {
			return nil, fmt.Errorf("csv header column %d is empty", i+1)
		}
	}

	cells := make([][]string, len(names))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		if len(record) != len(names) {
			return nil, fmt.Errorf("csv record has %d fields, header has %d", len(record), len(names))
		}
		for i, v := range record {
			cells[i] = append(cells[i], strings.TrimSpace(v))
		}
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = inferColumn(name, cells[i])
	}

	return New(columns...)
}

// inferColumn converts raw CSV cells into a typed column.
func inferColumn(name string, cells []string) Column {
	numeric := true
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			numeric = false
			break
		}
	}

	missing := make([]bool, len(cells))
	if numeric {
		floats := make([]float64, len(cells))
		for i, cell := range cells {
			if cell == "" {
				missing[i] = true
				continue
			}
			floats[i], _ = strconv.ParseFloat(cell, 64)
		}
		return Column{Name: name, Kind: KindNumeric, Floats: floats, Missing: missing}
	}

	strs := make([]string, len(cells))
	for i, cell := range cells {
		if cell == "" {
			missing[i] = true
			continue
		}
		strs[i] = cell
	}
	return Column{Name: name, Kind: KindText, Strings: strs, Missing: missing}
}

// WriteCSV writes the Frame as CSV with a header row.
// Missing cells are written as empty strings. Used by the dataset export
// endpoint and round-trip tests.
func WriteCSV(w io.Writer, f *Frame) error {
	writer := csv.NewWriter(w)

	header := make([]string, f.Cols())
	for i, c := range f.Columns() {
		header[i] = c.Name
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, f.Cols())
	for row := 0; row < f.Rows(); row++ {
		for i, c := range f.Columns() {
			switch {
			case c.Missing[row]:
				record[i] = ""
			case c.Kind == KindNumeric:
				record[i] = strconv.FormatFloat(c.Floats[row], 'g', -1, 64)
			default:
				record[i] = c.Strings[row]
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
