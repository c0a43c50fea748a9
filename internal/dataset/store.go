// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // database/sql driver
	"github.com/google/uuid"

	"github.com/tomtom215/indicium/internal/config"
)

// ErrNotFound indicates the requested dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Dataset describes a stored dataset.
type Dataset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Source    string       `json:"source"` // "upload", "sample", "api"
	Rows      int          `json:"rows"`
	Cols      int          `json:"cols"`
	Columns   []ColumnMeta `json:"columns"`
	CreatedAt time.Time    `json:"created_at"`
}

// ColumnMeta describes one column of a stored dataset.
type ColumnMeta struct {
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
}

// Store persists datasets in DuckDB.
//
// Values are kept in long format (dataset, column ordinal, row index, value)
// so arbitrary column sets can be stored without DDL per upload. Columnar
// storage makes the shape cheap despite the row explosion, and reassembly is
// a single ordered scan per dataset.
type Store struct {
	conn *sql.DB
}

// schema creates the dataset tables when absent.
const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    id         VARCHAR PRIMARY KEY,
    name       VARCHAR NOT NULL,
    source     VARCHAR NOT NULL,
    row_count  INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS dataset_columns (
    dataset_id VARCHAR NOT NULL,
    ordinal    INTEGER NOT NULL,
    name       VARCHAR NOT NULL,
    kind       VARCHAR NOT NULL,
    PRIMARY KEY (dataset_id, ordinal)
);

CREATE TABLE IF NOT EXISTS dataset_values (
    dataset_id VARCHAR NOT NULL,
    ordinal    INTEGER NOT NULL,
    row_idx    INTEGER NOT NULL,
    num_value  DOUBLE,
    text_value VARCHAR,
    is_missing BOOLEAN NOT NULL
);
`

// NewStore opens (or creates) the DuckDB database and initializes the schema.
func NewStore(cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for file-backed databases.
	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dir, err)
			}
		}
	}

	// Disable auto-install/auto-load of extensions to prevent hangs in
	// restricted network environments.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// DuckDB is an in-process engine; a single connection avoids write
	// contention across the pool.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Save stores a frame and returns its metadata record.
func (s *Store) Save(ctx context.Context, name, source string, f *Frame) (Dataset, error) {
	ds := Dataset{
		ID:        uuid.New().String(),
		Name:      name,
		Source:    source,
		Rows:      f.Rows(),
		Cols:      f.Cols(),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Dataset{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, source, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.Source, ds.Rows, ds.CreatedAt,
	); err != nil {
		return Dataset{}, fmt.Errorf("insert dataset: %w", err)
	}

	colStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_columns (dataset_id, ordinal, name, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Dataset{}, fmt.Errorf("prepare column insert: %w", err)
	}
	defer colStmt.Close() //nolint:errcheck // statement closed with tx

	valStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_values (dataset_id, ordinal, row_idx, num_value, text_value, is_missing) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Dataset{}, fmt.Errorf("prepare value insert: %w", err)
	}
	defer valStmt.Close() //nolint:errcheck // statement closed with tx

	for ordinal, col := range f.Columns() {
		if _, err := colStmt.ExecContext(ctx, ds.ID, ordinal, col.Name, string(col.Kind)); err != nil {
			return Dataset{}, fmt.Errorf("insert column %q: %w", col.Name, err)
		}
		ds.Columns = append(ds.Columns, ColumnMeta{Ordinal: ordinal, Name: col.Name, Kind: string(col.Kind)})

		for row := 0; row < col.Len(); row++ {
			var numVal sql.NullFloat64
			var textVal sql.NullString
			if !col.Missing[row] {
				if col.Kind == KindNumeric {
					numVal = sql.NullFloat64{Float64: col.Floats[row], Valid: true}
				} else {
					textVal = sql.NullString{String: col.Strings[row], Valid: true}
				}
			}
			if _, err := valStmt.ExecContext(ctx, ds.ID, ordinal, row, numVal, textVal, col.Missing[row]); err != nil {
				return Dataset{}, fmt.Errorf("insert value %s[%d]: %w", col.Name, row, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Dataset{}, fmt.Errorf("commit: %w", err)
	}

	return ds, nil
}

// Get returns dataset metadata by ID.
func (s *Store) Get(ctx context.Context, id string) (Dataset, error) {
	var ds Dataset
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name, source, row_count, created_at FROM datasets WHERE id = ?`, id,
	).Scan(&ds.ID, &ds.Name, &ds.Source, &ds.Rows, &ds.CreatedAt)
	if err == sql.ErrNoRows {
		return Dataset{}, ErrNotFound
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("query dataset: %w", err)
	}

	cols, err := s.columnMeta(ctx, id)
	if err != nil {
		return Dataset{}, err
	}
	ds.Columns = cols
	ds.Cols = len(cols)

	return ds, nil
}

// List returns all stored datasets, newest first.
func (s *Store) List(ctx context.Context) ([]Dataset, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, source, row_count, created_at FROM datasets ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	out := []Dataset{}
	for rows.Next() {
		var ds Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.Source, &ds.Rows, &ds.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}

	for i := range out {
		cols, err := s.columnMeta(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Columns = cols
		out[i].Cols = len(cols)
	}

	return out, nil
}

// Delete removes a dataset and its values.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_columns WHERE dataset_id = ?`, id); err != nil {
		return fmt.Errorf("delete columns: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_values WHERE dataset_id = ?`, id); err != nil {
		return fmt.Errorf("delete values: %w", err)
	}

	return tx.Commit()
}

// Load reassembles the stored frame for a dataset.
func (s *Store) Load(ctx context.Context, id string) (*Frame, error) {
	ds, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, len(ds.Columns))
	for i, meta := range ds.Columns {
		columns[i] = Column{
			Name:    meta.Name,
			Kind:    ColumnKind(meta.Kind),
			Missing: make([]bool, ds.Rows),
		}
		if columns[i].Kind == KindNumeric {
			columns[i].Floats = make([]float64, ds.Rows)
		} else {
			columns[i].Strings = make([]string, ds.Rows)
		}
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT ordinal, row_idx, num_value, text_value, is_missing
		 FROM dataset_values WHERE dataset_id = ? ORDER BY ordinal, row_idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query values: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	for rows.Next() {
		var ordinal, rowIdx int
		var numVal sql.NullFloat64
		var textVal sql.NullString
		var missing bool
		if err := rows.Scan(&ordinal, &rowIdx, &numVal, &textVal, &missing); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		if ordinal < 0 || ordinal >= len(columns) || rowIdx < 0 || rowIdx >= ds.Rows {
			return nil, fmt.Errorf("value out of range: ordinal=%d row=%d", ordinal, rowIdx)
		}

		col := &columns[ordinal]
		col.Missing[rowIdx] = missing
		if missing {
			continue
		}
		if col.Kind == KindNumeric {
			col.Floats[rowIdx] = numVal.Float64
		} else {
			col.Strings[rowIdx] = textVal.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate values: %w", err)
	}

	return New(columns...)
}

// columnMeta loads the ordered column metadata for a dataset.
func (s *Store) columnMeta(ctx context.Context, id string) ([]ColumnMeta, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT ordinal, name, kind FROM dataset_columns WHERE dataset_id = ? ORDER BY ordinal`, id)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	out := []ColumnMeta{}
	for rows.Next() {
		var meta ColumnMeta
		if err := rows.Scan(&meta.Ordinal, &meta.Name, &meta.Kind); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		out = append(out, meta)
	}
	return out, rows.Err()
}
