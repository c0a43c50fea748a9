// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/indicium/internal/config"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "256MB",
		Threads:   1,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func testStoreFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := FromColumns(map[string][]interface{}{
		"amount": []interface{}{10.5, nil, 30.0},
		"label":  []interface{}{"a", "b", nil},
	})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	return f
}

func TestStoreSaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "quarterly", "upload", testStoreFrame(t))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("saved dataset has no ID")
	}
	if saved.Rows != 3 || saved.Cols != 2 {
		t.Errorf("saved shape = %dx%d, want 3x2", saved.Rows, saved.Cols)
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "quarterly" || got.Source != "upload" {
		t.Errorf("got %+v", got)
	}
	if len(got.Columns) != 2 {
		t.Fatalf("column meta count = %d, want 2", len(got.Columns))
	}
	if got.Columns[0].Name != "amount" || got.Columns[0].Kind != string(KindNumeric) {
		t.Errorf("first column meta = %+v", got.Columns[0])
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := testStore(t)

	_, err := store.Get(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "roundtrip", "api", testStoreFrame(t))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	frame, err := store.Load(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if frame.Rows() != 3 || frame.Cols() != 2 {
		t.Fatalf("loaded shape = %dx%d, want 3x2", frame.Rows(), frame.Cols())
	}

	amount := frame.Column("amount")
	if amount == nil || amount.Kind != KindNumeric {
		t.Fatal("amount column missing or wrong kind after reload")
	}
	if amount.Floats[0] != 10.5 || !amount.Missing[1] || amount.Floats[2] != 30 {
		t.Errorf("amount = %v missing=%v", amount.Floats, amount.Missing)
	}

	label := frame.Column("label")
	if label == nil || label.Kind != KindText {
		t.Fatal("label column missing or wrong kind after reload")
	}
	if label.Strings[0] != "a" || !label.Missing[2] {
		t.Errorf("label = %v missing=%v", label.Strings, label.Missing)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, "first", "upload", testStoreFrame(t))
	if err != nil {
		t.Fatalf("Save first: %v", err)
	}
	second, err := store.Save(ctx, "second", "upload", testStoreFrame(t))
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}

	// Newest first; same-timestamp saves keep a stable order by creation.
	ids := map[string]bool{list[0].ID: true, list[1].ID: true}
	if !ids[first.ID] || !ids[second.ID] {
		t.Errorf("list missing saved datasets: %v", list)
	}
}

func TestStoreDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "doomed", "upload", testStoreFrame(t))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if _, err := store.Load(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestStorePing(t *testing.T) {
	store := testStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
