// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/indicium/internal/dataset"
)

// mockLoader serves canned frames per kind and counts loads.
type mockLoader struct {
	frames map[string]*dataset.Frame
	err    error
	loads  int
}

func (m *mockLoader) Load(kind string) (*dataset.Frame, error) {
	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.frames[kind]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return f, nil
}

func salesFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.FromColumns(map[string][]interface{}{
		"product_id":    []interface{}{1.0, 2.0, 3.0, 4.0, 5.0, 6.0},
		"revenue":       []interface{}{100.0, 600.0, 300.0, 500.0, 200.0, 400.0},
		"profit_margin": []interface{}{0.2, 0.3, 0.1, 0.4, 0.2, 0.3},
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func customerFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.FromColumns(map[string][]interface{}{
		"customer_id": []interface{}{10.0, 20.0, 30.0},
		"total_spent": []interface{}{50.0, 300.0, 150.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func testEngine(t *testing.T, opts Options) (*Engine, *mockLoader) {
	t.Helper()
	loader := &mockLoader{frames: map[string]*dataset.Frame{
		dataset.KindSales:    salesFrame(t),
		dataset.KindCustomer: customerFrame(t),
	}}
	return NewEngine(opts, loader, zerolog.Nop()), loader
}

func TestGenerateCardOrderAndContent(t *testing.T) {
	engine, _ := testEngine(t, Options{})

	cards, err := engine.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}

	if cards[0].Type != "product" || cards[1].Type != "customer" || cards[2].Type != "insight" {
		t.Errorf("card order = %s/%s/%s, want product/customer/insight",
			cards[0].Type, cards[1].Type, cards[2].Type)
	}

	if cards[0].Confidence != 0.85 || cards[1].Confidence != 0.78 || cards[2].Confidence != 0.92 {
		t.Errorf("confidences = %g/%g/%g", cards[0].Confidence, cards[1].Confidence, cards[2].Confidence)
	}

	// Top five products by revenue: 2, 4, 6, 3, 5.
	wantItems := []string{"Product 2", "Product 4", "Product 6", "Product 3", "Product 5"}
	if len(cards[0].Items) != len(wantItems) {
		t.Fatalf("product items = %v", cards[0].Items)
	}
	for i, want := range wantItems {
		if cards[0].Items[i] != want {
			t.Errorf("product item %d = %q, want %q", i, cards[0].Items[i], want)
		}
	}

	// Customers ranked by total spent: 20, 30, 10.
	if cards[1].Items[0] != "Customer 20" {
		t.Errorf("top customer = %q, want Customer 20", cards[1].Items[0])
	}

	// Insight card reports the average margin (0.25 => 25.00%).
	if !strings.Contains(cards[2].Items[0], "25.00%") {
		t.Errorf("insight item = %q, want average margin 25.00%%", cards[2].Items[0])
	}
}

func TestGenerateMinConfidenceFilter(t *testing.T) {
	engine, _ := testEngine(t, Options{})

	cards, err := engine.Generate(context.Background(), Request{MinConfidence: 0.9})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1 (only insight clears 0.9)", len(cards))
	}
	if cards[0].Type != "insight" {
		t.Errorf("surviving card = %s, want insight", cards[0].Type)
	}
}

func TestGenerateLimit(t *testing.T) {
	engine, _ := testEngine(t, Options{})

	cards, err := engine.Generate(context.Background(), Request{Limit: 2})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	// Order is preserved when capping.
	if cards[0].Type != "product" || cards[1].Type != "customer" {
		t.Errorf("capped cards = %s/%s", cards[0].Type, cards[1].Type)
	}
}

func TestGenerateUsesCache(t *testing.T) {
	engine, loader := testEngine(t, Options{CacheTTL: time.Minute})

	if _, err := engine.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	loadsAfterFirst := loader.loads

	if _, err := engine.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if loader.loads != loadsAfterFirst {
		t.Error("second identical request should be served from cache")
	}

	m := engine.Metrics()
	if m.CacheHits != 1 || m.CacheMisses != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", m.CacheHits, m.CacheMisses)
	}

	engine.InvalidateCache()
	if _, err := engine.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate after invalidate: %v", err)
	}
	if loader.loads == loadsAfterFirst {
		t.Error("invalidated cache should reload data")
	}
}

func TestGenerateLoaderError(t *testing.T) {
	loader := &mockLoader{err: errors.New("disk gone")}
	engine := NewEngine(Options{}, loader, zerolog.Nop())

	if _, err := engine.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error when loader fails")
	}
	if engine.Metrics().Errors != 1 {
		t.Errorf("errors = %d, want 1", engine.Metrics().Errors)
	}
}

func TestGenerateCanceledContext(t *testing.T) {
	engine, _ := testEngine(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestGenerateSkipsCardsWithMissingColumns(t *testing.T) {
	bare, err := dataset.FromColumns(map[string][]interface{}{
		"something": []interface{}{1.0, 2.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	loader := &mockLoader{frames: map[string]*dataset.Frame{
		dataset.KindSales:    bare,
		dataset.KindCustomer: bare,
	}}
	engine := NewEngine(Options{}, loader, zerolog.Nop())

	cards, err := engine.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("cards = %v, want none for frames lacking expected columns", cards)
	}
}

func TestFormatID(t *testing.T) {
	if got := formatID(42); got != "42" {
		t.Errorf("formatID(42) = %q, want 42", got)
	}
	if got := formatID(4.5); got != "4.5" {
		t.Errorf("formatID(4.5) = %q, want 4.5", got)
	}
}
