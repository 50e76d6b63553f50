package main

import (
	"context"
	"testing"

	"github.com/chazu/patterncut/pkg/diag"
	"github.com/chazu/patterncut/pkg/kernel/sdfx"
	"github.com/chazu/patterncut/pkg/pattern"
)

// TestScenarios exercises all six end-to-end scenarios against the real
// sdfx-backed kernel, the way main() sequences them.
func TestScenarios(t *testing.T) {
	ctx := context.Background()
	k := sdfx.New()
	sink := diag.NopSink{}

	if err := gripLines(ctx, k, sink); err != nil {
		t.Errorf("gripLines: %v", err)
	}
	if err := roundedSlots(ctx, k, sink); err != nil {
		t.Errorf("roundedSlots: %v", err)
	}
	if err := hexField(ctx, k, sink, pattern.ClipPartial); err != nil {
		t.Errorf("hexField(partial): %v", err)
	}
	if err := hexField(ctx, k, sink, pattern.ClipWhole); err != nil {
		t.Errorf("hexField(whole): %v", err)
	}
	if err := squareBorder(ctx, k, sink); err != nil {
		t.Errorf("squareBorder: %v", err)
	}
	if err := hexagonBorder(ctx, k, sink); err != nil {
		t.Errorf("hexagonBorder: %v", err)
	}
}
