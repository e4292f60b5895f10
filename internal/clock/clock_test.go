package clock

import (
	"testing"
	"time"
)

func TestMonotonic_NeverGoesBackwards(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	base := Sequence(t0, t0.Add(-time.Minute), t0.Add(time.Second))
	clk := NewMonotonic(base)

	first := clk.Now()
	second := clk.Now()
	third := clk.Now()

	if !first.Equal(t0) {
		t.Fatalf("expected %v, got %v", t0, first)
	}
	if !second.Equal(t0) {
		t.Fatalf("expected stepped-back reading clamped to %v, got %v", t0, second)
	}
	if !third.Equal(t0.Add(time.Second)) {
		t.Fatalf("expected %v, got %v", t0.Add(time.Second), third)
	}
}

func TestSequence_RepeatsLast(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clk := Sequence(t0)
	_ = clk.Now()
	if got := clk.Now(); !got.Equal(t0) {
		t.Fatalf("expected %v, got %v", t0, got)
	}
}
