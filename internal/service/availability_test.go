package service

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAvailabilityEmptyUpTime(t *testing.T) {
	if got := Availability(nil, nil, t0); got != 0 {
		t.Fatalf("expected 0 for empty history, got %v", got)
	}
	if got := Availability(nil, []time.Time{t0}, t0.Add(time.Hour)); got != 0 {
		t.Fatalf("expected 0 with only downtime, got %v", got)
	}
}

func TestAvailabilityStillRunning(t *testing.T) {
	// one up entry, no down entries: up for the whole observed window
	now := t0.Add(3 * time.Hour)
	if got := Availability([]time.Time{t0}, nil, now); got != 100 {
		t.Fatalf("expected 100 for still-running service, got %v", got)
	}
}

func TestAvailabilityHalfUp(t *testing.T) {
	up := []time.Time{t0, t0.Add(2 * time.Hour)}
	down := []time.Time{t0.Add(time.Hour), t0.Add(3 * time.Hour)}
	got := Availability(up, down, t0.Add(4*time.Hour))
	// 2h up over a 3h window (t0 .. last pair end)
	want := 2.0 / 3.0 * 100
	if diff := got - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected ~%.3f, got %v", want, got)
	}
}

func TestAvailabilityInvertedPairSkipped(t *testing.T) {
	// second pair has down before up and must be ignored, not corrected
	up := []time.Time{t0, t0.Add(2 * time.Hour)}
	down := []time.Time{t0.Add(time.Hour), t0.Add(90 * time.Minute)}
	got := Availability(up, down, t0.Add(4*time.Hour))
	want := 100.0 // only the first pair is valid: 1h up over t0..t0+1h
	if diff := got - want; diff > 0.001 || diff < -0.001 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAvailabilityZeroWindow(t *testing.T) {
	if got := Availability([]time.Time{t0}, []time.Time{t0}, t0); got != 0 {
		t.Fatalf("expected 0 for zero-length window, got %v", got)
	}
}

func TestAvailabilityNegativeWindow(t *testing.T) {
	// now before the first up entry; window is negative
	if got := Availability([]time.Time{t0}, nil, t0.Add(-time.Hour)); got != 0 {
		t.Fatalf("expected 0 for negative window, got %v", got)
	}
}

func TestAvailabilityBounds(t *testing.T) {
	up := []time.Time{t0, t0.Add(time.Hour), t0.Add(5 * time.Hour)}
	down := []time.Time{t0.Add(30 * time.Minute), t0.Add(2 * time.Hour)}
	got := Availability(up, down, t0.Add(10*time.Hour))
	if got < 0 || got > 100 {
		t.Fatalf("availability out of bounds: %v", got)
	}
}

func TestAvailabilityDoesNotMutateInputs(t *testing.T) {
	up := []time.Time{t0}
	down := make([]time.Time, 0, 4)
	_ = Availability(up, down, t0.Add(time.Hour))
	if len(down) != 0 {
		t.Fatalf("downTime mutated by calculation: %v", down)
	}
}
