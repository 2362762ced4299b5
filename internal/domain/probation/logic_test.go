package probation

import (
	"testing"
	"time"
)

func TestCanExtend(t *testing.T) {
	if !CanExtend(0) {
		t.Fatal("expected first extension allowed")
	}
	if !CanExtend(1) {
		t.Fatal("expected second extension allowed")
	}
	if CanExtend(2) {
		t.Fatal("expected third extension denied")
	}
	if CanExtend(5) {
		t.Fatal("expected extension denied past the cap")
	}
}

func TestNextEndDateCalendarMonths(t *testing.T) {
	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	got := NextEndDate(start, 3)
	want := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextEndDateMonthEndNormalization(t *testing.T) {
	// AddDate normalizes Jan 31 + 1 month to Mar 2/3 rather than
	// clamping to Feb's end; the stored date must follow Go's rule.
	start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	got := NextEndDate(start, 1)
	want := start.AddDate(0, 1, 0)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOpenStatuses(t *testing.T) {
	if !open(StatusActive) || !open(StatusExtended) {
		t.Fatal("expected active and extended to be open")
	}
	if open(StatusConfirmed) || open(StatusTerminated) {
		t.Fatal("expected confirmed and terminated to be closed")
	}
}
