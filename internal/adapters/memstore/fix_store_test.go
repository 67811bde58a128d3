package memstore_test

import (
	"testing"
	"time"

	"github.com/Vishal-jain-01/bustrack/internal/adapters/memstore"
	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/clock"
)

func fixFor(vehicleID string, capturedAt time.Time) domain.EnrichedFix {
	return domain.EnrichedFix{
		Fix: domain.Fix{
			VehicleID:  vehicleID,
			Location:   domain.GeoPoint{Lat: 28.9730, Lon: 77.6410},
			CapturedAt: capturedAt,
		},
	}
}

func TestCurrent_FreshInsideWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(5*time.Minute, clk)

	if !store.Record(fixFor("bus-1", now)) {
		t.Fatal("record rejected")
	}

	clk.Advance(4 * time.Minute)

	snap, ok := store.Current("bus-1")
	if !ok {
		t.Fatal("expected snapshot")
	}
	if !snap.IsFresh {
		t.Error("fix inside window flagged stale")
	}
	if snap.AgeSeconds != 240 {
		t.Errorf("age = %v, want 240", snap.AgeSeconds)
	}
}

func TestCurrent_StaleBeyondWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(5*time.Minute, clk)

	store.Record(fixFor("bus-1", now))
	clk.Advance(6 * time.Minute)

	snap, ok := store.Current("bus-1")
	if !ok {
		t.Fatal("stale fix should still be returned")
	}
	if snap.IsFresh {
		t.Error("fix beyond window flagged fresh")
	}
	if snap.VehicleID != "bus-1" {
		t.Errorf("snapshot vehicle = %q", snap.VehicleID)
	}
}

func TestCurrent_ExactWindowBoundaryIsFresh(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(5*time.Minute, clk)

	store.Record(fixFor("bus-1", now))
	clk.Advance(5 * time.Minute)

	snap, _ := store.Current("bus-1")
	if !snap.IsFresh {
		t.Error("fix at exactly the window edge should be fresh")
	}
}

func TestCurrent_UnknownVehicle(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	store := memstore.New(5*time.Minute, clk)

	if _, ok := store.Current("bus-9"); ok {
		t.Error("expected ok=false for unreported vehicle")
	}
}

func TestRecord_OverwritesNewerFix(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(5*time.Minute, clk)

	first := fixFor("bus-1", now)
	first.Speed = 10
	store.Record(first)

	clk.Advance(time.Minute)
	second := fixFor("bus-1", now.Add(time.Minute))
	second.Speed = 40
	if !store.Record(second) {
		t.Fatal("newer fix rejected")
	}

	snap, _ := store.Current("bus-1")
	if snap.Speed != 40 {
		t.Errorf("slot not overwritten, speed = %v", snap.Speed)
	}
	if store.Len() != 1 {
		t.Errorf("len = %d, want 1", store.Len())
	}
}

func TestRecord_RejectsOlderCapture(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(5*time.Minute, clk)

	current := fixFor("bus-1", now)
	current.Speed = 40
	store.Record(current)

	// Arrives later but was captured earlier.
	clk.Advance(time.Second)
	late := fixFor("bus-1", now.Add(-30*time.Second))
	late.Speed = 5
	if store.Record(late) {
		t.Fatal("older capture accepted")
	}

	snap, _ := store.Current("bus-1")
	if snap.Speed != 40 {
		t.Errorf("late fix disturbed the slot, speed = %v", snap.Speed)
	}
}

func TestRecord_StampsReceivedAt(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(5*time.Minute, clk)

	fix := fixFor("bus-1", now.Add(-10*time.Second))
	fix.ReceivedAt = now.Add(-time.Hour) // caller's stamp must not survive
	store.Record(fix)

	snap, _ := store.Current("bus-1")
	if !snap.ReceivedAt.Equal(now) {
		t.Errorf("received_at = %v, want %v", snap.ReceivedAt, now)
	}
}

func TestAllActive_FiltersStale(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)
	store := memstore.New(5*time.Minute, clk)

	store.Record(fixFor("bus-old", now))
	clk.Advance(4 * time.Minute)
	store.Record(fixFor("bus-new", now.Add(4*time.Minute)))
	clk.Advance(2 * time.Minute) // bus-old is now 6m old, bus-new 2m

	active := store.AllActive()
	if len(active) != 1 {
		t.Fatalf("expected 1 active fix, got %d", len(active))
	}
	if active[0].VehicleID != "bus-new" {
		t.Errorf("active vehicle = %q, want bus-new", active[0].VehicleID)
	}
	if store.Len() != 2 {
		t.Errorf("len = %d, want 2 (stale entries are kept)", store.Len())
	}
}

func TestAllActive_Empty(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	store := memstore.New(5*time.Minute, clk)

	if got := store.AllActive(); len(got) != 0 {
		t.Errorf("expected empty slice, got %d fixes", len(got))
	}
}
