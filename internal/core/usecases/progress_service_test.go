package usecases_test

import (
	"testing"

	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
	"github.com/Vishal-jain-01/bustrack/internal/core/usecases"
)

// mietRoute is the campus route used throughout: MIET Campus → rohta
// bypass → Meerut Cantt → modipuram.
func mietRoute() *domain.Route {
	return &domain.Route{
		VehicleID: "66d0123456a1b2c3d4e5f601",
		Name:      "MIET Campus — Modipuram",
		Waypoints: []domain.Waypoint{
			{Name: "MIET Campus", Location: domain.GeoPoint{Lat: 28.9730, Lon: 77.6410}, Sequence: 0},
			{Name: "rohta bypass", Location: domain.GeoPoint{Lat: 28.9954, Lon: 77.6456}, Sequence: 1},
			{Name: "Meerut Cantt", Location: domain.GeoPoint{Lat: 28.9938, Lon: 77.6822}, Sequence: 2},
			{Name: "modipuram", Location: domain.GeoPoint{Lat: 29.0661, Lon: 77.7104}, Sequence: 3},
		},
	}
}

func fixAt(lat, lon float64) domain.Fix {
	return domain.Fix{
		VehicleID: "66d0123456a1b2c3d4e5f601",
		Location:  domain.GeoPoint{Lat: lat, Lon: lon},
	}
}

func TestCompute_AtOrigin(t *testing.T) {
	svc := usecases.NewProgressService()
	report := svc.Compute(fixAt(28.9730, 77.6410), mietRoute())

	if report.NearestWaypointIndex != 0 {
		t.Errorf("nearest index = %d, want 0", report.NearestWaypointIndex)
	}
	if report.DistanceToNearestKm != 0 {
		t.Errorf("distance to nearest = %v, want 0", report.DistanceToNearestKm)
	}
	if report.StatusLabel != "At MIET Campus" {
		t.Errorf("status = %q, want %q", report.StatusLabel, "At MIET Campus")
	}
	if report.NextWaypointName != "rohta bypass" {
		t.Errorf("next = %q, want %q", report.NextWaypointName, "rohta bypass")
	}
	if report.ProgressPercent != 0 {
		t.Errorf("progress = %d, want 0", report.ProgressPercent)
	}
}

func TestCompute_AtSecondWaypoint(t *testing.T) {
	svc := usecases.NewProgressService()
	report := svc.Compute(fixAt(28.9954, 77.6456), mietRoute())

	if report.NearestWaypointIndex != 1 {
		t.Errorf("nearest index = %d, want 1", report.NearestWaypointIndex)
	}
	if report.ProgressPercent != 33 {
		t.Errorf("progress = %d, want 33", report.ProgressPercent)
	}
	if report.NextWaypointName != "Meerut Cantt" {
		t.Errorf("next = %q, want %q", report.NextWaypointName, "Meerut Cantt")
	}
}

func TestCompute_AtTerminus(t *testing.T) {
	svc := usecases.NewProgressService()
	report := svc.Compute(fixAt(29.0661, 77.7104), mietRoute())

	if report.NearestWaypointIndex != 3 {
		t.Errorf("nearest index = %d, want 3", report.NearestWaypointIndex)
	}
	if report.ProgressPercent != 100 {
		t.Errorf("progress = %d, want 100", report.ProgressPercent)
	}
	if report.NextWaypointName != usecases.EndOfRoute {
		t.Errorf("next = %q, want %q", report.NextWaypointName, usecases.EndOfRoute)
	}
	if report.DistanceToNextKm != 0 {
		t.Errorf("distance to next = %v, want 0", report.DistanceToNextKm)
	}
}

func TestCompute_UnknownRouteSentinel(t *testing.T) {
	svc := usecases.NewProgressService()
	report := svc.Compute(fixAt(28.9730, 77.6410), nil)

	if report.NearestWaypointIndex != -1 {
		t.Errorf("nearest index = %d, want -1", report.NearestWaypointIndex)
	}
	if report.StatusLabel != "Unknown Route" {
		t.Errorf("status = %q, want %q", report.StatusLabel, "Unknown Route")
	}
	if report.NextWaypointName != "N/A" {
		t.Errorf("next = %q, want %q", report.NextWaypointName, "N/A")
	}
	if report.ProgressPercent != 0 || report.DistanceToNearestKm != 0 || report.DistanceToNextKm != 0 {
		t.Errorf("sentinel report not zeroed: %+v", report)
	}
}

func TestCompute_StatusBands(t *testing.T) {
	svc := usecases.NewProgressService()

	// ~0.56 km north of MIET Campus: inside the "Near" band
	report := svc.Compute(fixAt(28.9780, 77.6410), mietRoute())
	if report.StatusLabel != "Near MIET Campus" {
		t.Errorf("status = %q, want %q (%.3f km)", report.StatusLabel, "Near MIET Campus", report.DistanceToNearestKm)
	}

	// ~2.2 km south of MIET Campus, farther from every other waypoint
	report = svc.Compute(fixAt(28.9530, 77.6410), mietRoute())
	if report.NearestWaypointIndex != 0 {
		t.Fatalf("nearest index = %d, want 0", report.NearestWaypointIndex)
	}
	if report.StatusLabel != "Heading to MIET Campus" {
		t.Errorf("status = %q, want %q", report.StatusLabel, "Heading to MIET Campus")
	}
}

func TestCompute_TieBreaksToLowerIndex(t *testing.T) {
	// Two waypoints at the same coordinate: the scan must keep the first.
	route := &domain.Route{
		VehicleID: "bus-tie",
		Waypoints: []domain.Waypoint{
			{Name: "A", Location: domain.GeoPoint{Lat: 28.9730, Lon: 77.6410}, Sequence: 0},
			{Name: "B", Location: domain.GeoPoint{Lat: 28.9730, Lon: 77.6410}, Sequence: 1},
			{Name: "C", Location: domain.GeoPoint{Lat: 29.0661, Lon: 77.7104}, Sequence: 2},
		},
	}

	svc := usecases.NewProgressService()
	report := svc.Compute(fixAt(28.9730, 77.6410), route)
	if report.NearestWaypointIndex != 0 {
		t.Errorf("nearest index = %d, want 0 (first of the tie)", report.NearestWaypointIndex)
	}
}

func TestCompute_ProgressMonotonicAcrossWaypoints(t *testing.T) {
	svc := usecases.NewProgressService()
	route := mietRoute()

	prev := -1
	for _, wp := range route.Waypoints {
		report := svc.Compute(fixAt(wp.Location.Lat, wp.Location.Lon), route)
		if report.ProgressPercent < prev {
			t.Errorf("progress decreased: %d after %d at %q", report.ProgressPercent, prev, wp.Name)
		}
		if report.ProgressPercent < 0 || report.ProgressPercent > 100 {
			t.Errorf("progress out of range at %q: %d", wp.Name, report.ProgressPercent)
		}
		prev = report.ProgressPercent
	}
}
