package geospatial_test

import (
	"math"
	"testing"

	"github.com/Vishal-jain-01/bustrack/internal/pkg/geospatial"
)

func TestHaversineKm_ZeroForSamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{28.9730, 77.6410},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}
	for _, p := range points {
		if d := geospatial.HaversineKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("distance from (%v,%v) to itself = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	d1 := geospatial.HaversineKm(28.9730, 77.6410, 29.0661, 77.7104)
	d2 := geospatial.HaversineKm(29.0661, 77.7104, 28.9730, 77.6410)
	if d1 != d2 {
		t.Errorf("asymmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// MIET Campus to modipuram, roughly 12.4 km great-circle
	d := geospatial.HaversineKm(28.9730, 77.6410, 29.0661, 77.7104)
	if d < 12 || d > 13 {
		t.Errorf("expected ~12.4 km, got %v", d)
	}
}

func TestHaversineKm_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.19 km with R=6371
	d := geospatial.HaversineKm(10, 20, 11, 20)
	if math.Abs(d-111.19) > 0.1 {
		t.Errorf("expected ~111.19 km, got %v", d)
	}
}
