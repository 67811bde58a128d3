package domain

import (
	"time"
)

// FixSource identifies how a fix was produced on the driver side.
type FixSource string

const (
	SourceDriverGPS FixSource = "driver_gps"
	SourceFallback  FixSource = "fallback"
	SourceSimulated FixSource = "simulated"
)

// Waypoint is a named, ordered stop along a vehicle's route.
type Waypoint struct {
	Name     string   `json:"name"`
	Location GeoPoint `json:"location"`
	Sequence int      `json:"sequence"`
}

// Route is the ordered list of waypoints a vehicle is expected to traverse.
// Waypoints are listed in travel order: index 0 is the origin, the last
// index is the terminus. Routes are static configuration, loaded at startup.
type Route struct {
	VehicleID string     `json:"vehicle_id"`
	Name      string     `json:"name,omitempty"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Terminus returns the final waypoint of the route.
func (r Route) Terminus() Waypoint {
	return r.Waypoints[len(r.Waypoints)-1]
}

// Fix is a single raw GPS observation for one vehicle at one instant.
// It is the only externally supplied truth in the system.
type Fix struct {
	VehicleID  string    `json:"vehicle_id"`
	Location   GeoPoint  `json:"location"`
	Speed      float64   `json:"speed"`              // km/h, 0 when the device did not report one
	AccuracyM  float64   `json:"accuracy,omitempty"` // reported GPS accuracy in meters, informational only
	Source     FixSource `json:"source"`
	CapturedAt time.Time `json:"captured_at"`
}

// ProgressReport is derived from a Fix and the vehicle's route. It is never
// persisted on its own, only as part of an EnrichedFix.
type ProgressReport struct {
	NearestWaypointIndex int     `json:"nearest_waypoint_index"`
	DistanceToNearestKm  float64 `json:"distance_to_nearest_km"`
	StatusLabel          string  `json:"status_label"`
	NextWaypointName     string  `json:"next_waypoint_name"`
	ProgressPercent      int     `json:"progress_percent"`
	DistanceToNextKm     float64 `json:"distance_to_next_km"`
}

// EnrichedFix is a raw Fix combined with its computed ProgressReport and
// storage metadata. The fix store holds exactly one per vehicle,
// last write wins.
type EnrichedFix struct {
	Fix
	Progress   ProgressReport `json:"progress"`
	ReceivedAt time.Time      `json:"received_at"`
}

// FixSnapshot pairs a stored fix with its freshness classification at query
// time. A stale fix is still returned so callers can show "last known"
// positions, it is just never mislabeled as fresh.
type FixSnapshot struct {
	EnrichedFix
	AgeSeconds float64 `json:"age_seconds"`
	IsFresh    bool    `json:"is_fresh"`
}
