package usecases

import (
	"fmt"
	"math"

	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/geospatial"
)

// Status label bands, by distance from the nearest waypoint.
const (
	atWaypointKm   = 0.3
	nearWaypointKm = 1.0
)

// EndOfRoute is reported as the next stop when the bus is nearest to the
// terminus.
const EndOfRoute = "End of Route"

// ProgressService derives route progress from raw GPS fixes. It is the
// single home of the nearest-waypoint heuristic: nearest stop, progress
// percentage, next stop, and a human-readable status label.
type ProgressService struct{}

// NewProgressService creates a new ProgressService.
func NewProgressService() *ProgressService {
	return &ProgressService{}
}

// Compute derives a ProgressReport for the fix against the given route.
// A nil route means the vehicle has no registered route; the report then
// degrades to an uninformative sentinel rather than failing ingestion.
// Compute never returns an error.
func (s *ProgressService) Compute(fix domain.Fix, route *domain.Route) domain.ProgressReport {
	if route == nil || len(route.Waypoints) == 0 {
		return domain.ProgressReport{
			NearestWaypointIndex: -1,
			StatusLabel:          "Unknown Route",
			NextWaypointName:     "N/A",
		}
	}

	// Nearest waypoint; ties break toward the lower index because the
	// best-so-far is only replaced on strict improvement.
	nearest := 0
	nearestKm := geospatial.HaversineKm(
		fix.Location.Lat, fix.Location.Lon,
		route.Waypoints[0].Location.Lat, route.Waypoints[0].Location.Lon,
	)
	for i := 1; i < len(route.Waypoints); i++ {
		d := geospatial.HaversineKm(
			fix.Location.Lat, fix.Location.Lon,
			route.Waypoints[i].Location.Lat, route.Waypoints[i].Location.Lon,
		)
		if d < nearestKm {
			nearest = i
			nearestKm = d
		}
	}

	report := domain.ProgressReport{
		NearestWaypointIndex: nearest,
		DistanceToNearestKm:  nearestKm,
		StatusLabel:          statusLabel(nearestKm, route.Waypoints[nearest].Name),
		NextWaypointName:     EndOfRoute,
	}

	if nearest < len(route.Waypoints)-1 {
		next := route.Waypoints[nearest+1]
		report.NextWaypointName = next.Name
		report.DistanceToNextKm = geospatial.HaversineKm(
			fix.Location.Lat, fix.Location.Lon,
			next.Location.Lat, next.Location.Lon,
		)
	}

	// Waypoint-index progress, not distance along the route. A bus between
	// two widely spaced waypoints reports the percentage of the nearer one,
	// so progress moves in visible steps. Consumers rely on these
	// monotonic-by-waypoint semantics.
	if n := len(route.Waypoints); n > 1 {
		report.ProgressPercent = int(math.Round(float64(nearest) / float64(n-1) * 100))
	}

	return report
}

func statusLabel(distanceKm float64, name string) string {
	switch {
	case distanceKm <= atWaypointKm:
		return fmt.Sprintf("At %s", name)
	case distanceKm <= nearWaypointKm:
		return fmt.Sprintf("Near %s", name)
	default:
		return fmt.Sprintf("Heading to %s", name)
	}
}
