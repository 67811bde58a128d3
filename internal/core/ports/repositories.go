package ports

import (
	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
)

// RouteRegistry resolves the static route registered for a vehicle.
// A nil route with ok=false is a first-class outcome, not an error:
// unknown vehicles degrade to an uninformative progress report downstream.
type RouteRegistry interface {
	RouteFor(vehicleID string) (*domain.Route, bool)
	All() []domain.Route
}

// FixStore holds the most recent enriched fix per vehicle.
type FixStore interface {
	// Record overwrites the vehicle's slot. It returns false when the fix
	// was discarded because its capture time predates the stored one.
	Record(fix domain.EnrichedFix) bool
	// Current returns the stored fix with its freshness classification,
	// or ok=false when the vehicle has never reported.
	Current(vehicleID string) (domain.FixSnapshot, bool)
	// AllActive returns every fix still inside the freshness window.
	AllActive() []domain.EnrichedFix
}
