// Package routesfile loads the static vehicle-to-route manifest. Routes
// are configuration, read once at process start; there is no runtime
// mutation API.
package routesfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
)

// manifest mirrors the on-disk JSON shape.
type manifest struct {
	Routes []manifestRoute `json:"routes"`
}

type manifestRoute struct {
	VehicleID string             `json:"vehicle_id"`
	Name      string             `json:"name"`
	Waypoints []manifestWaypoint `json:"waypoints"`
}

type manifestWaypoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Registry is an immutable in-memory implementation of ports.RouteRegistry.
type Registry struct {
	byVehicle map[string]domain.Route
	ordered   []domain.Route
}

// Load reads and validates a routes manifest. Every route needs a vehicle
// id, at least two waypoints in travel order, and in-range coordinates;
// a manifest violating any of these is rejected here so the progress
// engine never sees a malformed route.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes manifest: %w", err)
	}
	return Parse(data)
}

// Parse builds a Registry from raw manifest JSON.
func Parse(data []byte) (*Registry, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse routes manifest: %w", err)
	}
	if len(m.Routes) == 0 {
		return nil, fmt.Errorf("routes manifest is empty")
	}

	reg := &Registry{byVehicle: make(map[string]domain.Route, len(m.Routes))}

	for _, mr := range m.Routes {
		if mr.VehicleID == "" {
			return nil, fmt.Errorf("route %q: vehicle_id is required", mr.Name)
		}
		if _, dup := reg.byVehicle[mr.VehicleID]; dup {
			return nil, fmt.Errorf("duplicate route for vehicle %s", mr.VehicleID)
		}
		if len(mr.Waypoints) < 2 {
			return nil, fmt.Errorf("route for vehicle %s: need at least 2 waypoints, got %d",
				mr.VehicleID, len(mr.Waypoints))
		}

		route := domain.Route{
			VehicleID: mr.VehicleID,
			Name:      mr.Name,
			Waypoints: make([]domain.Waypoint, 0, len(mr.Waypoints)),
		}
		for i, wp := range mr.Waypoints {
			if wp.Name == "" {
				return nil, fmt.Errorf("route for vehicle %s: waypoint %d has no name", mr.VehicleID, i)
			}
			if wp.Lat < -90 || wp.Lat > 90 || wp.Lng < -180 || wp.Lng > 180 {
				return nil, fmt.Errorf("route for vehicle %s: waypoint %q has out-of-range coordinates",
					mr.VehicleID, wp.Name)
			}
			route.Waypoints = append(route.Waypoints, domain.Waypoint{
				Name:     wp.Name,
				Location: domain.GeoPoint{Lat: wp.Lat, Lon: wp.Lng},
				Sequence: i,
			})
		}

		reg.byVehicle[mr.VehicleID] = route
		reg.ordered = append(reg.ordered, route)
	}

	return reg, nil
}

// RouteFor returns the route registered for the vehicle. ok=false for an
// unknown vehicle is an expected outcome, handled downstream by the
// progress engine's sentinel report.
func (r *Registry) RouteFor(vehicleID string) (*domain.Route, bool) {
	route, ok := r.byVehicle[vehicleID]
	if !ok {
		return nil, false
	}
	return &route, true
}

// All returns every registered route in manifest order.
func (r *Registry) All() []domain.Route {
	return r.ordered
}
