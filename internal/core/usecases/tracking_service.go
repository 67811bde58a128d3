package usecases

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
	"github.com/Vishal-jain-01/bustrack/internal/core/ports"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/clock"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/metrics"
)

const activeFleetCacheKey = "fixes:active"

// FixAck acknowledges an ingested fix back to the driver client.
type FixAck struct {
	VehicleID       string    `json:"vehicle_id"`
	CapturedAt      time.Time `json:"captured_at"`
	CurrentStop     string    `json:"current_stop"`
	NextStop        string    `json:"next_stop"`
	ProgressPercent int       `json:"progress_percent"`
}

// TrackingService is the ingestion/query boundary: drivers submit fixes,
// students and admins read them back. Each fix is enriched with route
// progress before it is stored and broadcast.
type TrackingService struct {
	routes    ports.RouteRegistry
	store     ports.FixStore
	progress  *ProgressService
	publisher ports.EventPublisher
	cache     ports.CacheService
	clock     clock.Clock
	cacheTTL  int
}

// NewTrackingService creates a TrackingService. publisher and cache may be
// nil; ingestion and queries then work without broadcasting or caching.
func NewTrackingService(
	routes ports.RouteRegistry,
	store ports.FixStore,
	progress *ProgressService,
	publisher ports.EventPublisher,
	cache ports.CacheService,
	clk clock.Clock,
	cacheTTLSeconds int,
) *TrackingService {
	return &TrackingService{
		routes:    routes,
		store:     store,
		progress:  progress,
		publisher: publisher,
		cache:     cache,
		clock:     clk,
		cacheTTL:  cacheTTLSeconds,
	}
}

// SubmitFix enriches and records a raw fix. It cannot fail: unknown
// vehicles degrade to a sentinel progress report, and a fix older than the
// stored one is discarded without disturbing the current slot. Shape
// validation of the raw payload happens at the HTTP boundary.
func (s *TrackingService) SubmitFix(ctx context.Context, fix domain.Fix) FixAck {
	if fix.CapturedAt.IsZero() {
		fix.CapturedAt = s.clock.Now()
	}
	if fix.Source == "" {
		fix.Source = domain.SourceDriverGPS
	}

	route, ok := s.routes.RouteFor(fix.VehicleID)
	if !ok {
		metrics.UnknownRouteFixes.Inc()
		slog.Warn("no route registered for vehicle", "vehicle_id", fix.VehicleID)
	}

	report := s.progress.Compute(fix, route)
	enriched := domain.EnrichedFix{
		Fix:        fix,
		Progress:   report,
		ReceivedAt: s.clock.Now(),
	}

	if s.store.Record(enriched) {
		metrics.FixesIngested.WithLabelValues(string(fix.Source)).Inc()
		if s.publisher != nil {
			if err := s.publisher.PublishFix(ctx, &enriched); err != nil {
				slog.Warn("publish fix failed", "vehicle_id", fix.VehicleID, "error", err)
			}
		}
		if s.cache != nil {
			_ = s.cache.Delete(ctx, activeFleetCacheKey)
		}
	} else {
		metrics.OutOfOrderFixes.Inc()
		slog.Debug("discarded out-of-order fix",
			"vehicle_id", fix.VehicleID, "captured_at", fix.CapturedAt)
	}

	return FixAck{
		VehicleID:       fix.VehicleID,
		CapturedAt:      fix.CapturedAt,
		CurrentStop:     s.currentStopName(route, report),
		NextStop:        report.NextWaypointName,
		ProgressPercent: report.ProgressPercent,
	}
}

func (s *TrackingService) currentStopName(route *domain.Route, report domain.ProgressReport) string {
	if route == nil || report.NearestWaypointIndex < 0 {
		return "N/A"
	}
	return route.Waypoints[report.NearestWaypointIndex].Name
}

// QueryCurrent returns the vehicle's last known fix tagged fresh or stale,
// or ok=false when the vehicle has never reported.
func (s *TrackingService) QueryCurrent(ctx context.Context, vehicleID string) (domain.FixSnapshot, bool) {
	snap, ok := s.store.Current(vehicleID)
	if ok && !snap.IsFresh {
		metrics.StaleQueries.Inc()
	}
	return snap, ok
}

// QueryAllActive returns every fix inside the freshness window. The
// snapshot is served from cache for a few seconds when a cache is wired.
func (s *TrackingService) QueryAllActive(ctx context.Context) []domain.EnrichedFix {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, activeFleetCacheKey); err == nil {
			var fixes []domain.EnrichedFix
			if err := json.Unmarshal(data, &fixes); err == nil {
				metrics.CacheHits.WithLabelValues("active_fleet").Inc()
				return fixes
			}
		}
		metrics.CacheMisses.WithLabelValues("active_fleet").Inc()
	}

	fixes := s.store.AllActive()

	if s.cache != nil && s.cacheTTL > 0 {
		if data, err := json.Marshal(fixes); err == nil {
			_ = s.cache.Set(ctx, activeFleetCacheKey, data, s.cacheTTL)
		}
	}

	return fixes
}
