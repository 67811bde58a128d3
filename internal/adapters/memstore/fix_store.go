// Package memstore holds the most recent enriched fix per vehicle in a
// mutex-guarded map. There is no history and no eviction: a slot is
// overwritten by the next fix and queried until then, with freshness
// derived from wall-clock age at query time.
package memstore

import (
	"sync"
	"time"

	"github.com/Vishal-jain-01/bustrack/internal/core/domain"
	"github.com/Vishal-jain-01/bustrack/internal/pkg/clock"
)

// Store is an in-memory implementation of ports.FixStore.
type Store struct {
	mu     sync.RWMutex
	fixes  map[string]domain.EnrichedFix
	window time.Duration
	clock  clock.Clock
}

// New creates a Store with the given freshness window.
func New(window time.Duration, clk clock.Clock) *Store {
	return &Store{
		fixes:  make(map[string]domain.EnrichedFix),
		window: window,
		clock:  clk,
	}
}

// Record writes the vehicle's slot, stamping ReceivedAt. A fix whose
// capture time predates the stored fix's is discarded: last write wins on
// arrival order only when capture order agrees, so a delayed duplicate
// cannot roll a vehicle backward.
func (s *Store) Record(fix domain.EnrichedFix) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.fixes[fix.VehicleID]; ok && fix.CapturedAt.Before(prev.CapturedAt) {
		return false
	}

	fix.ReceivedAt = s.clock.Now()
	s.fixes[fix.VehicleID] = fix
	return true
}

// Current returns the stored fix with its age and freshness flag, or
// ok=false when the vehicle has never reported. Stale fixes are returned,
// flagged, so callers can explain why nothing fresh is available.
func (s *Store) Current(vehicleID string) (domain.FixSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fix, ok := s.fixes[vehicleID]
	if !ok {
		return domain.FixSnapshot{}, false
	}

	age := s.clock.Now().Sub(fix.ReceivedAt)
	return domain.FixSnapshot{
		EnrichedFix: fix,
		AgeSeconds:  age.Seconds(),
		IsFresh:     age <= s.window,
	}, true
}

// AllActive returns every fix whose age is within the freshness window,
// in no guaranteed order.
func (s *Store) AllActive() []domain.EnrichedFix {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock.Now()
	active := make([]domain.EnrichedFix, 0, len(s.fixes))
	for _, fix := range s.fixes {
		if now.Sub(fix.ReceivedAt) <= s.window {
			active = append(active, fix)
		}
	}
	return active
}

// Len reports how many vehicles have ever recorded a fix, fresh or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fixes)
}
