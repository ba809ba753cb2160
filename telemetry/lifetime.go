package telemetry

import (
	"math"

	"github.com/terraspiel/terraspiel/world"
)

// ParticleLifetimeStats tracks a single particle's lifetime, keyed by its
// monotonic ID so the same particle can be followed across ticks despite
// ECS entity churn.
type ParticleLifetimeStats struct {
	SpawnTick   int64
	Kind        world.ParticleKind
	SpawnX      float64
	SpawnY      float64
	PeakSpeed   float64
	TicksAlive  int64
}

// LifetimeTracker manages per-particle lifetime statistics (grounded on
// the teacher's per-entity-ID tracking map, re-keyed to particle IDs since
// particles, not organisms, are the long-lived tracked entities here).
type LifetimeTracker struct {
	stats map[world.ParticleID]*ParticleLifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{stats: make(map[world.ParticleID]*ParticleLifetimeStats)}
}

// Register begins tracking a newly spawned particle.
func (lt *LifetimeTracker) Register(id world.ParticleID, birthTick int64, kind world.ParticleKind, x, y float64) {
	lt.stats[id] = &ParticleLifetimeStats{SpawnTick: birthTick, Kind: kind, SpawnX: x, SpawnY: y}
}

// Get returns the lifetime stats for a particle, or nil if not tracked.
func (lt *LifetimeTracker) Get(id world.ParticleID) *ParticleLifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking a particle (it died or converted into a cell) and
// returns its final stats.
func (lt *LifetimeTracker) Remove(id world.ParticleID) *ParticleLifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// UpdateSpeed tracks peak speed observed for a particle.
func (lt *LifetimeTracker) UpdateSpeed(id world.ParticleID, vx, vy float64) {
	if s := lt.stats[id]; s != nil {
		speed := math.Hypot(vx, vy)
		if speed > s.PeakSpeed {
			s.PeakSpeed = speed
		}
	}
}

// Tick advances the alive-tick counter for every currently tracked
// particle; call once per tick after the particle passes have run.
func (lt *LifetimeTracker) Tick() {
	for _, s := range lt.stats {
		s.TicksAlive++
	}
}

// All returns every tracked particle's stats.
func (lt *LifetimeTracker) All() map[world.ParticleID]*ParticleLifetimeStats {
	return lt.stats
}

// Count returns the number of tracked particles.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
