package telemetry

import "github.com/terraspiel/terraspiel/world"

// Collector accumulates pass-level events within a tick window and
// produces WindowStats (spec.md §9; event shape grounded on the teacher's
// per-window counter accumulation pattern).
type Collector struct {
	windowDurationTicks int64
	windowStartTick     int64

	transformations   int
	fireIgnitions     int
	thunderExplosions int
	etherDeepenings   int
	rainDrops         int
	cellsCleared      int

	explosionRadii []float64
}

// NewCollector creates a new stats collector with a fixed window length in
// ticks.
func NewCollector(windowDurationTicks int) *Collector {
	if windowDurationTicks < 1 {
		windowDurationTicks = 1
	}
	return &Collector{windowDurationTicks: int64(windowDurationTicks)}
}

// RecordTransformation records a committed transformation-rule application
// (spec.md §4.4).
func (c *Collector) RecordTransformation() { c.transformations++ }

// RecordFireIgnition records a flammable neighbour catching fire (spec.md
// §4.5.4).
func (c *Collector) RecordFireIgnition() { c.fireIgnitions++ }

// RecordThunderExplosion records a THUNDER particle's terminal explosion
// and the number of cells it cleared (spec.md §4.5.3).
func (c *Collector) RecordThunderExplosion(radius float64, cellsCleared int) {
	c.thunderExplosions++
	c.explosionRadii = append(c.explosionRadii, radius)
	c.cellsCleared += cellsCleared
}

// RecordEtherDeepening records an ETHER particle converting a cell to
// CRYSTAL (spec.md §4.5.2).
func (c *Collector) RecordEtherDeepening() { c.etherDeepenings++ }

// RecordRainDrop records a CLOUD cell precipitating WATER (spec.md
// §4.3.2).
func (c *Collector) RecordRainDrop() { c.rainDrops++ }

// ShouldFlush reports whether enough ticks have passed to flush the
// window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the accumulated events plus a fresh
// Stats snapshot, then resets counters for the next window. elements
// resolves ElementID keys in stats.CellCounts to their registered names.
func (c *Collector) Flush(currentTick, frameCount int64, stats world.Stats, elements *world.ElementRegistry, etherStorages []float64) WindowStats {
	cellCounts := make(map[string]int, len(stats.CellCounts))
	totalCells := 0
	for id, n := range stats.CellCounts {
		cellCounts[elements.Name(id)] = n
		totalCells += n
	}
	particleCounts := make(map[string]int, len(stats.ParticleCounts))
	totalParticles := 0
	for kind, n := range stats.ParticleCounts {
		particleCounts[kind.String()] = n
		totalParticles += n
	}

	etherMean, etherStd, etherP10, etherP50, etherP90 := ComputeDistStats(etherStorages)

	var explosionMean, explosionP90 float64
	if len(c.explosionRadii) > 0 {
		explosionMean, _, _, _, explosionP90 = ComputeDistStats(c.explosionRadii)
	}

	ws := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		FrameCount:      frameCount,

		CellCounts:     cellCounts,
		ParticleCounts: particleCounts,
		TotalCells:     totalCells,
		TotalParticles: totalParticles,

		Transformations:   c.transformations,
		FireIgnitions:     c.fireIgnitions,
		ThunderExplosions: c.thunderExplosions,
		EtherDeepenings:   c.etherDeepenings,
		RainDrops:         c.rainDrops,

		EtherStorageMean: etherMean,
		EtherStorageStd:  etherStd,
		EtherStorageP10:  etherP10,
		EtherStorageP50:  etherP50,
		EtherStorageP90:  etherP90,

		ExplosionRadiusMean: explosionMean,
		ExplosionRadiusP90:  explosionP90,

		CellsCleared: c.cellsCleared,
	}

	c.windowStartTick = currentTick
	c.transformations = 0
	c.fireIgnitions = 0
	c.thunderExplosions = 0
	c.etherDeepenings = 0
	c.rainDrops = 0
	c.cellsCleared = 0
	c.explosionRadii = c.explosionRadii[:0]

	return ws
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
