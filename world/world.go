package world

import (
	"fmt"
	"math/rand"
)

// Stats is a point-in-time snapshot of per-kind population counts,
// recomputed from scratch each tick (spec.md §4.1: "no incremental
// accounting"). ParticleCounts is supplied by the caller, since the
// particle population lives in the ECS world owned by the engine package,
// not here.
type Stats struct {
	CellCounts     map[ElementID]int
	ParticleCounts map[ParticleKind]int
}

// World owns the double-buffered grid and the read-only registries the
// tick pipeline consumes, plus the monotonic particle-ID counter (spec.md
// §4.1 "World State"). The live particle population itself is held by the
// engine package's ECS world; World only hands out the IDs that make
// every particle ever spawned unique and strictly ordered.
type World struct {
	Elements *ElementRegistry
	Rules    *RuleRegistry
	Palette  *Palette

	Front, Back *Grid
	Moved       *MovedBitmap

	FrameCount     int64
	nextParticleID ParticleID

	RNG *rand.Rand

	lastStats Stats
}

// NewWorld allocates an empty W*H world. Elements, Rules, and Palette must
// be assigned by the caller before the first tick.
func NewWorld(w, h int, seed int64) *World {
	return &World{
		Front:          NewGrid(w, h),
		Back:           NewGrid(w, h),
		Moved:          NewMovedBitmap(w, h),
		RNG:            rand.New(rand.NewSource(seed)),
		nextParticleID: 0,
	}
}

// NextParticleID hands out the next strictly-increasing particle ID
// (spec.md §3 Invariants: "Particle IDs are strictly monotonic within the
// lifetime of the world; reuse is forbidden"). Every particle spawn path
// (clouds charging, crystal emission, transformation spawn_particle,
// explosion scatter, oil combustion) must route through this method.
func (w *World) NextParticleID() ParticleID {
	id := w.nextParticleID
	w.nextParticleID++
	return id
}

// Place writes element into (x,y) on both buffers if and only if the
// target cell is currently EMPTY (spec.md §4.1: "succeeds only if the
// target cell's current type is EMPTY"). Placement must survive an
// in-flight tick, so both buffers receive the write. Returns
// ErrUnknownElement if name is not registered; placement onto a
// non-empty cell is a silent no-op.
func (w *World) Place(x, y int, name string) error {
	if !w.Front.InBounds(x, y) {
		return nil
	}
	id, ok := w.Elements.Lookup(name)
	if !ok {
		return fmt.Errorf("place %q at (%d,%d): %w", name, x, y, ErrUnknownElement)
	}
	if !w.Front.At(x, y).IsEmpty() {
		return nil
	}

	color := w.Palette.PickBase(id, w.Elements.Def(id), w.RNG)
	cell := Cell{Type: id}
	w.Front.Set(x, y, cell, color, MoveNone)
	w.Back.Set(x, y, cell, color, MoveNone)
	return nil
}

// Clear resets both buffers to all-EMPTY. The caller is responsible for
// also clearing the engine's ECS particle world and re-running Stats.
func (w *World) Clear() {
	w.Front = NewGrid(w.Front.W, w.Front.H)
	w.Back = NewGrid(w.Front.W, w.Front.H)
	w.FrameCount = 0
	w.refreshStats(nil)
}

// Randomize reseeds the RNG and invokes the terrain generator to
// repopulate both buffers (spec.md §4.1). The caller clears the engine's
// ECS particle world separately, then calls RefreshStats.
func (w *World) Randomize(seed int64, gen TerrainGenerator) {
	w.RNG = rand.New(rand.NewSource(seed))
	w.FrameCount = 0

	gen.Generate(w.Front, w.Elements, w.Palette, w.RNG)
	for y := 0; y < w.Front.H; y++ {
		for x := 0; x < w.Front.W; x++ {
			w.Back.Copy(x, y, w.Front)
		}
	}
	w.refreshStats(nil)
}

// Stats returns the most recently computed population snapshot.
func (w *World) Stats() Stats {
	return w.lastStats
}

// RefreshStats recomputes CellCounts from the front buffer and stores
// particleCounts (computed by the engine from its ECS world) alongside
// it. Called once per tick, after SwapBuffers.
func (w *World) RefreshStats(particleCounts map[ParticleKind]int) {
	w.refreshStats(particleCounts)
}

func (w *World) refreshStats(particleCounts map[ParticleKind]int) {
	cellCounts := make(map[ElementID]int)
	for _, c := range w.Front.Cells {
		if !c.IsEmpty() {
			cellCounts[c.Type]++
		}
	}
	if particleCounts == nil {
		particleCounts = make(map[ParticleKind]int)
	}
	w.lastStats = Stats{CellCounts: cellCounts, ParticleCounts: particleCounts}
}

// SwapBuffers exchanges front/back and bumps frame_count. Called once at
// the end of tick(), after every pass has run (spec.md §4.2).
func (w *World) SwapBuffers() {
	w.Front, w.Back = w.Back, w.Front
	w.FrameCount++
}

// TerrainGenerator seeds a freshly cleared grid (spec.md §1: "The terrain
// generator is a boundary collaborator").
type TerrainGenerator interface {
	Generate(g *Grid, elements *ElementRegistry, palette *Palette, rng *rand.Rand)
}
