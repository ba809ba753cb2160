// Package engine drives the fixed-order tick pipeline: movement,
// transformation, plant growth, ether, thunder, fire (spec.md §4.2 "Tick
// Scheduler").
package engine

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/terraspiel/terraspiel/behavior"
	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/particlesys"
	"github.com/terraspiel/terraspiel/transform"
	"github.com/terraspiel/terraspiel/world"
)

// Engine owns the ECS world backing particles and drives World through
// one tick() per call (spec.md §4.1-4.2).
type Engine struct {
	State *world.World

	ecsWorld *ecs.World
	mapper   *ecs.Map1[components.Particle]
	filter   *ecs.Filter1[components.Particle]

	dispatcher *behavior.Dispatcher
	hash       *particlesys.SpatialHash

	// Recorder receives pass-level telemetry events; nil disables
	// event-count telemetry without affecting simulation behaviour.
	Recorder interface {
		behavior.Recorder
		transform.Recorder
		particlesys.Recorder
	}
}

// New builds an engine around state, which must already have its
// Elements, Rules, and Palette assigned.
func New(state *world.World) *Engine {
	ecsWorld := ecs.NewWorld()
	return &Engine{
		State:      state,
		ecsWorld:   &ecsWorld,
		mapper:     ecs.NewMap1[components.Particle](&ecsWorld),
		filter:     ecs.NewFilter1[components.Particle](&ecsWorld),
		dispatcher: behavior.NewDispatcher(state.Elements),
		hash:       particlesys.NewSpatialHash(state.Front.W, state.Front.H),
	}
}

// resetParticles removes every live particle entity.
func (e *Engine) resetParticles() {
	var dead []ecs.Entity
	query := e.filter.Query()
	for query.Next() {
		dead = append(dead, query.Entity())
	}
	for _, d := range dead {
		e.mapper.Remove(d)
	}
}

// Clear resets the grid and the particle population, then recomputes
// stats (spec.md §4.1: World.Clear's caller "is responsible for also
// clearing the engine's ECS particle world").
func (e *Engine) Clear() {
	e.State.Clear()
	e.resetParticles()
	e.State.RefreshStats(e.particleCounts())
}

// Randomize reseeds and regenerates terrain, then clears the particle
// population and recomputes stats.
func (e *Engine) Randomize(seed int64, gen world.TerrainGenerator) {
	e.State.Randomize(seed, gen)
	e.resetParticles()
	e.State.RefreshStats(e.particleCounts())
}

// SpawnParticle creates a live particle entity immediately, assigning it
// the next monotonic ID (spec.md §3 Invariants: "Particle IDs are
// strictly monotonic").
func (e *Engine) SpawnParticle(p world.Particle) {
	ctx := &particlesys.Context{Mapper: e.mapper, WorldState: e.State}
	particlesys.SpawnNow(ctx, p)
}

// Tick runs one full pass of the pipeline and swaps buffers (spec.md
// §4.2).
func (e *Engine) Tick() {
	st := e.State
	st.Moved.Reset()
	scanRight := st.FrameCount%2 == 0

	var spawned []world.Particle
	spawn := func(p world.Particle) { spawned = append(spawned, p) }

	e.runMovementPass(scanRight, spawn)
	e.runTransformationPass(scanRight, spawn)
	e.runGrowthPass()

	for _, p := range spawned {
		e.SpawnParticle(p)
	}

	pctx := &particlesys.Context{
		EcsWorld:   e.ecsWorld,
		Mapper:     e.mapper,
		Filter:     e.filter,
		WorldState: st,
		Grid:       st.Back,
		Elements:   st.Elements,
		Rules:      st.Rules,
		Palette:    st.Palette,
		RNG:        st.RNG,
		Hash:       e.hash,
		Recorder:   e.Recorder,
	}
	particlesys.RunEther(pctx)
	particlesys.RunThunder(pctx)
	particlesys.RunFire(pctx)
	particlesys.RunScattered(pctx)

	st.SwapBuffers()
	st.RefreshStats(e.particleCounts())
}

func (e *Engine) runMovementPass(scanRight bool, spawn func(world.Particle)) {
	st := e.State
	ctx := &behavior.Context{
		Read:      st.Front,
		Write:     st.Back,
		Moved:     st.Moved,
		Elements:  st.Elements,
		Rules:     st.Rules,
		Palette:   st.Palette,
		RNG:       st.RNG,
		ScanRight: scanRight,
		Recorder:  e.Recorder,
	}

	for y := st.Front.H - 1; y >= 0; y-- {
		for _, x := range scanOrder(st.Front.W, scanRight) {
			if st.Moved.Get(x, y) {
				continue
			}
			ctx.X, ctx.Y = x, y
			ctx.IsChained = false
			ctx.SelfOverride = nil
			ctx.Spawned = nil
			e.dispatcher.Run(ctx)
			for _, p := range ctx.Spawned {
				spawn(p)
			}
		}
	}
}

func (e *Engine) runTransformationPass(scanRight bool, spawn func(world.Particle)) {
	st := e.State
	for y := st.Back.H - 1; y >= 0; y-- {
		for _, x := range scanOrder(st.Back.W, scanRight) {
			transform.Run(st.Back, st.Elements, st.Rules, st.Palette, st.RNG, x, y, spawn, e.Recorder)
		}
	}
}

func (e *Engine) runGrowthPass() {
	st := e.State
	for y := 0; y < st.Back.H; y++ {
		for x := 0; x < st.Back.W; x++ {
			behavior.GrowthPass(st.Back, st.Elements, st.Palette, st.RNG, x, y)
		}
	}
}

// Particles invokes fn once per live particle, for renderer and telemetry
// consumers that need the current population without reaching into the
// ECS world directly.
func (e *Engine) Particles(fn func(components.Particle)) {
	query := e.filter.Query()
	for query.Next() {
		fn(*query.Get())
	}
}

// ParticleCount returns the number of live particles.
func (e *Engine) ParticleCount() int {
	n := 0
	query := e.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

func (e *Engine) particleCounts() map[world.ParticleKind]int {
	counts := make(map[world.ParticleKind]int)
	query := e.filter.Query()
	for query.Next() {
		p := query.Get()
		counts[p.Kind]++
	}
	return counts
}

func scanOrder(w int, scanRight bool) []int {
	order := make([]int, w)
	if scanRight {
		for i := range order {
			order[i] = i
		}
	} else {
		for i := range order {
			order[i] = w - 1 - i
		}
	}
	return order
}
