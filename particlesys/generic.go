package particlesys

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/world"
)

// Context bundles everything the ether, thunder, and fire passes need:
// the ECS world holding particle entities, the write-buffer grid they
// read and mutate, the read-only registries, and the per-world RNG
// (spec.md §4.5 "Particle Subsystem").
type Context struct {
	EcsWorld *ecs.World
	Mapper   *ecs.Map1[components.Particle]
	Filter   *ecs.Filter1[components.Particle]

	// WorldState hands out monotonic particle IDs (world.World.NextParticleID)
	// for anything spawned by these passes.
	WorldState *world.World

	Grid     *world.Grid
	Elements *world.ElementRegistry
	Rules    *world.RuleRegistry
	Palette  *world.Palette
	RNG      *rand.Rand

	Hash *SpatialHash

	// Exploded collects scattered-material particles produced by an
	// explosion this tick, queued for the caller to spawn into the ECS
	// world (kept out-of-band so explosion logic doesn't need mapper
	// access while iterating a query).
	Exploded []ScatterSpawn

	// Recorder receives pass-level telemetry events; nil when telemetry
	// is disabled.
	Recorder Recorder
}

// Recorder is the subset of telemetry.Collector the ether, thunder, and
// fire passes report events to. Defined here rather than imported so
// particlesys never depends on the telemetry package directly.
type Recorder interface {
	RecordFireIgnition()
	RecordThunderExplosion(radius float64, cellsCleared int)
	RecordEtherDeepening()
}

// SpawnNow assigns p a real monotonic particle ID and creates its ECS
// entity immediately. Callers must never invoke this while iterating a
// query over the same filter/mapper; collect spawns in a slice during the
// query and drain them afterward (see RunFire, RunThunder).
func SpawnNow(ctx *Context, p world.Particle) {
	p.ID = ctx.WorldState.NextParticleID()
	comp := components.Particle{
		ID:      p.ID,
		Kind:    p.Kind,
		X:       p.X,
		Y:       p.Y,
		VX:      p.VX,
		VY:      p.VY,
		Life:    p.Life,
		Element: p.Element,
	}
	ctx.Mapper.NewEntity(&comp)
}

// DrainExploded creates ECS particle entities for every queued
// ScatterSpawn and clears the queue. Call after the query loop that may
// have produced them has finished.
func DrainExploded(ctx *Context) {
	for _, s := range ctx.Exploded {
		SpawnNow(ctx, world.Particle{
			Kind:    world.ParticleScattered,
			X:       s.X,
			Y:       s.Y,
			VX:      s.VX,
			VY:      s.VY,
			Life:    s.Life,
			Element: s.Element,
		})
	}
	ctx.Exploded = ctx.Exploded[:0]
}

// ScatterSpawn describes a free particle an explosion throws outward
// (spec.md §4.5.3 "Explosion").
type ScatterSpawn struct {
	Element world.ElementID
	X, Y    float64
	VX, VY  float64
	Life    int32
}

// RemoveDead deletes every entity in the ECS world whose particle Life has
// dropped to zero or below (spec.md §4.5.1: "Dead particles (life <= 0)
// are filtered before and after each sub-pass").
func RemoveDead(ctx *Context) {
	var dead []ecs.Entity
	query := ctx.Filter.Query()
	for query.Next() {
		p := query.Get()
		if p.Life <= 0 {
			dead = append(dead, query.Entity())
		}
	}
	for _, e := range dead {
		ctx.Mapper.Remove(e)
	}
}

const scatterGravity = 0.08

// RunScattered advances every ParticleScattered particle: simple gravity
// integration, death on any wall, and a resettle onto the grid once it
// comes to rest over an EMPTY cell. Not itself one of the three named
// sub-passes in spec.md §4.5 but required by the shared lifecycle rule
// that every particle's life decrements once per tick and dies at
// boundaries (spec.md §4.5.1 "Generic rules").
func RunScattered(ctx *Context) {
	RemoveDead(ctx)

	query := ctx.Filter.Query()
	for query.Next() {
		p := query.Get()
		if p.Kind != world.ParticleScattered || p.Life <= 0 {
			continue
		}

		p.VY = world.ClampF64(p.VY+scatterGravity, -2, 3)
		p.X += p.VX
		p.Y += p.VY
		p.Life--

		if p.X < 0 || p.X >= float64(ctx.Grid.W) || p.Y < 0 || p.Y >= float64(ctx.Grid.H) {
			p.Life = 0
			continue
		}

		below := int(p.Y) + 1
		cx := int(p.X)
		if below < ctx.Grid.H && ctx.Grid.At(cx, below).IsEmpty() && ctx.Grid.At(cx, int(p.Y)).IsEmpty() {
			continue
		}

		cx2, cy2 := int(p.X), int(p.Y)
		if ctx.Grid.InBounds(cx2, cy2) && ctx.Grid.At(cx2, cy2).IsEmpty() {
			color := ctx.Palette.PickBase(p.Element, ctx.Elements.Def(p.Element), ctx.RNG)
			ctx.Grid.Set(cx2, cy2, world.Cell{Type: p.Element}, color, world.MoveNone)
			p.Life = 0
		}
	}

	RemoveDead(ctx)
}
