package particlesys

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/world"
)

const sampleElements = `[
	{"name":"CLAY","color":"#9c7b4f","density":2.0,"state":"solid"},
	{"name":"CRYSTAL","color":"#b0e0ff","density":3.0,"state":"solid","isStatic":true},
	{"name":"WATER","color":"#2f6fb3","density":1.0,"state":"liquid"},
	{"name":"SOIL","color":"#6b4a2f","density":2.2,"state":"solid","isFlammable":true},
	{"name":"SAND","color":"#d9c389","density":2.6,"state":"solid"}
]`

func mustElements(t *testing.T) *world.ElementRegistry {
	t.Helper()
	reg, err := world.LoadElementRegistry([]byte(sampleElements))
	if err != nil {
		t.Fatalf("LoadElementRegistry: %v", err)
	}
	return reg
}

func mustRules(t *testing.T, elements *world.ElementRegistry, data string) *world.RuleRegistry {
	t.Helper()
	reg, err := world.LoadRuleRegistry([]byte(data), elements)
	if err != nil {
		t.Fatalf("LoadRuleRegistry: %v", err)
	}
	return reg
}

// testHarness bundles a fresh ECS world plus the Context fields every
// particle pass needs, mirroring engine.Tick's wiring without depending on
// the engine package (which imports this one).
type testHarness struct {
	ecsWorld ecs.World
	mapper   *ecs.Map1[components.Particle]
	filter   *ecs.Filter1[components.Particle]
}

func newHarness() *testHarness {
	w := ecs.NewWorld()
	return &testHarness{
		ecsWorld: w,
		mapper:   ecs.NewMap1[components.Particle](&w),
		filter:   ecs.NewFilter1[components.Particle](&w),
	}
}

func (h *testHarness) spawn(p components.Particle) ecs.Entity {
	return h.mapper.NewEntity(&p)
}

func (h *testHarness) newContext(grid *world.Grid, elements *world.ElementRegistry, rules *world.RuleRegistry, palette *world.Palette, rng *rand.Rand) *Context {
	return &Context{
		EcsWorld:   &h.ecsWorld,
		Mapper:     h.mapper,
		Filter:     h.filter,
		WorldState: world.NewWorld(grid.W, grid.H, 1),
		Grid:       grid,
		Elements:   elements,
		Rules:      rules,
		Palette:    palette,
		RNG:        rng,
		Hash:       NewSpatialHash(grid.W, grid.H),
	}
}

func (h *testHarness) liveCount() int {
	n := 0
	q := h.filter.Query()
	for q.Next() {
		n++
	}
	return n
}

type recordingRecorder struct {
	fireIgnitions      int
	etherDeepenings    int
	thunderExplosions  int
	lastExplosionRad   float64
	lastExplosionCount int
}

func (r *recordingRecorder) RecordFireIgnition() { r.fireIgnitions++ }
func (r *recordingRecorder) RecordEtherDeepening() { r.etherDeepenings++ }
func (r *recordingRecorder) RecordThunderExplosion(radius float64, cellsCleared int) {
	r.thunderExplosions++
	r.lastExplosionRad = radius
	r.lastExplosionCount = cellsCleared
}
