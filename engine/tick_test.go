package engine

import (
	"math/rand"
	"testing"

	"github.com/terraspiel/terraspiel/world"
)

const sampleElements = `[
	{"name":"SAND","color":"#d9c389","density":2.6,"state":"solid","fluidity":{"resistance":0.1,"spread":0.3}},
	{"name":"WATER","color":"#2f6fb3","density":1.0,"state":"liquid","fluidity":{"resistance":0.0,"spread":0.9}}
]`

func mustWorld(t *testing.T, w, h int) *world.World {
	t.Helper()
	elements, err := world.LoadElementRegistry([]byte(sampleElements))
	if err != nil {
		t.Fatalf("LoadElementRegistry: %v", err)
	}
	rules, err := world.LoadRuleRegistry([]byte(`[]`), elements)
	if err != nil {
		t.Fatalf("LoadRuleRegistry: %v", err)
	}
	state := world.NewWorld(w, h, 1)
	state.Elements = elements
	state.Rules = rules
	state.Palette = world.BuildPalette(elements, state.RNG)
	return state
}

// Sand settles: a grain of SAND dropped above empty space comes to rest at
// the bottom of the column within a handful of ticks (spec.md §8 scenario
// "Sand settles").
func TestEngineSandSettles(t *testing.T) {
	state := mustWorld(t, 3, 3)
	eng := New(state)

	sand, _ := state.Elements.Lookup("SAND")
	if err := state.Place(1, 0, "SAND"); err != nil {
		t.Fatalf("Place: %v", err)
	}

	for i := 0; i < 5; i++ {
		eng.Tick()
	}

	if got := state.Front.At(1, 2).Type; got != sand {
		t.Errorf("(1,2).Type = %d, want SAND (%d) after settling", got, sand)
	}
}

// Water spreads: a WATER cell dropped in the middle of a wide, shallow
// basin spreads laterally as it falls, rather than piling straight down
// (spec.md §8 scenario "Water spreads").
func TestEngineWaterSpreads(t *testing.T) {
	state := mustWorld(t, 5, 3)
	eng := New(state)

	water, _ := state.Elements.Lookup("WATER")
	if err := state.Place(2, 0, "WATER"); err != nil {
		t.Fatalf("Place: %v", err)
	}

	for i := 0; i < 10; i++ {
		eng.Tick()
	}

	bottomLeft := state.Front.At(0, 2).Type == water
	bottomRight := state.Front.At(4, 2).Type == water
	if !bottomLeft && !bottomRight {
		t.Errorf("expected WATER to have reached at least one bottom corner after spreading")
	}

	heights := make([]int, 5)
	for x := 0; x < 5; x++ {
		for y := 0; y < 3; y++ {
			if state.Front.At(x, y).Type == water {
				heights[x]++
			}
		}
	}
	minH, maxH := heights[0], heights[0]
	for _, h := range heights {
		if h < minH {
			minH = h
		}
		if h > maxH {
			maxH = h
		}
	}
	if maxH-minH > 1 {
		t.Errorf("column heights = %v, want max-min <= 1 (a single WATER cell can't pile more than that)", heights)
	}
}

// Clear wipes the grid and the particle population.
func TestEngineClearResetsEverything(t *testing.T) {
	state := mustWorld(t, 2, 2)
	eng := New(state)
	state.Place(0, 0, "SAND")
	eng.SpawnParticle(world.Particle{Kind: world.ParticleThunder, X: 0.5, Y: 0.5, Life: 10})

	eng.Clear()

	if !state.Front.At(0, 0).IsEmpty() {
		t.Error("Clear left a non-empty cell")
	}
	if eng.ParticleCount() != 0 {
		t.Errorf("ParticleCount() = %d, want 0 after Clear", eng.ParticleCount())
	}
}

// A tick swaps the front and back buffers and advances the frame count.
func TestEngineTickSwapsBuffers(t *testing.T) {
	state := mustWorld(t, 4, 4)
	eng := New(state)
	before := state.Front

	eng.Tick()

	if state.Front == before {
		t.Error("Tick did not swap Front/Back")
	}
	if state.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", state.FrameCount)
	}
}

func TestEngineRandomizeReseedsAndClearsParticles(t *testing.T) {
	state := mustWorld(t, 3, 3)
	eng := New(state)
	eng.SpawnParticle(world.Particle{Kind: world.ParticleThunder, X: 0.5, Y: 0.5, Life: 10})

	eng.Randomize(42, noopTerrain{})

	if eng.ParticleCount() != 0 {
		t.Errorf("ParticleCount() = %d, want 0 after Randomize", eng.ParticleCount())
	}
}

type noopTerrain struct{}

func (noopTerrain) Generate(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand) {
}
