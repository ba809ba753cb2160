package particlesys

import (
	"math/rand"
	"testing"

	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/world"
)

// A FIRE particle that runs out of life transforms the cell it sits on per
// the fire-transformation table (SOIL -> SAND) and is itself removed.
func TestRunFireTransformsCellAtEndOfLife(t *testing.T) {
	elements := mustElements(t)
	rules := mustRules(t, elements, `[]`)
	rng := rand.New(rand.NewSource(1))
	palette := world.BuildPalette(elements, rng)

	soil, _ := elements.Lookup("SOIL")
	sand, _ := elements.Lookup("SAND")

	grid := world.NewGrid(3, 3)
	grid.SetCell(1, 1, world.Cell{Type: soil})

	h := newHarness()
	ctx := h.newContext(grid, elements, rules, palette, rng)

	h.spawn(components.Particle{Kind: world.ParticleFireEmber, X: 1.5, Y: 1.5, Life: 1})

	RunFire(ctx)

	if got := grid.At(1, 1).Type; got != sand {
		t.Errorf("(1,1).Type = %d, want SAND (%d)", got, sand)
	}
	if h.liveCount() != 0 {
		t.Errorf("liveCount = %d, want 0 (the ember should be spent)", h.liveCount())
	}
}

// A FIRE particle quenches immediately on contact with a Moore-adjacent
// WATER cell, leaving the cell beneath it untouched.
func TestRunFireQuenchesNearWater(t *testing.T) {
	elements := mustElements(t)
	rules := mustRules(t, elements, `[]`)
	rng := rand.New(rand.NewSource(1))
	palette := world.BuildPalette(elements, rng)

	soil, _ := elements.Lookup("SOIL")
	water, _ := elements.Lookup("WATER")

	grid := world.NewGrid(3, 3)
	grid.SetCell(1, 1, world.Cell{Type: soil})
	grid.SetCell(2, 1, world.Cell{Type: water})

	h := newHarness()
	ctx := h.newContext(grid, elements, rules, palette, rng)

	h.spawn(components.Particle{Kind: world.ParticleFireEmber, X: 1.5, Y: 1.5, Life: 60})

	RunFire(ctx)

	if got := grid.At(1, 1).Type; got != soil {
		t.Errorf("(1,1).Type = %d, want unchanged SOIL (%d); fire should have quenched", got, soil)
	}
	if h.liveCount() != 0 {
		t.Errorf("liveCount = %d, want 0 (quenched ember removed)", h.liveCount())
	}
}
