package particlesys

import (
	"math/rand"
	"testing"

	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/world"
)

// Ether deepening round-trip: an ETHER particle sitting over a cell whose
// particle-interaction rule targets CRYSTAL converts that cell to CRYSTAL,
// consumes every other live ETHER particle in the surrounding Moore block,
// stores the consumed count (+1) on the new cell, and reports exactly one
// deepening event.
func TestRunEtherDeepensToCrystal(t *testing.T) {
	elements := mustElements(t)
	rules := mustRules(t, elements, `[{"type":"particle_interaction","particle":"ETHER","from":"CLAY","to":"CRYSTAL","probability":1.0}]`)
	rng := rand.New(rand.NewSource(1))
	palette := world.BuildPalette(elements, rng)

	clay, _ := elements.Lookup("CLAY")
	crystal, _ := elements.Lookup("CRYSTAL")

	grid := world.NewGrid(3, 3)
	grid.SetCell(1, 1, world.Cell{Type: clay})

	h := newHarness()
	ctx := h.newContext(grid, elements, rules, palette, rng)
	rec := &recordingRecorder{}
	ctx.Recorder = rec

	// The deepening particle, centred over the CLAY cell, plus two more
	// ETHER particles in its Moore block that should be consumed.
	h.spawn(components.Particle{Kind: world.ParticleEther, X: 1.5, Y: 1.5, Life: 100})
	h.spawn(components.Particle{Kind: world.ParticleEther, X: 0.5, Y: 0.5, Life: 100})
	h.spawn(components.Particle{Kind: world.ParticleEther, X: 2.5, Y: 2.5, Life: 100})
	// Out of the Moore block: must survive untouched.
	far := h.spawn(components.Particle{Kind: world.ParticleEther, X: 50.5, Y: 50.5, Life: 100})

	RunEther(ctx)

	cell := grid.At(1, 1)
	if cell.Type != crystal {
		t.Fatalf("(1,1).Type = %d, want CRYSTAL (%d)", cell.Type, crystal)
	}
	if cell.EtherStorage < 1 {
		t.Errorf("EtherStorage = %d, want at least 1 (the deepening particle itself)", cell.EtherStorage)
	}
	if rec.etherDeepenings != 1 {
		t.Errorf("etherDeepenings = %d, want 1", rec.etherDeepenings)
	}

	if p := h.mapper.Get(far); p == nil {
		t.Error("the out-of-range ether particle should not have been removed")
	}
}
