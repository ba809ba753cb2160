package behavior

import (
	"testing"

	"github.com/terraspiel/terraspiel/world"
)

// Cloud rains: a cloud whose rain counter has reached its threshold drops
// exactly one WATER cell into the empty space below it and bumps its decay
// counter by 10 (spec.md §8 scenario "Cloud rains").
func TestCloudRains(t *testing.T) {
	elements := mustElements(t)
	rules := mustRules(t, elements, `[]`)
	rng := newRNG()
	palette := world.BuildPalette(elements, rng)
	dispatcher := NewDispatcher(elements)

	cloud, _ := elements.Lookup("CLOUD")
	water, _ := elements.Lookup("WATER")

	// A single-column, two-row grid with no row above the cloud makes the
	// up/lateral drift checks fail on bounds alone, independent of RNG, so
	// the cloud cannot move before the rain check runs.
	front := world.NewGrid(1, 2)
	back := world.NewGrid(1, 2)
	front.SetCell(0, 0, world.Cell{
		Type:            cloud,
		RainCounter:     100,
		RainThreshold:   100,
		ChargeCounter:   0,
		ChargeThreshold: 1_000_000,
	})

	front, _ = runMovementTick(front, back, elements, rules, palette, rng, dispatcher, true)

	if got := front.At(0, 1).Type; got != water {
		t.Fatalf("(0,1).Type = %d, want WATER (%d)", got, water)
	}
	cell := front.At(0, 0)
	if cell.Type != cloud {
		t.Fatalf("(0,0).Type = %d, want CLOUD (%d) to stay put", cell.Type, cloud)
	}
	if cell.DecayCounter != 10 {
		t.Errorf("DecayCounter = %d, want 10", cell.DecayCounter)
	}
}

// Below its rain threshold, a cloud does not produce rain.
func TestCloudDoesNotRainBelowThreshold(t *testing.T) {
	elements := mustElements(t)
	rules := mustRules(t, elements, `[]`)
	rng := newRNG()
	palette := world.BuildPalette(elements, rng)
	dispatcher := NewDispatcher(elements)

	cloud, _ := elements.Lookup("CLOUD")

	front := world.NewGrid(1, 2)
	back := world.NewGrid(1, 2)
	front.SetCell(0, 0, world.Cell{
		Type:            cloud,
		RainCounter:     0,
		RainThreshold:   100,
		ChargeThreshold: 1_000_000,
	})

	front, _ = runMovementTick(front, back, elements, rules, palette, rng, dispatcher, true)

	if !front.At(0, 1).IsEmpty() {
		t.Errorf("(0,1) = %+v, want empty (below rain threshold)", front.At(0, 1))
	}
}
