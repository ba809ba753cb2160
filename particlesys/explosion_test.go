package particlesys

import (
	"math/rand"
	"testing"

	"github.com/terraspiel/terraspiel/world"
)

// The epicentre of an explosion (distance 0, so conversion probability is
// exactly 1) always clears and always queues a scattered particle, and an
// element absent from the scatter allow-list is left untouched.
func TestExplodeEpicentreAlwaysClears(t *testing.T) {
	elements := mustElements(t)
	rng := rand.New(rand.NewSource(1))
	palette := world.BuildPalette(elements, rng)

	water, _ := elements.Lookup("WATER")
	crystal, _ := elements.Lookup("CRYSTAL") // static, not in scatterNames

	grid := world.NewGrid(5, 5)
	grid.SetCell(2, 2, world.Cell{Type: water})
	grid.SetCell(3, 2, world.Cell{Type: crystal})

	h := newHarness()
	ctx := h.newContext(grid, elements, mustRules(t, elements, `[]`), palette, rng)

	Explode(ctx, 2, 2, 1.5)

	if !grid.At(2, 2).IsEmpty() {
		t.Errorf("epicentre (2,2) = %+v, want EMPTY", grid.At(2, 2))
	}
	if grid.At(3, 2).Type != crystal {
		t.Errorf("(3,2).Type = %d, want unchanged CRYSTAL (%d); not scatter-eligible", grid.At(3, 2).Type, crystal)
	}

	found := false
	for _, s := range ctx.Exploded {
		if s.Element == water && s.X == 2.5 && s.Y == 2.5 {
			found = true
		}
	}
	if !found {
		t.Errorf("Exploded = %+v, want a queued WATER scatter at the epicentre", ctx.Exploded)
	}
}
