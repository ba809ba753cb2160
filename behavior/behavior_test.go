package behavior

import (
	"math/rand"
	"testing"

	"github.com/terraspiel/terraspiel/world"
)

// sampleElements covers the handful of kinds exercised by this package's
// tests: two granular solids of different density, a liquid, and a cloud.
const sampleElements = `[
	{"name":"SOIL","color":"#6b4a2f","density":2.2,"state":"solid","fluidity":{"resistance":0.3,"spread":0.2}},
	{"name":"SAND","color":"#d9c389","density":2.6,"state":"solid","fluidity":{"resistance":0.1,"spread":0.3}},
	{"name":"WATER","color":"#2f6fb3","density":1.0,"state":"liquid","fluidity":{"resistance":0.0,"spread":0.9}},
	{"name":"CLOUD","color":"#cfcfcf","density":0.1,"state":"gas"},
	{"name":"STONE","color":"#888888","density":4.0,"state":"solid","isStatic":true}
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

// scanOrderFor mirrors engine.scanOrder: left-to-right when scanning right,
// right-to-left otherwise.
func scanOrderFor(w int, scanRight bool) []int {
	order := make([]int, w)
	for i := range order {
		if scanRight {
			order[i] = i
		} else {
			order[i] = w - 1 - i
		}
	}
	return order
}

// runMovementTick runs one full Pass-1 scan over front, writing into back,
// and returns the pair swapped (back, front) the way engine.Tick does.
func runMovementTick(front, back *world.Grid, elements *world.ElementRegistry, rules *world.RuleRegistry, palette *world.Palette, rng *rand.Rand, dispatcher *Dispatcher, scanRight bool) (*world.Grid, *world.Grid) {
	moved := world.NewMovedBitmap(front.W, front.H)
	ctx := &Context{
		Read: front, Write: back, Moved: moved,
		Elements: elements, Rules: rules, Palette: palette, RNG: rng,
		ScanRight: scanRight,
	}
	for y := front.H - 1; y >= 0; y-- {
		for _, x := range scanOrderFor(front.W, scanRight) {
			if moved.Get(x, y) {
				continue
			}
			ctx.X, ctx.Y = x, y
			ctx.IsChained = false
			ctx.SelfOverride = nil
			ctx.Spawned = nil
			dispatcher.Run(ctx)
		}
	}
	return back, front
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
