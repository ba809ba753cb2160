package particlesys

import (
	"github.com/terraspiel/terraspiel/world"
)

const (
	fireIgniteProbability = 0.15
	fireSpreadProbability = 0.65
)

// fireTransformTable maps a flammable element name to the name it turns
// into on ignition; "FIRE" is a sentinel meaning "replace with EMPTY and
// spawn a fresh FIRE particle there" rather than a literal FIRE cell
// (spec.md §4.5.4: SOIL->SAND, CLAY->STONE, STONE->MAGMA, SAND->MAGMA,
// PLANT/OIL/PEAT/FERTILE_SOIL->FIRE).
var fireTransformTable = map[string]string{
	"SOIL":         "SAND",
	"CLAY":         "STONE",
	"STONE":        "MAGMA",
	"SAND":         "MAGMA",
	"PLANT":        "FIRE",
	"OIL":          "FIRE",
	"PEAT":         "FIRE",
	"FERTILE_SOIL": "FIRE",
}

var mooreOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// RunFire advances every FIRE particle: lifespan decrement, crystal/water
// quenching, stochastic ignition of a flammable neighbour, and
// end-of-life transformation of the cell it sits on (spec.md §4.5.4
// "Fire").
func RunFire(ctx *Context) {
	RemoveDead(ctx)

	crystal, hasCrystal := ctx.Elements.Lookup("CRYSTAL")
	ruby, hasRuby := ctx.Elements.Lookup("RUBY")
	water, hasWater := ctx.Elements.Lookup("WATER")

	var pending []world.Particle

	query := ctx.Filter.Query()
	for query.Next() {
		p := query.Get()
		if p.Kind != world.ParticleFireEmber || p.Life <= 0 {
			continue
		}
		p.Life--

		cx, cy := int(p.X), int(p.Y)
		if !ctx.Grid.InBounds(cx, cy) {
			p.Life = 0
			continue
		}

		if hasCrystal && hasRuby && mooreHasElement(ctx, cx, cy, crystal) {
			convertAdjacent(ctx, cx, cy, crystal, ruby)
			p.Life = 0
			continue
		}
		if hasWater && mooreHasElement(ctx, cx, cy, water) {
			p.Life = 0
			continue
		}

		cell := ctx.Grid.At(cx, cy)
		def := ctx.Elements.Def(cell.Type)
		if cell.Type != world.EmptyElement && def.IsFlammable && ctx.RNG.Float64() < fireIgniteProbability {
			igniteRandomFlammableNeighbor(ctx, cx, cy, &pending)
		}

		if p.Life <= 0 {
			applyFireTransformAt(ctx, cx, cy, &pending)
			if ctx.RNG.Float64() < fireSpreadProbability {
				igniteRandomFlammableNeighbor(ctx, cx, cy, &pending)
			}
		}
	}

	for _, np := range pending {
		SpawnNow(ctx, np)
	}

	RemoveDead(ctx)
}

func mooreHasElement(ctx *Context, cx, cy int, id world.ElementID) bool {
	for _, off := range mooreOffsets {
		x, y := cx+off[0], cy+off[1]
		if !ctx.Grid.InBounds(x, y) {
			continue
		}
		if ctx.Grid.At(x, y).Type == id {
			return true
		}
	}
	return false
}

func convertAdjacent(ctx *Context, cx, cy int, from, to world.ElementID) {
	for _, off := range mooreOffsets {
		x, y := cx+off[0], cy+off[1]
		if !ctx.Grid.InBounds(x, y) {
			continue
		}
		cell := ctx.Grid.At(x, y)
		if cell.Type == from {
			cell.ResetOnTypeChange(to)
			color := ctx.Palette.PickBase(to, ctx.Elements.Def(to), ctx.RNG)
			ctx.Grid.Set(x, y, cell, color, world.MoveNone)
			return
		}
	}
}

// igniteRandomFlammableNeighbor picks a random flammable Moore neighbour
// of (cx,cy) and applies the fire-transformation table to it, queuing any
// spawned particle world.Particle values into *pending rather than
// creating them directly (the ether/fire ECS world can't be mutated while
// a query iterates it).
func igniteRandomFlammableNeighbor(ctx *Context, cx, cy int, pending *[]world.Particle) {
	var candidates [8][2]int
	n := 0
	for _, off := range mooreOffsets {
		x, y := cx+off[0], cy+off[1]
		if !ctx.Grid.InBounds(x, y) {
			continue
		}
		cell := ctx.Grid.At(x, y)
		if cell.Type == world.EmptyElement {
			continue
		}
		if ctx.Elements.Def(cell.Type).IsFlammable {
			candidates[n] = [2]int{x, y}
			n++
		}
	}
	if n == 0 {
		return
	}
	pick := candidates[ctx.RNG.Intn(n)]
	applyFireTransformAt(ctx, pick[0], pick[1], pending)
	if ctx.Recorder != nil {
		ctx.Recorder.RecordFireIgnition()
	}
}

// applyFireTransformAt applies fireTransformTable to the cell at (x,y),
// either rewriting its type in place or replacing it with EMPTY and
// queuing a fresh FIRE particle, life in [80,120].
func applyFireTransformAt(ctx *Context, x, y int, pending *[]world.Particle) {
	cell := ctx.Grid.At(x, y)
	if cell.Type == world.EmptyElement {
		return
	}
	fromName := ctx.Elements.Name(cell.Type)
	toName, ok := fireTransformTable[fromName]
	if !ok {
		return
	}

	if toName == "FIRE" {
		ctx.Grid.Set(x, y, world.Cell{}, world.RGB{}, world.MoveNone)
		*pending = append(*pending, world.Particle{
			Kind: world.ParticleFireEmber,
			X:    float64(x) + 0.5,
			Y:    float64(y) + 0.5,
			VX:   (ctx.RNG.Float64()*2 - 1) * 0.2,
			VY:   (ctx.RNG.Float64()*2 - 1) * 0.2,
			Life: int32(80 + ctx.RNG.Intn(41)),
		})
		return
	}

	to, ok := ctx.Elements.Lookup(toName)
	if !ok {
		return
	}
	cell.ResetOnTypeChange(to)
	color := ctx.Palette.PickBase(to, ctx.Elements.Def(to), ctx.RNG)
	ctx.Grid.Set(x, y, cell, color, world.MoveNone)
}
