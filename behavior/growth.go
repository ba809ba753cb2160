package behavior

import (
	"math/rand"

	"github.com/terraspiel/terraspiel/world"
)

const (
	witherBaseThreshold = 500
	witherJitterSpan    = 0.4
	witherJitterFloor   = 0.8

	oilBaseThreshold = 2000

	stemGrowthThreshold  = 100
	stemGrowUpProbability = 0.1
	leafProbability       = 0.2
	flowerProbability     = 0.05

	groundCoverSpreadProbability = 0.3
)

// GrowthPass applies Pass 3 of the tick pipeline to a single cell: decay
// toward withered, withered toward OIL, and stem/ground-cover growth.
// Operates purely on g, the write buffer, in natural scan order (spec.md
// §4.3.5 "Plant growth (separate pass)").
func GrowthPass(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand, x, y int) {
	cell := g.At(x, y)
	plant, hasPlant := elements.Lookup("PLANT")
	if !hasPlant || cell.Type != plant {
		return
	}

	switch cell.PlantMode {
	case world.PlantStem, world.PlantGroundCover:
		runLivingGrowth(g, elements, palette, rng, x, y, cell, plant)
	case world.PlantWithered:
		runWitheredDecay(g, elements, palette, rng, x, y, cell)
	}
}

func jitteredThreshold(base float64, rng *rand.Rand) int32 {
	return int32(base * (witherJitterFloor + witherJitterSpan*rng.Float64()))
}

func runLivingGrowth(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand, x, y int, cell world.Cell, plant world.ElementID) {
	cell.DecayCounter++
	threshold := jitteredThreshold(witherBaseThreshold, rng)
	if cell.DecayCounter >= threshold {
		cell.PlantMode = world.PlantWithered
		cell.DecayCounter = 0
		cell.Counter = 0
		g.SetCell(x, y, cell)
		return
	}

	if cell.PlantMode == world.PlantStem {
		cell.Counter++
		if cell.Counter >= stemGrowthThreshold {
			cell.Counter = 0
			growStem(g, elements, palette, rng, x, y, plant)
		}
	} else {
		spreadGroundCover(g, elements, palette, rng, x, y, plant)
	}

	g.SetCell(x, y, cell)
}

func growStem(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand, x, y int, plant world.ElementID) {
	if rng.Float64() < stemGrowUpProbability {
		plantInto(g, elements, palette, rng, x, y-1, plant, world.PlantStem)
	}
	for _, dx := range [2]int{-1, 1} {
		roll := rng.Float64()
		switch {
		case roll < flowerProbability:
			plantInto(g, elements, palette, rng, x+dx, y, plant, world.PlantFlower)
		case roll < flowerProbability+leafProbability:
			plantInto(g, elements, palette, rng, x+dx, y, plant, world.PlantLeaf)
		}
	}
}

func spreadGroundCover(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand, x, y int, plant world.ElementID) {
	if rng.Float64() >= groundCoverSpreadProbability {
		return
	}
	for _, dx := range [2]int{-1, 1} {
		nx := x + dx
		if !g.InBounds(nx, y) || !g.At(nx, y).IsEmpty() {
			continue
		}
		if !g.InBounds(nx, y+1) || g.At(nx, y+1).IsEmpty() {
			continue
		}
		plantInto(g, elements, palette, rng, nx, y, plant, world.PlantGroundCover)
		return
	}
}

func plantInto(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand, x, y int, plant world.ElementID, mode world.PlantMode) {
	if !g.InBounds(x, y) || !g.At(x, y).IsEmpty() {
		return
	}
	cell := world.Cell{Type: plant, PlantMode: mode}
	color := palette.PickBase(plant, elements.Def(plant), rng)
	g.Set(x, y, cell, color, world.MoveNone)
}

func runWitheredDecay(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand, x, y int, cell world.Cell) {
	cell.OilCounter++
	threshold := jitteredThreshold(oilBaseThreshold, rng)
	if cell.OilCounter >= threshold {
		oil, ok := elements.Lookup("OIL")
		if !ok {
			return
		}
		cell.ResetOnTypeChange(oil)
		color := palette.PickBase(oil, elements.Def(oil), rng)
		g.Set(x, y, cell, color, world.MoveNone)
		return
	}
	g.SetCell(x, y, cell)
}
