// Package transform implements Pass 2 of the tick pipeline: the
// transformation-rule matcher that advances per-cell counters and commits
// rule-driven type changes (spec.md §4.4 "Transformation Engine").
package transform

import (
	"math/rand"

	"github.com/terraspiel/terraspiel/world"
)

const ambientEtherProbability = 0.001

// Recorder is the subset of telemetry.Collector this package reports
// committed transformations to. Defined here rather than imported so
// transform never depends on the telemetry package directly.
type Recorder interface {
	RecordTransformation()
}

// Run applies the transformation engine to a single cell of the write
// buffer, which doubles as the "current (post-movement) grid" conditions
// are evaluated against (spec.md §4.4). recorder may be nil.
func Run(g *world.Grid, elements *world.ElementRegistry, rules *world.RuleRegistry, palette *world.Palette, rng *rand.Rand, x, y int, spawn func(world.Particle), recorder Recorder) {
	cell := g.At(x, y)
	if cell.IsEmpty() {
		return
	}

	candidates := rules.TransformationsFor(cell.Type)
	if len(candidates) == 0 {
		return
	}

	var selected *world.TransformationRule
	for i := range candidates {
		if conditionsHold(g, elements, candidates[i].Conditions, x, y) {
			selected = &candidates[i]
			break
		}
	}

	if selected == nil {
		if cell.Counter != 0 {
			cell.Counter = 0
			g.SetCell(x, y, cell)
		}
		return
	}

	if rng.Float64() < ambientEtherProbability {
		spawn(world.Particle{
			Kind: world.ParticleEther,
			X:    float64(x) + 0.5,
			Y:    float64(y) + 0.5,
			VX:   (rng.Float64()*2 - 1) * 0.1,
			VY:   (rng.Float64()*2 - 1) * 0.1,
			Life: 150,
		})
	}

	if rng.Float64() >= selected.Probability {
		return
	}

	cell.Counter++
	if cell.Counter < selected.Threshold {
		g.SetCell(x, y, cell)
		return
	}

	commit(g, elements, palette, rng, x, y, cell, selected, spawn)
	if recorder != nil {
		recorder.RecordTransformation()
	}
}

func commit(g *world.Grid, elements *world.ElementRegistry, palette *world.Palette, rng *rand.Rand, x, y int, cell world.Cell, rule *world.TransformationRule, spawn func(world.Particle)) {
	cell.ResetOnTypeChange(rule.To)

	plantID, isPlantTarget := elements.Lookup("PLANT")
	if isPlantTarget && rule.To == plantID {
		cell.PlantMode = world.PlantStem
		if g.InBounds(x, y-1) && g.At(x, y-1).IsEmpty() {
			cell.PlantMode = world.PlantGroundCover
		}
		cell.DecayCounter = 0
	}

	color := palette.PickBase(rule.To, elements.Def(rule.To), rng)
	g.Set(x, y, cell, color, g.LastMoveAt(x, y))

	if rule.HasConsumes {
		consumeNeighbor(g, rng, x, y, rule.Consumes)
	}

	if rule.HasSpawn {
		spawn(world.Particle{
			Kind: rule.SpawnParticle,
			X:    float64(x) + 0.5,
			Y:    float64(y) + 0.5,
			VX:   (rng.Float64()*2 - 1) * 0.1,
			VY:   (rng.Float64()*2 - 1) * 0.1,
			Life: 150,
		})
	}
}

// consumeNeighbor rewrites the first Moore neighbour of (x,y), visited in
// shuffled order, whose type matches target, to EMPTY (spec.md §4.4:
// "search the Moore neighbourhood in shuffled order... first match
// wins").
func consumeNeighbor(g *world.Grid, rng *rand.Rand, x, y int, target world.ElementID) {
	order := rng.Perm(8)
	for _, i := range order {
		dx, dy := mooreOffsets[i][0], mooreOffsets[i][1]
		nx, ny := x+dx, y+dy
		if !g.InBounds(nx, ny) {
			continue
		}
		if g.At(nx, ny).Type == target {
			g.Set(nx, ny, world.Cell{}, world.RGB{}, world.MoveNone)
			return
		}
	}
}

var mooreOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func conditionsHold(g *world.Grid, elements *world.ElementRegistry, conds []world.Condition, x, y int) bool {
	for _, c := range conds {
		if !conditionHolds(g, elements, c, x, y) {
			return false
		}
	}
	return true
}

func conditionHolds(g *world.Grid, elements *world.ElementRegistry, c world.Condition, x, y int) bool {
	switch c.Kind {
	case world.ConditionSurrounding:
		count := 0
		for _, off := range mooreOffsets {
			nx, ny := x+off[0], y+off[1]
			if g.InBounds(nx, ny) && g.At(nx, ny).Type == c.Of {
				count++
			}
		}
		return count >= c.Min && count <= c.Max

	case world.ConditionEnvironment:
		found := scanRadiusFor(g, x, y, c.Radius, c.Of)
		if c.Present {
			return found
		}
		return !found

	case world.ConditionSurroundingAttribute:
		count := 0
		for _, off := range mooreOffsets {
			nx, ny := x+off[0], y+off[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			cell := g.At(nx, ny)
			if cell.IsEmpty() {
				continue
			}
			if attributeValue(elements.Def(cell.Type), c.Attribute) == c.Value {
				count++
			}
		}
		return count >= c.Min && count <= c.Max

	default:
		return false
	}
}

func scanRadiusFor(g *world.Grid, x, y, radius int, target world.ElementID) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			if g.At(nx, ny).Type == target {
				return true
			}
		}
	}
	return false
}

func attributeValue(def *world.ElementDef, attribute string) bool {
	switch attribute {
	case "isFlammable":
		return def.IsFlammable
	case "isStatic":
		return def.IsStatic
	case "hasColorVariation":
		return def.HasColorVariation
	default:
		return false
	}
}
