package particlesys

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/world"
)

const (
	etherDriftJitter = 0.075
	etherSpeedCap    = 0.5
)

// RunEther advances every ETHER particle: noisy drift, wall soft-bounce,
// and the deepening roll against the cell it currently sits over (spec.md
// §4.5.2 "Ether").
func RunEther(ctx *Context) {
	RemoveDead(ctx)

	ctx.Hash.Rebuild(ctx.Filter)
	crystal, hasCrystal := ctx.Elements.Lookup("CRYSTAL")

	query := ctx.Filter.Query()
	for query.Next() {
		p := query.Get()
		if p.Kind != world.ParticleEther || p.Life <= 0 {
			continue
		}

		p.VX = world.ClampF64(p.VX+jitterAxis(ctx, etherDriftJitter), -etherSpeedCap, etherSpeedCap)
		p.VY = world.ClampF64(p.VY+jitterAxis(ctx, etherDriftJitter), -etherSpeedCap, etherSpeedCap)
		p.X += p.VX
		p.Y += p.VY

		bounceOffWalls(ctx, p)
		p.Life--

		cx, cy := int(p.X), int(p.Y)
		if !ctx.Grid.InBounds(cx, cy) {
			continue
		}
		cell := ctx.Grid.At(cx, cy)
		rules := ctx.Rules.EtherRulesFor(cell.Type)
		for _, rule := range rules {
			if ctx.RNG.Float64() > rule.Probability {
				continue
			}

			if hasCrystal && rule.To == crystal {
				consumed := consumeMooreEther(ctx, cx, cy, query.Entity())
				newCell := cell
				newCell.ResetOnTypeChange(crystal)
				newCell.EtherStorage = int32(consumed) + 1
				color := ctx.Palette.PickBase(crystal, ctx.Elements.Def(crystal), ctx.RNG)
				ctx.Grid.Set(cx, cy, newCell, color, world.MoveNone)
				if ctx.Recorder != nil {
					ctx.Recorder.RecordEtherDeepening()
				}
			} else {
				newCell := cell
				newCell.ResetOnTypeChange(rule.To)
				color := ctx.Palette.PickBase(rule.To, ctx.Elements.Def(rule.To), ctx.RNG)
				ctx.Grid.Set(cx, cy, newCell, color, world.MoveNone)
			}

			p.Life = 0
			break
		}
	}

	RemoveDead(ctx)
}

func jitterAxis(ctx *Context, spread float64) float64 {
	return (ctx.RNG.Float64()*2 - 1) * spread
}

// bounceOffWalls inverts and halves the velocity component on any axis
// where the particle has crossed a wall, clamping position back inside
// the grid (spec.md §4.5.2: "On each wall the particle inverts and halves
// the corresponding velocity component (soft bounce)").
func bounceOffWalls(ctx *Context, p *components.Particle) {
	if p.X < 0 {
		p.X = 0
		p.VX = -p.VX * 0.5
	} else if p.X >= float64(ctx.Grid.W) {
		p.X = float64(ctx.Grid.W) - 0.001
		p.VX = -p.VX * 0.5
	}
	if p.Y < 0 {
		p.Y = 0
		p.VY = -p.VY * 0.5
	} else if p.Y >= float64(ctx.Grid.H) {
		p.Y = float64(ctx.Grid.H) - 0.001
		p.VY = -p.VY * 0.5
	}
}

// consumeMooreEther marks life=0 on every other live ETHER particle
// bucketed in the 9-cell Moore block around (cx,cy) and returns how many
// were consumed (spec.md §4.5.2: "consume every other ETHER particle in
// the 9-cell Moore block (mark life=0)").
func consumeMooreEther(ctx *Context, cx, cy int, self ecs.Entity) int {
	var block []ecs.Entity
	block = ctx.Hash.MooreBlock(block[:0], cx, cy, self)

	count := 0
	for _, e := range block {
		p := ctx.Mapper.Get(e)
		if p == nil || p.Kind != world.ParticleEther || p.Life <= 0 {
			continue
		}
		p.Life = 0
		count++
	}
	return count
}
