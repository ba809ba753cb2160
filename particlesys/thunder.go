package particlesys

import (
	"github.com/terraspiel/terraspiel/world"
)

const (
	thunderVXJitter  = 0.75
	thunderGravity   = 0.1
	thunderIgniteOdd = 0.5
)

// RunThunder advances every THUNDER particle: gravity-biased zig-zag
// motion, death on any wall, and explosive contact with water or
// flammable material (spec.md §4.5.3 "Thunder").
func RunThunder(ctx *Context) {
	RemoveDead(ctx)

	water, hasWater := ctx.Elements.Lookup("WATER")
	fire, hasFire := ctx.Elements.Lookup("FIRE")

	query := ctx.Filter.Query()
	for query.Next() {
		p := query.Get()
		if p.Kind != world.ParticleThunder || p.Life <= 0 {
			continue
		}

		p.VX = world.ClampF64(p.VX+jitterAxis(ctx, thunderVXJitter), -2, 2)
		p.VY = world.ClampF64(p.VY+thunderGravity, -1, 4)
		p.X += p.VX
		p.Y += p.VY
		p.Life--

		if p.X < 0 || p.X >= float64(ctx.Grid.W) || p.Y < 0 || p.Y >= float64(ctx.Grid.H) {
			p.Life = 0
			continue
		}

		cx, cy := int(p.X), int(p.Y)
		cell := ctx.Grid.At(cx, cy)

		if hasWater && cell.Type == water {
			radius := 1 + ctx.RNG.Float64()
			before := len(ctx.Exploded)
			Explode(ctx, cx, cy, radius)
			recordExplosion(ctx, radius, before)
			p.Life = 0
			continue
		}

		def := ctx.Elements.Def(cell.Type)
		if cell.Type != world.EmptyElement && def.IsFlammable && ctx.RNG.Float64() < thunderIgniteOdd {
			if hasFire {
				newCell := cell
				newCell.ResetOnTypeChange(fire)
				color := ctx.Palette.PickBase(fire, ctx.Elements.Def(fire), ctx.RNG)
				ctx.Grid.Set(cx, cy, newCell, color, world.MoveNone)
			}
			radius := 1 + ctx.RNG.Float64()*2
			before := len(ctx.Exploded)
			Explode(ctx, cx, cy, radius)
			recordExplosion(ctx, radius, before)
			p.Life = 0
			continue
		}
	}

	DrainExploded(ctx)
	RemoveDead(ctx)
}

// recordExplosion reports a thunder explosion's radius and the number of
// cells it scattered, derived from how many entries Explode appended to
// ctx.Exploded since before.
func recordExplosion(ctx *Context, radius float64, before int) {
	if ctx.Recorder == nil {
		return
	}
	ctx.Recorder.RecordThunderExplosion(radius, len(ctx.Exploded)-before)
}
