package behavior

import "github.com/terraspiel/terraspiel/world"

const oilCombustProbability = 0.001

// RunOil spontaneously combusts with small probability, otherwise
// delegates to granular motion (spec.md §4.3.6 "Oil").
func RunOil(ctx *Context) {
	if ctx.RNG.Float64() < oilCombustProbability {
		ctx.Write.Set(ctx.X, ctx.Y, world.Cell{}, world.RGB{}, world.MoveNone)
		ctx.Spawn(world.Particle{
			Kind: world.ParticleFireEmber,
			X:    float64(ctx.X) + 0.5,
			Y:    float64(ctx.Y) + 0.5,
			VX:   (ctx.RNG.Float64()*2 - 1) * 0.2,
			VY:   (ctx.RNG.Float64()*2 - 1) * 0.2,
			Life: int32(40 + ctx.RNG.Intn(21)),
		})
		return
	}

	RunGranular(ctx)
}
