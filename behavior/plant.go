package behavior

import "github.com/terraspiel/terraspiel/world"

// RunPlant handles Pass 1 motion for a PLANT cell: withered plants fall
// like granular material, living plants stay put unless the cell below is
// EMPTY, in which case they fall the same way (spec.md §4.3.4 "Plant
// (motion)").
func RunPlant(ctx *Context) {
	self := ctx.Self()

	fall := self.PlantMode == world.PlantWithered
	if !fall {
		belowX, belowY := ctx.Below()
		fall = ctx.InBounds(belowX, belowY) && ctx.Read.At(belowX, belowY).IsEmpty()
	}

	if fall {
		chained := *ctx
		chained.IsChained = true
		chained.SelfOverride = &self
		if !RunGranular(&chained) {
			ctx.SelfOverride = &self
			ctx.CopyUnchanged()
		}
		return
	}

	ctx.CopyUnchanged()
}
