package behavior

import "github.com/terraspiel/terraspiel/world"

const (
	cloudUpwardProbability  = 0.7
	cloudLateralProbability = 0.5
	cloudDecayThreshold     = 100
	cloudDecayStepChance    = 0.02
	cloudDecayStep          = 1

	cloudRainBase   = 100
	cloudRainJitter = 20
	cloudChargeBase   = 800
	cloudChargeJitter = 200
)

// RunCloud drifts a CLOUD cell, accumulates its rain/charge/decay
// counters, and triggers rain, thunder emission, or dissolution (spec.md
// §4.3.2 "Cloud").
func RunCloud(ctx *Context) {
	self := ctx.Read.At(ctx.X, ctx.Y)

	if self.RainThreshold == 0 {
		self.RainThreshold = int32(cloudRainBase + ctx.RNG.Intn(2*cloudRainJitter+1) - cloudRainJitter)
	}
	if self.ChargeThreshold == 0 {
		self.ChargeThreshold = int32(cloudChargeBase + ctx.RNG.Intn(2*cloudChargeJitter+1) - cloudChargeJitter)
	}

	hasCloudNeighbor := mooreHasType(ctx, self.Type)
	self.RainCounter++
	self.ChargeCounter++
	if hasCloudNeighbor {
		self.RainCounter++
		self.ChargeCounter++
	}
	if ctx.RNG.Float64() < cloudDecayStepChance {
		self.DecayCounter += cloudDecayStep
	}

	if self.ChargeCounter >= self.ChargeThreshold {
		ctx.Spawn(world.Particle{
			Kind: world.ParticleThunder,
			X:    float64(ctx.X) + 0.5,
			Y:    float64(ctx.Y) + 0.5,
			VX:   ctx.RNG.Float64()*1.0 - 0.5,
			VY:   2 + ctx.RNG.Float64()*2,
			Life: 60,
		})
		self.ChargeCounter = 0
	}

	if self.DecayCounter > cloudDecayThreshold {
		ctx.Write.Set(ctx.X, ctx.Y, world.Cell{}, world.RGB{}, world.MoveNone)
		return
	}

	finalX, finalY, moved := tryDrift(ctx, self)

	// Rain check happens against wherever the cloud ends up this tick.
	belowX, belowY := finalX, finalY+1
	if self.RainCounter >= self.RainThreshold && ctx.InBounds(belowX, belowY) && ctx.Write.At(belowX, belowY).IsEmpty() {
		water, ok := ctx.Elements.Lookup("WATER")
		if ok {
			color := ctx.Palette.PickBase(water, ctx.Elements.Def(water), ctx.RNG)
			ctx.Write.Set(belowX, belowY, world.Cell{Type: water}, color, world.MoveNone)
			if ctx.Recorder != nil {
				ctx.Recorder.RecordRainDrop()
			}
		}
		self.DecayCounter += 10
	}

	if moved {
		ctx.Write.Set(finalX, finalY, self, ctx.Read.Color(ctx.X, ctx.Y), world.MoveNone)
	} else {
		color := ctx.Read.Color(ctx.X, ctx.Y)
		ctx.Write.Set(ctx.X, ctx.Y, self, color, world.MoveNone)
	}
}

// tryDrift attempts upward/diagonal-upward motion, including the vapour
// shortcut of swapping upward through WATER (spec.md §4.3.2: "can swap
// upward with a WATER cell above"). Returns the coordinate the cell ends
// up at and whether it relocated; self's counters are written by the
// caller, not here, so this only moves the colourless placeholder shell.
func tryDrift(ctx *Context, self world.Cell) (x, y int, moved bool) {
	water, hasWater := ctx.Elements.Lookup("WATER")

	if ctx.RNG.Float64() < cloudUpwardProbability {
		ux, uy := ctx.X, ctx.Y-1
		if ctx.InBounds(ux, uy) {
			above := ctx.Read.At(ux, uy)
			if above.IsEmpty() {
				relocate(ctx, ux, uy)
				return ux, uy, true
			}
			if hasWater && above.Type == water {
				relocateSwap(ctx, ux, uy, above)
				return ux, uy, true
			}
		}
	}

	if ctx.RNG.Float64() < cloudLateralProbability {
		dir := 1
		if !ctx.ScanRight {
			dir = -1
		}
		nx, ny := ctx.X+dir, ctx.Y-1
		if ctx.InBounds(nx, ny) && ctx.Read.At(nx, ny).IsEmpty() {
			relocate(ctx, nx, ny)
			return nx, ny, true
		}
	}
	return ctx.X, ctx.Y, false
}

// relocate clears the source coordinate in the write buffer; the caller
// writes the moved cell's final (counter-updated) value at (nx,ny).
func relocate(ctx *Context, nx, ny int) {
	ctx.Write.Set(ctx.X, ctx.Y, world.Cell{}, world.RGB{}, world.MoveNone)
	ctx.Moved.Mark(nx, ny)
	ctx.Moved.Mark(ctx.X, ctx.Y)
}

// relocateSwap writes the displaced cell (e.g. WATER) into the source
// coordinate, inheriting the mover's prior last-move.
func relocateSwap(ctx *Context, nx, ny int, displaced world.Cell) {
	displacedColor := ctx.Read.Color(nx, ny)
	selfLastMove := ctx.Read.LastMoveAt(ctx.X, ctx.Y)
	ctx.Write.Set(ctx.X, ctx.Y, displaced, displacedColor, selfLastMove)
	ctx.Moved.Mark(nx, ny)
	ctx.Moved.Mark(ctx.X, ctx.Y)
}

func mooreHasType(ctx *Context, t world.ElementID) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := ctx.X+dx, ctx.Y+dy
			if !ctx.InBounds(x, y) {
				continue
			}
			if ctx.Read.At(x, y).Type == t {
				return true
			}
		}
	}
	return false
}
