package behavior

import "github.com/terraspiel/terraspiel/world"

// settledSkipProbability is how often an already-settled granular cell is
// skipped outright as a fast path (spec.md §4.3.1 step 1).
const settledSkipProbability = 0.9

// lookaheadDepth is how far down RunGranular looks when comparing two
// sideways-spread candidates by "more empty cells below".
const lookaheadDepth = 3

// RunGranular drives every element that declares fluidity: granular
// solids (sand, soil), liquids (water, mud), and anything else with a
// Fluidity definition (spec.md §4.3.1 "Granular").
//
// It reports whether it wrote anything to ctx.Write at (ctx.X, ctx.Y) or
// a destination cell. A chained caller (RunCrystal, RunPlant) must copy
// the cell unchanged itself when this returns false, since an unchained
// call's own copy-unchanged fallback is skipped for chained calls.
func RunGranular(ctx *Context) bool {
	self := ctx.Self()
	selfDef := ctx.Elements.Def(self.Type)
	if selfDef.Fluidity == nil {
		ctx.CopyUnchanged()
		return true
	}

	belowX, belowY := ctx.Below()
	belowInBounds := ctx.InBounds(belowX, belowY)
	var below world.Cell
	if belowInBounds {
		below = ctx.Read.At(belowX, belowY)
	}

	canSwapBelow := belowInBounds && !below.IsEmpty() && isLighterLiquid(ctx, below, selfDef)

	if belowInBounds && !below.IsEmpty() && !canSwapBelow {
		if ctx.RNG.Float64() < settledSkipProbability {
			ctx.CopyUnchanged()
			return true
		}
	}

	// Step 2: straight down.
	if belowInBounds && !ctx.Moved.Get(belowX, belowY) {
		if below.IsEmpty() {
			moveCell(ctx, belowX, belowY, self, world.MoveNone)
			return true
		}
		if canSwapBelow {
			swapCells(ctx, belowX, belowY, self, below)
			return true
		}
	}

	// Step 3: diagonal down.
	preferLeft := preferLeftOf(ctx)
	dx := [2]int{-1, 1}
	if preferLeft {
		dx = [2]int{-1, 1}
	} else {
		dx = [2]int{1, -1}
	}
	for _, d := range dx {
		nx, ny := ctx.X+d, ctx.Y+1
		if !ctx.InBounds(nx, ny) {
			continue
		}
		if ctx.Moved.Get(nx, ny) {
			continue
		}
		if ctx.RNG.Float64() >= 1-selfDef.Fluidity.Resistance {
			continue
		}
		target := ctx.Read.At(nx, ny)
		move := world.MoveDownLeft
		if d > 0 {
			move = world.MoveDownRight
		}
		if target.IsEmpty() {
			moveCell(ctx, nx, ny, self, move)
			return true
		}
		if isLighterLiquid(ctx, target, selfDef) {
			swapCells(ctx, nx, ny, self, target)
			return true
		}
	}

	// Step 4: sideways spread.
	if ctx.RNG.Float64() < selfDef.Fluidity.Spread {
		leftX, rightX := ctx.X-1, ctx.X+1
		leftOK := ctx.InBounds(leftX, ctx.Y) && ctx.Read.At(leftX, ctx.Y).IsEmpty() && !ctx.Moved.Get(leftX, ctx.Y)
		rightOK := ctx.InBounds(rightX, ctx.Y) && ctx.Read.At(rightX, ctx.Y).IsEmpty() && !ctx.Moved.Get(rightX, ctx.Y)

		switch {
		case leftOK && rightOK:
			leftScore := emptyBelowCount(ctx, leftX)
			rightScore := emptyBelowCount(ctx, rightX)
			goRight := rightScore > leftScore || (rightScore == leftScore && ctx.ScanRight)
			if goRight {
				moveCell(ctx, rightX, ctx.Y, self, world.MoveRight)
			} else {
				moveCell(ctx, leftX, ctx.Y, self, world.MoveLeft)
			}
			return true
		case leftOK:
			moveCell(ctx, leftX, ctx.Y, self, world.MoveLeft)
			return true
		case rightOK:
			moveCell(ctx, rightX, ctx.Y, self, world.MoveRight)
			return true
		}
	}

	if !ctx.IsChained {
		ctx.CopyUnchanged()
		return true
	}
	return false
}

func isLighterLiquid(ctx *Context, cell world.Cell, selfDef *world.ElementDef) bool {
	def := ctx.Elements.Def(cell.Type)
	return def.State == world.StateLiquid && def.Density < selfDef.Density
}

func moveCell(ctx *Context, nx, ny int, cell world.Cell, move world.LastMove) {
	color := ctx.Read.Color(ctx.X, ctx.Y)
	ctx.Write.Set(nx, ny, cell, color, move)
	ctx.Write.Set(ctx.X, ctx.Y, world.Cell{}, world.RGB{}, world.MoveNone)
	ctx.Moved.Mark(nx, ny)
	ctx.Moved.Mark(ctx.X, ctx.Y)
}

// swapCells exchanges self (at ctx.X,ctx.Y) with other (at nx,ny); other
// inherits self's prior last-move, per spec.md §4.3.1 step 2: "On swap
// the swapped element inherits the displaced cell's last-move."
func swapCells(ctx *Context, nx, ny int, self, other world.Cell) {
	selfColor := ctx.Read.Color(ctx.X, ctx.Y)
	otherColor := ctx.Read.Color(nx, ny)
	selfLastMove := ctx.Read.LastMoveAt(ctx.X, ctx.Y)

	ctx.Write.Set(nx, ny, self, selfColor, world.MoveDown)
	ctx.Write.Set(ctx.X, ctx.Y, other, otherColor, selfLastMove)
	ctx.Moved.Mark(nx, ny)
	ctx.Moved.Mark(ctx.X, ctx.Y)
}

func emptyBelowCount(ctx *Context, x int) int {
	count := 0
	for d := 1; d <= lookaheadDepth; d++ {
		y := ctx.Y + d
		if !ctx.InBounds(x, y) {
			break
		}
		if !ctx.Read.At(x, y).IsEmpty() {
			break
		}
		count++
	}
	return count
}

// preferLeftOf resolves the preferred diagonal direction: the last-move
// direction if it was lateral, else the scan direction (spec.md §4.3.1
// step 3: "Preferred direction = (LEFT if last_move was LEFT, RIGHT if
// RIGHT, else scan_right)").
func preferLeftOf(ctx *Context) bool {
	switch ctx.Read.LastMoveAt(ctx.X, ctx.Y) {
	case world.MoveLeft:
		return true
	case world.MoveRight:
		return false
	default:
		return !ctx.ScanRight
	}
}
