package particlesys

import (
	"math"

	"github.com/terraspiel/terraspiel/world"
)

// scatterNames lists the element kinds an explosion is allowed to convert
// to free particles (spec.md §4.5.3 "Explosion"). Names absent from the
// loaded element registry are skipped silently.
var scatterNames = []string{
	"SOIL", "SAND", "WATER", "MUD", "PEAT", "FERTILE_SOIL",
	"CLAY", "FIRE", "PLANT", "SEED", "OIL",
}

func scatterAllowed(elements *world.ElementRegistry) map[world.ElementID]bool {
	allowed := make(map[world.ElementID]bool, len(scatterNames))
	for _, name := range scatterNames {
		if id, ok := elements.Lookup(name); ok {
			allowed[id] = true
		}
	}
	return allowed
}

// Explode converts every scatter-eligible cell within radius of (cx,cy)
// to EMPTY with probability 1-d/r and queues an outward-flying scattered
// particle for each converted cell (spec.md §4.5.3 "Explosion").
func Explode(ctx *Context, cx, cy int, radius float64) {
	allowed := scatterAllowed(ctx.Elements)

	minX, maxX := int(float64(cx)-radius)-1, int(float64(cx)+radius)+1
	minY, maxY := int(float64(cy)-radius)-1, int(float64(cy)+radius)+1

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !ctx.Grid.InBounds(x, y) {
				continue
			}
			dx, dy := float64(x-cx), float64(y-cy)
			d := math.Sqrt(dx*dx + dy*dy)
			if d > radius {
				continue
			}

			cell := ctx.Grid.At(x, y)
			if !allowed[cell.Type] {
				continue
			}

			frac := 1 - d/radius
			if ctx.RNG.Float64() > frac {
				continue
			}

			elementType := cell.Type
			ctx.Grid.Set(x, y, world.Cell{}, world.RGB{}, world.MoveNone)

			var vx, vy float64
			if d > 0 {
				vx, vy = (dx/d)*frac, (dy/d)*frac
			}
			ctx.Exploded = append(ctx.Exploded, ScatterSpawn{
				Element: elementType,
				X:       float64(x) + 0.5,
				Y:       float64(y) + 0.5,
				VX:      vx,
				VY:      vy,
				Life:    100,
			})
		}
	}
}
