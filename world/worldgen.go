package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// DefaultTerrainGenerator builds a seeded terrain: a Perlin-banded
// elevation profile for the solid layers (stone rising through soil and
// sand toward the surface), an opensimplex field picking out clay/ore
// pockets within the stone band, and a shallow sea of WATER above the
// surface line (spec.md §1: "The terrain generator is a boundary
// collaborator").
//
// Grounded on the teacher's layered Perlin terrain passes
// (systems/terrain.go: generateSeaFloor/generateFloatingIslands), adapted
// from a screen-pixel terrain-collision grid to a material cell grid.
type DefaultTerrainGenerator struct {
	// SurfaceRatio is the fraction of grid height, from the top, where
	// the nominal ground line sits before noise perturbation (e.g. 0.55
	// puts the surface just past the midpoint).
	SurfaceRatio float64
	// WaterRatio is the fraction of grid height, from the top, where the
	// water line sits: rows above it stay EMPTY, and rows from it down to
	// a column's ground surface are filled with WATER.
	WaterRatio float64
}

// NewDefaultTerrainGenerator returns a generator with reasonable defaults.
func NewDefaultTerrainGenerator() *DefaultTerrainGenerator {
	return &DefaultTerrainGenerator{SurfaceRatio: 0.55, WaterRatio: 0.35}
}

const (
	terrainSurfaceNoiseScale = 0.04
	terrainMineralNoiseScale = 0.11
	terrainSurfaceAmplitude  = 0.12
)

// Generate implements TerrainGenerator.
func (g *DefaultTerrainGenerator) Generate(grid *Grid, elements *ElementRegistry, palette *Palette, rng *rand.Rand) {
	perlin := NewPerlinNoise(rng.Int63())
	simplex := opensimplex.NewNormalized(rng.Int63())

	stone, hasStone := elements.Lookup("STONE")
	soil, hasSoil := elements.Lookup("SOIL")
	sand, hasSand := elements.Lookup("SAND")
	clay, hasClay := elements.Lookup("CLAY")
	water, hasWater := elements.Lookup("WATER")
	fertile, hasFertile := elements.Lookup("FERTILE_SOIL")

	surfaceY := int(float64(grid.H) * g.SurfaceRatio)
	waterY := int(float64(grid.H) * g.WaterRatio)

	for x := 0; x < grid.W; x++ {
		noiseVal := perlin.Noise2D(float64(x)*terrainSurfaceNoiseScale, 0)
		columnSurface := surfaceY + int(noiseVal*terrainSurfaceAmplitude*float64(grid.H))

		for y := 0; y < grid.H; y++ {
			var id ElementID
			switch {
			case y < waterY:
				// above water line and above ground: stays EMPTY (sky)
			case y < columnSurface && y >= waterY && hasWater:
				id = water
			case y >= columnSurface:
				depth := y - columnSurface
				id = soilOrSandFor(depth, x, y, simplex, hasStone, stone, hasSoil, soil, hasSand, sand, hasClay, clay, hasFertile, fertile)
			}

			if id == EmptyElement {
				grid.Set(x, y, Cell{}, RGB{}, MoveNone)
				continue
			}
			color := palette.PickBase(id, elements.Def(id), rng)
			grid.Set(x, y, Cell{Type: id}, color, MoveNone)
		}
	}
}

func soilOrSandFor(depth, x, y int, simplex opensimplex.Noise, hasStone bool, stone ElementID, hasSoil bool, soil ElementID, hasSand bool, sand ElementID, hasClay bool, clay ElementID, hasFertile bool, fertile ElementID) ElementID {
	mineral := simplex.Eval2(float64(x)*terrainMineralNoiseScale, float64(y)*terrainMineralNoiseScale)

	switch {
	case depth > 12 && hasStone:
		if hasClay && mineral > 0.82 {
			return clay
		}
		return stone
	case depth > 4:
		if hasFertile && mineral > 0.7 && hasSoil {
			return fertile
		}
		if hasSoil {
			return soil
		}
	default:
		if hasSand && mineral > 0.55 {
			return sand
		}
		if hasSoil {
			return soil
		}
	}
	if hasStone {
		return stone
	}
	return EmptyElement
}
