package world

import "math/rand"

// variationsPerElement is the number of precomputed colour variants kept
// for an element flagged has_color_variation (spec.md §4.1: "a
// precomputed palette of ~10 variations per element").
const variationsPerElement = 10

const variationJitter = 14 // max +/- per channel

// Palette precomputes colour variations for every element so neither
// placement nor the transformation engine needs to touch randomness on
// the colour path beyond picking an index.
type Palette struct {
	variants map[ElementID][]RGB
}

// BuildPalette derives a Palette from the element registry: elements
// with HasColorVariation get variationsPerElement jittered variants of
// their base colour, others get none (PickBase then falls back to the
// base colour; Pick returns the zero colour).
func BuildPalette(elements *ElementRegistry, rng *rand.Rand) *Palette {
	p := &Palette{variants: make(map[ElementID][]RGB)}
	elements.All(func(id ElementID, def *ElementDef) {
		if !def.HasColorVariation {
			return
		}
		variants := make([]RGB, variationsPerElement)
		for i := range variants {
			variants[i] = jitter(def.Color, rng)
		}
		p.variants[id] = variants
	})
	return p
}

func jitter(base RGB, rng *rand.Rand) RGB {
	return RGB{
		R: jitterChannel(base.R, rng),
		G: jitterChannel(base.G, rng),
		B: jitterChannel(base.B, rng),
	}
}

func jitterChannel(c uint8, rng *rand.Rand) uint8 {
	delta := rng.Intn(2*variationJitter+1) - variationJitter
	v := int(c) + delta
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// Pick returns a colour for id: a random precomputed variant if any exist,
// else the zero RGB (black). It does not know the element's base colour;
// PickBase does.
func (p *Palette) Pick(id ElementID, rng *rand.Rand) RGB {
	variants := p.variants[id]
	if len(variants) == 0 {
		return RGB{}
	}
	return variants[rng.Intn(len(variants))]
}

// PickBase is like Pick but falls back to def.Color when the element
// carries no variants, used by callers that already hold the definition.
func (p *Palette) PickBase(id ElementID, def *ElementDef, rng *rand.Rand) RGB {
	variants := p.variants[id]
	if len(variants) == 0 {
		return def.Color
	}
	return variants[rng.Intn(len(variants))]
}
