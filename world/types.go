// Package world owns the simulation's grid, particle set, and the
// read-only element/rule registries the tick pipeline consumes.
package world

// ElementID identifies a material kind. EMPTY is always zero.
type ElementID uint16

// EmptyElement is the reserved ID for an empty cell. It always exists and
// never needs to be declared in the element registry.
const EmptyElement ElementID = 0

// MatterState classifies an element's physical behaviour.
type MatterState uint8

const (
	StateSolid MatterState = iota
	StateLiquid
	StateGas
	StateParticle
)

// LastMove records the direction a cell moved on its most recent tick.
type LastMove uint8

const (
	MoveNone LastMove = iota
	MoveDown
	MoveDownLeft
	MoveDownRight
	MoveLeft
	MoveRight
)

// PlantMode distinguishes the growth stage of a PLANT cell.
type PlantMode uint8

const (
	PlantNone PlantMode = iota
	PlantStem
	PlantGroundCover
	PlantLeaf
	PlantFlower
	PlantWithered
)

// Fluidity governs granular/liquid motion (spec.md §3 "Element definition").
type Fluidity struct {
	Resistance float64 // [0,1], chance a diagonal move is rejected
	Spread     float64 // [0,1], chance of a sideways-spread attempt
}

// RGB is a plain 8-bit-per-channel colour triple.
type RGB struct {
	R, G, B uint8
}

// ElementDef is the immutable per-kind definition loaded from the element
// registry (spec.md §6 "Element registry").
type ElementDef struct {
	Name             string
	Color            RGB
	Density          float64
	State            MatterState
	Fluidity         *Fluidity // nil => static, non-moving solid
	HasColorVariation bool
	IsFlammable      bool
	IsStatic         bool
	PartColors       map[string]RGB // stem/leaf/flower/withered for compound kinds
}

// Cell is one grid position: a type tag plus a bag of per-kind scalars.
// Unused fields for a given kind are left at their zero value, which is
// also the value a fresh EMPTY cell carries.
type Cell struct {
	Type ElementID

	Counter          int32 // generic rule-progress / growth counter
	BurningProgress  int32

	Life int32 // remaining frames (FIRE)

	RainCounter      int32
	RainThreshold    int32
	ChargeCounter    int32
	ChargeThreshold  int32
	DecayCounter     int32

	PlantMode   PlantMode
	OilCounter  int32

	EtherStorage int32 // 0 means "unset" for a CRYSTAL that hasn't been observed yet
}

// IsEmpty reports whether the cell holds no material.
func (c Cell) IsEmpty() bool {
	return c.Type == EmptyElement
}

// ResetOnTypeChange clears the counters invariantly reset whenever a cell's
// type changes (spec.md §3 Invariants: "A cell's counter and
// burning_progress reset on type change").
func (c *Cell) ResetOnTypeChange(newType ElementID) {
	c.Type = newType
	c.Counter = 0
	c.BurningProgress = 0
}

// Clamp32 restricts v to [lo, hi].
func Clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float32) float32 {
	return Clamp32(v, 0, 1)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// ClampF64 restricts v to [lo, hi].
func ClampF64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
