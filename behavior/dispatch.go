package behavior

import "github.com/terraspiel/terraspiel/world"

// Dispatcher resolves the handful of element names with bespoke Pass-1
// behaviours once at load time, so the per-cell dispatch in the hot loop
// is a handful of integer comparisons rather than repeated map lookups
// (spec.md §4.3: "Callback-style behaviours... translate to a tagged sum
// over element kinds").
type Dispatcher struct {
	cloud, crystal, plant, oil world.ElementID
	hasCloud, hasCrystal, hasPlant, hasOil bool
}

// NewDispatcher resolves the bespoke-behaviour element IDs from elements.
// Any name absent from the registry simply never matches.
func NewDispatcher(elements *world.ElementRegistry) *Dispatcher {
	d := &Dispatcher{}
	d.cloud, d.hasCloud = elements.Lookup("CLOUD")
	d.crystal, d.hasCrystal = elements.Lookup("CRYSTAL")
	d.plant, d.hasPlant = elements.Lookup("PLANT")
	d.oil, d.hasOil = elements.Lookup("OIL")
	return d
}

// Run dispatches ctx's cell to its Pass-1 behaviour (spec.md §4.3.1-4.3.6),
// falling back to granular motion for any other fluid-declaring element
// and to an unconditional copy for static solids and EMPTY.
func (d *Dispatcher) Run(ctx *Context) {
	cell := ctx.Read.At(ctx.X, ctx.Y)
	if cell.IsEmpty() {
		ctx.Write.Set(ctx.X, ctx.Y, world.Cell{}, world.RGB{}, world.MoveNone)
		return
	}

	switch {
	case d.hasCloud && cell.Type == d.cloud:
		RunCloud(ctx)
	case d.hasCrystal && cell.Type == d.crystal:
		RunCrystal(ctx)
	case d.hasPlant && cell.Type == d.plant:
		RunPlant(ctx)
	case d.hasOil && cell.Type == d.oil:
		RunOil(ctx)
	default:
		RunGranular(ctx)
	}
}
