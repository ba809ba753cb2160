// Package behavior implements Pass 1 of the tick pipeline: the per-element
// movement and logic routines dispatched per cell (spec.md §4.3 "Cell
// Behaviours").
package behavior

import (
	"math/rand"

	"github.com/terraspiel/terraspiel/world"
)

// Context is the shared state every behaviour reads and writes: the read
// buffer (grid + colour + last-move), the write buffer, the moved bitmap,
// the cell under consideration, the grid dimensions, the scan direction,
// and whether the caller has already taken responsibility for the
// read->write copy (spec.md §4.3: "Behaviours share a context...").
type Context struct {
	Read  *world.Grid
	Write *world.Grid
	Moved *world.MovedBitmap

	Elements *world.ElementRegistry
	Rules    *world.RuleRegistry
	Palette  *world.Palette
	RNG      *rand.Rand

	X, Y      int
	ScanRight bool

	// IsChained is set when a composite behaviour (crystal chaining into
	// granular) delegates and takes responsibility for the read->write
	// copy itself; the delegate must not also copy.
	IsChained bool

	// SelfOverride, when set, is used in place of Read.At(X,Y) as the
	// cell under consideration. A chaining caller (crystal delegating to
	// granular) sets this to the already-mutated cell so the delegate's
	// eventual write carries the caller's updates forward instead of a
	// stale read-buffer snapshot.
	SelfOverride *world.Cell

	// Spawned accumulates particles produced by this pass, consumed by
	// the caller after the scan completes.
	Spawned []world.Particle

	// Recorder receives pass-level telemetry events; nil when telemetry
	// is disabled (headless viewer runs, most tests).
	Recorder Recorder
}

// Recorder is the subset of telemetry.Collector this package's
// behaviours report events to. Defined here rather than imported so
// behavior never depends on the telemetry package directly.
type Recorder interface {
	RecordRainDrop()
}

// Spawn queues a particle to be created once the current scan finishes.
func (c *Context) Spawn(p world.Particle) {
	c.Spawned = append(c.Spawned, p)
}

// CopyUnchanged carries the current cell, colour, and last-move from read
// to write at (x,y), satisfying the contract that an inert cell leaves no
// hole in the write buffer (spec.md §3 Invariants: "Buffer discipline").
// If SelfOverride is set, its value is written instead of the raw read
// buffer cell, so a chaining caller's prior mutations are preserved.
func (c *Context) CopyUnchanged() {
	if c.SelfOverride != nil {
		c.Write.Set(c.X, c.Y, *c.SelfOverride, c.Read.Color(c.X, c.Y), c.Read.LastMoveAt(c.X, c.Y))
		return
	}
	c.Write.Copy(c.X, c.Y, c.Read)
}

// Self returns the cell under consideration: SelfOverride if set, else
// the current read-buffer value at (X,Y).
func (c *Context) Self() world.Cell {
	if c.SelfOverride != nil {
		return *c.SelfOverride
	}
	return c.Read.At(c.X, c.Y)
}

// Below returns the coordinates directly below the current cell.
func (c *Context) Below() (int, int) {
	return c.X, c.Y + 1
}

// InBounds reports whether (x,y) is within the grid.
func (c *Context) InBounds(x, y int) bool {
	return c.Read.InBounds(x, y)
}

// writeMoved writes cell, colour and last-move at (nx,ny) in the write
// buffer and marks only that coordinate as moved; whatever the source
// coordinate receives is left to the caller.
func (c *Context) writeMoved(nx, ny int, cell world.Cell, color world.RGB, move world.LastMove) {
	c.Write.Set(nx, ny, cell, color, move)
	c.Moved.Mark(nx, ny)
}
