package world

// Grid is one buffer's worth of the simulation surface: the cell array plus
// its parallel colour and last-move fields (spec.md §3 "Grid").
type Grid struct {
	W, H int

	Cells     []Cell
	Colors    []RGB
	LastMoves []LastMove
}

// NewGrid allocates a W*H grid, fully EMPTY and black.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:         w,
		H:         h,
		Cells:     make([]Cell, w*h),
		Colors:    make([]RGB, w*h),
		LastMoves: make([]LastMove, w*h),
	}
}

// InBounds reports whether (x,y) is a valid grid coordinate.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

func (g *Grid) idx(x, y int) int {
	return y*g.W + x
}

// At returns the cell at (x,y). Callers must ensure InBounds.
func (g *Grid) At(x, y int) Cell {
	return g.Cells[g.idx(x, y)]
}

// Set writes a cell, its colour, and its last-move in one call.
func (g *Grid) Set(x, y int, c Cell, color RGB, move LastMove) {
	i := g.idx(x, y)
	g.Cells[i] = c
	g.Colors[i] = color
	g.LastMoves[i] = move
}

// SetCell writes only the cell, leaving colour/last-move untouched.
func (g *Grid) SetCell(x, y int, c Cell) {
	g.Cells[g.idx(x, y)] = c
}

// Color returns the colour at (x,y).
func (g *Grid) Color(x, y int) RGB {
	return g.Colors[g.idx(x, y)]
}

// SetColor writes only the colour at (x,y).
func (g *Grid) SetColor(x, y int, c RGB) {
	g.Colors[g.idx(x, y)] = c
}

// LastMoveAt returns the last-move flag at (x,y).
func (g *Grid) LastMoveAt(x, y int) LastMove {
	return g.LastMoves[g.idx(x, y)]
}

// Copy writes src's cell/colour/last-move at (x,y) into g at the same
// coordinate. Used by Pass 1 to carry over cells that produced no move
// (spec.md §3 Invariants: "Buffer discipline").
func (g *Grid) Copy(x, y int, src *Grid) {
	i := g.idx(x, y)
	si := src.idx(x, y)
	g.Cells[i] = src.Cells[si]
	g.Colors[i] = src.Colors[si]
	g.LastMoves[i] = src.LastMoves[si]
}

// MovedBitmap tracks, per tick, which cells have already been touched as a
// mover in Pass 1 (spec.md §3 Invariants: "A single tick touches each cell
// at most once as a mover").
type MovedBitmap struct {
	w, h int
	bits []bool
}

// NewMovedBitmap allocates a cleared bitmap for a W*H grid.
func NewMovedBitmap(w, h int) *MovedBitmap {
	return &MovedBitmap{w: w, h: h, bits: make([]bool, w*h)}
}

// Reset clears every bit for the next tick.
func (m *MovedBitmap) Reset() {
	for i := range m.bits {
		m.bits[i] = false
	}
}

// Get reports whether (x,y) has already moved this tick.
func (m *MovedBitmap) Get(x, y int) bool {
	return m.bits[y*m.w+x]
}

// Mark flags (x,y) as moved this tick.
func (m *MovedBitmap) Mark(x, y int) {
	m.bits[y*m.w+x] = true
}
