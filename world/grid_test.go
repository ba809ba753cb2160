package world

import "testing"

func TestGridSetAndAt(t *testing.T) {
	g := NewGrid(3, 3)
	g.Set(1, 2, Cell{Type: 5}, RGB{R: 10, G: 20, B: 30}, MoveDown)

	if got := g.At(1, 2); got.Type != 5 {
		t.Errorf("At(1,2).Type = %d, want 5", got.Type)
	}
	if got := g.Color(1, 2); got != (RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("Color(1,2) = %+v, want {10 20 30}", got)
	}
	if got := g.LastMoveAt(1, 2); got != MoveDown {
		t.Errorf("LastMoveAt(1,2) = %v, want MoveDown", got)
	}
}

func TestGridCopyCarriesAllThreeFields(t *testing.T) {
	src := NewGrid(2, 2)
	src.Set(0, 0, Cell{Type: 7}, RGB{R: 1}, MoveLeft)

	dst := NewGrid(2, 2)
	dst.Copy(0, 0, src)

	if dst.At(0, 0).Type != 7 {
		t.Error("Copy did not carry Type")
	}
	if dst.Color(0, 0) != (RGB{R: 1}) {
		t.Error("Copy did not carry Color")
	}
	if dst.LastMoveAt(0, 0) != MoveLeft {
		t.Error("Copy did not carry LastMove")
	}
}

func TestGridInBounds(t *testing.T) {
	g := NewGrid(3, 2)
	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{2, 1, true},
		{3, 0, false},
		{0, 2, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		if got := g.InBounds(tt.x, tt.y); got != tt.want {
			t.Errorf("InBounds(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

// MovedBitmap records Mark per cell, reports it through Get, and Reset
// clears every bit for the next tick.
func TestMovedBitmapResetClearsAllBits(t *testing.T) {
	m := NewMovedBitmap(2, 2)
	m.Mark(0, 0)
	m.Mark(1, 1)

	if !m.Get(0, 0) || !m.Get(1, 1) {
		t.Fatal("Mark did not set the expected bits")
	}
	if m.Get(0, 1) {
		t.Error("Get(0,1) = true, want false before Mark")
	}

	m.Reset()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if m.Get(x, y) {
				t.Errorf("Get(%d,%d) after Reset = true, want false", x, y)
			}
		}
	}
}

func TestCellResetOnTypeChangeClearsCounters(t *testing.T) {
	c := Cell{Type: 1, Counter: 5, BurningProgress: 9, RainCounter: 3}
	c.ResetOnTypeChange(2)

	if c.Type != 2 {
		t.Errorf("Type = %d, want 2", c.Type)
	}
	if c.Counter != 0 || c.BurningProgress != 0 {
		t.Errorf("Counter/BurningProgress = %d/%d, want 0/0", c.Counter, c.BurningProgress)
	}
	if c.RainCounter != 3 {
		t.Error("ResetOnTypeChange must not touch fields outside counter/burning_progress")
	}
}
