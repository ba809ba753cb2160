package world

import "testing"

func TestNextParticleIDMonotonic(t *testing.T) {
	w := NewWorld(4, 4, 1)
	seen := make(map[ParticleID]bool)
	var prev ParticleID = -1
	for i := 0; i < 100; i++ {
		id := w.NextParticleID()
		if id <= prev {
			t.Fatalf("NextParticleID() = %d, want strictly greater than previous %d", id, prev)
		}
		if seen[id] {
			t.Fatalf("NextParticleID() returned %d twice", id)
		}
		seen[id] = true
		prev = id
	}
}

func TestPlaceOnlyEmpty(t *testing.T) {
	w := NewWorld(3, 3, 1)
	w.Elements = mustLoadElements(t, sampleElements)
	w.Palette = BuildPalette(w.Elements, w.RNG)

	if err := w.Place(1, 1, "SOIL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Front.At(1, 1).Type == EmptyElement {
		t.Fatal("Place did not write to Front")
	}
	if w.Back.At(1, 1).Type == EmptyElement {
		t.Fatal("Place did not write to Back")
	}

	// Placing onto an already-occupied cell is a silent no-op, not an error.
	if err := w.Place(1, 1, "WATER"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	soil, _ := w.Elements.Lookup("SOIL")
	if w.Front.At(1, 1).Type != soil {
		t.Error("Place overwrote an occupied cell")
	}
}

func TestPlaceUnknownElement(t *testing.T) {
	w := NewWorld(3, 3, 1)
	w.Elements = mustLoadElements(t, sampleElements)
	w.Palette = BuildPalette(w.Elements, w.RNG)

	if err := w.Place(1, 1, "UNOBTAINIUM"); err == nil {
		t.Fatal("expected an error for an unknown element name")
	}
}

func TestPlaceOutOfBoundsIsNoop(t *testing.T) {
	w := NewWorld(3, 3, 1)
	w.Elements = mustLoadElements(t, sampleElements)
	w.Palette = BuildPalette(w.Elements, w.RNG)

	if err := w.Place(-1, 0, "SOIL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClearResetsGridAndStats(t *testing.T) {
	w := NewWorld(2, 2, 1)
	w.Elements = mustLoadElements(t, sampleElements)
	w.Palette = BuildPalette(w.Elements, w.RNG)
	w.Place(0, 0, "SOIL")
	w.RefreshStats(nil)

	w.Clear()

	if !w.Front.At(0, 0).IsEmpty() {
		t.Error("Clear left a non-empty cell in Front")
	}
	if w.FrameCount != 0 {
		t.Errorf("FrameCount = %d, want 0", w.FrameCount)
	}
	stats := w.Stats()
	if len(stats.CellCounts) != 0 {
		t.Errorf("CellCounts after Clear = %+v, want empty", stats.CellCounts)
	}
}

func TestSwapBuffersAdvancesFrameCount(t *testing.T) {
	w := NewWorld(2, 2, 1)
	front, back := w.Front, w.Back
	w.SwapBuffers()
	if w.Front != back || w.Back != front {
		t.Error("SwapBuffers did not exchange Front/Back")
	}
	if w.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", w.FrameCount)
	}
}

func TestRefreshStatsCountsLiveCells(t *testing.T) {
	w := NewWorld(2, 2, 1)
	w.Elements = mustLoadElements(t, sampleElements)
	w.Palette = BuildPalette(w.Elements, w.RNG)
	w.Place(0, 0, "SOIL")
	w.Place(1, 0, "SOIL")
	w.Place(0, 1, "WATER")

	w.RefreshStats(map[ParticleKind]int{ParticleThunder: 2})

	stats := w.Stats()
	soil, _ := w.Elements.Lookup("SOIL")
	water, _ := w.Elements.Lookup("WATER")
	if stats.CellCounts[soil] != 2 {
		t.Errorf("CellCounts[SOIL] = %d, want 2", stats.CellCounts[soil])
	}
	if stats.CellCounts[water] != 1 {
		t.Errorf("CellCounts[WATER] = %d, want 1", stats.CellCounts[water])
	}
	if stats.ParticleCounts[ParticleThunder] != 2 {
		t.Errorf("ParticleCounts[thunder] = %d, want 2", stats.ParticleCounts[ParticleThunder])
	}
}
