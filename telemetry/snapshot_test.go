package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/terraspiel/terraspiel/world"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	g := world.NewGrid(4, 3)
	g.Set(1, 1, world.Cell{Type: 2}, world.RGB{R: 10, G: 20, B: 30}, world.MoveDown)

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		FrameCount: 1000,
		Particles: []ParticleState{
			{ID: 7, Kind: world.ParticleEther, X: 1.5, Y: 2.5, VX: 0.1, VY: -0.2, Life: 80},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkDeepEther,
			Tick:        1000,
			Description: "test bookmark",
		},
	}
	snapshot.FromGrid(g)

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.FrameCount != snapshot.FrameCount {
		t.Errorf("FrameCount mismatch: got %d, want %d", loaded.FrameCount, snapshot.FrameCount)
	}
	if len(loaded.Particles) != len(snapshot.Particles) {
		t.Errorf("Particles count mismatch: got %d, want %d", len(loaded.Particles), len(snapshot.Particles))
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}

	restored := loaded.ToGrid()
	if restored.At(1, 1).Type != 2 {
		t.Errorf("restored cell type mismatch: got %d, want 2", restored.At(1, 1).Type)
	}
	if restored.LastMoveAt(1, 1) != world.MoveDown {
		t.Errorf("restored last-move mismatch: got %v, want MoveDown", restored.LastMoveAt(1, 1))
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		FrameCount: 5000,
		Bookmark: &Bookmark{
			Type: BookmarkBigExplosion,
			Tick: 5000,
		},
	}
	snapshot.FromGrid(world.NewGrid(2, 2))

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_big_explosion.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	snapshotNoBookmark := &Snapshot{Version: SnapshotVersion, FrameCount: 3000}
	snapshotNoBookmark.FromGrid(world.NewGrid(2, 2))

	path, err = SaveSnapshot(snapshotNoBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}
