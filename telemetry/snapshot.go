package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/terraspiel/terraspiel/world"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete simulation state needed to resume a run:
// the grid's front buffer, every live particle, and the frame/RNG state
// (spec.md §4.1 "World State").
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Width  int `json:"width"`
	Height int `json:"height"`

	FrameCount int64 `json:"frame_count"`

	Cells     []world.Cell     `json:"cells"`
	Colors    []world.RGB      `json:"colors"`
	LastMoves []world.LastMove `json:"last_moves"`

	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one live particle's complete state.
type ParticleState struct {
	ID   world.ParticleID   `json:"id"`
	Kind world.ParticleKind `json:"kind"`

	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
	Life int32   `json:"life"`

	Element world.ElementID `json:"element,omitempty"`
}

// FromGrid populates Width, Height, Cells, Colors, and LastMoves from g.
func (s *Snapshot) FromGrid(g *world.Grid) {
	s.Width, s.Height = g.W, g.H
	s.Cells = append([]world.Cell(nil), g.Cells...)
	s.Colors = append([]world.RGB(nil), g.Colors...)
	s.LastMoves = append([]world.LastMove(nil), g.LastMoves...)
}

// ToGrid allocates and populates a Grid from the snapshot's buffers.
func (s *Snapshot) ToGrid() *world.Grid {
	g := world.NewGrid(s.Width, s.Height)
	copy(g.Cells, s.Cells)
	copy(g.Colors, s.Colors)
	copy(g.LastMoves, s.LastMoves)
	return g
}

// SaveSnapshot writes a snapshot to disk. Returns the filepath where it
// was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.FrameCount)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.FrameCount, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
