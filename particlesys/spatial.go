// Package particlesys implements passes 4-6 of the tick pipeline: ether
// drift, thunder flight, and fire propagation, all operating on the
// ark-ECS particle population against the current grid.
package particlesys

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/terraspiel/terraspiel/components"
)

// SpatialHash buckets particle entities by integer cell coordinate so the
// ether pass can find every other particle sharing a 9-cell Moore block
// without an O(n^2) scan (spec.md §4.5.2: "first build a spatial hash
// bucketed by integer cell (rebuilt per tick)").
//
// Adapted from the teacher's SpatialGrid (systems/spatial.go): this hash
// drops the toroidal wraparound (Terraspiel's grid has hard walls) and
// buckets by exact integer cell rather than a coarser cellSize, since the
// Moore-block query only ever needs depth-1 neighbours.
type SpatialHash struct {
	w, h    int
	buckets map[int][]ecs.Entity
}

// NewSpatialHash allocates an empty hash sized for a w*h grid.
func NewSpatialHash(w, h int) *SpatialHash {
	return &SpatialHash{w: w, h: h, buckets: make(map[int][]ecs.Entity)}
}

// Clear empties every bucket, ready for this tick's rebuild.
func (s *SpatialHash) Clear() {
	for k := range s.buckets {
		delete(s.buckets, k)
	}
}

func (s *SpatialHash) key(cx, cy int) int {
	return cy*s.w + cx
}

// Insert buckets e at integer cell (cx,cy).
func (s *SpatialHash) Insert(e ecs.Entity, cx, cy int) {
	k := s.key(cx, cy)
	s.buckets[k] = append(s.buckets[k], e)
}

// MooreBlock appends, to dst, every entity bucketed in the 3x3 block of
// cells centred on (cx,cy), excluding exclude. Reuse dst across calls to
// avoid allocation.
func (s *SpatialHash) MooreBlock(dst []ecs.Entity, cx, cy int, exclude ecs.Entity) []ecs.Entity {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= s.w || y < 0 || y >= s.h {
				continue
			}
			for _, e := range s.buckets[s.key(x, y)] {
				if e == exclude {
					continue
				}
				dst = append(dst, e)
			}
		}
	}
	return dst
}

// Rebuild clears and repopulates the hash from every particle matched by
// filter, of any kind and life, keyed by the particle's current integer
// position; callers filter the query results by kind.
func (s *SpatialHash) Rebuild(filter *ecs.Filter1[components.Particle]) {
	s.Clear()
	query := filter.Query()
	for query.Next() {
		p := query.Get()
		s.Insert(query.Entity(), int(p.X), int(p.Y))
	}
}
