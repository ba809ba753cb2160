// Package components holds the ark ECS component types backing the
// particle subsystem. Grounded on the teacher's single-struct-per-concern
// component pattern (components/components.go's Organism, Energy).
package components

import "github.com/terraspiel/terraspiel/world"

// Particle bundles every field a free-floating sub-cell agent needs into
// one archetype component, mirroring world.Particle but living inside the
// ECS world so the ether/thunder/fire passes can use ark's Map/Filter
// query machinery (9-cell Moore-block consumption in particular needs
// entity-keyed spatial lookup, not just a plain slice).
type Particle struct {
	ID   world.ParticleID
	Kind world.ParticleKind

	X, Y   float64
	VX, VY float64

	Life int32

	Element world.ElementID
}
