package world

import "strings"

// ParticleKind distinguishes the handful of free-floating particle
// behaviours (spec.md §3 "Particle").
type ParticleKind uint8

const (
	ParticleNone ParticleKind = iota
	ParticleEther
	ParticleThunder
	ParticleFireEmber
	// ParticleScattered is a free chunk of solid/liquid material thrown
	// outward by an explosion; its Element field names the material
	// (spec.md §4.5.3 "Explosion").
	ParticleScattered
)

// ParseParticleKind resolves a rule registry's particle name. The bool is
// false for anything not recognised, letting the rule loader drop the
// owning rule with a diagnostic instead of failing the whole load.
func ParseParticleKind(name string) (ParticleKind, bool) {
	switch strings.ToLower(name) {
	case "ether":
		return ParticleEther, true
	case "thunder":
		return ParticleThunder, true
	case "fire_ember", "fireember", "ember":
		return ParticleFireEmber, true
	default:
		return ParticleNone, false
	}
}

// String names a particle kind for logging and telemetry labels.
func (k ParticleKind) String() string {
	switch k {
	case ParticleEther:
		return "ether"
	case ParticleThunder:
		return "thunder"
	case ParticleFireEmber:
		return "fire_ember"
	case ParticleScattered:
		return "scattered"
	default:
		return "none"
	}
}

// ParticleID uniquely identifies a particle for the lifetime of the
// simulation (spec.md §3 Invariants: "particle IDs are monotonically
// increasing and never reused").
type ParticleID int64

// UnassignedParticleID is the sentinel value for a particle without an ID.
// Every spawn path takes a real ID from World.NextParticleID when the
// particle is created, so live particles never carry it.
const UnassignedParticleID ParticleID = -1

// Particle is a free-floating sub-cell entity: ether, thunder, a fire
// ember, or a scattered chunk of material. Position is sub-cell (fractional), letting particles move at
// fractional speed between grid cells per tick.
type Particle struct {
	ID   ParticleID
	Kind ParticleKind

	X, Y   float64 // sub-cell position
	VX, VY float64 // velocity, cells/tick

	Life int32 // remaining frames; the particle is removed once it reaches <=0

	// Element names the scattered material for ParticleScattered
	// particles; unused by every other kind.
	Element ElementID
}
