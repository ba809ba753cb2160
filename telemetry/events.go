// Package telemetry provides tick-window statistics, notable-event
// bookmarking, and particle-lifetime tracking for the simulation.
package telemetry

import "github.com/terraspiel/terraspiel/world"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventTransformation EventType = iota
	EventFireIgnition
	EventThunderExplosion
	EventEtherDeepening
	EventRainDrop
	EventParticleSpawn
	EventParticleDeath
)

// Event represents a single telemetry event emitted by a tick pass.
type Event struct {
	Type  EventType
	Tick  int64
	X, Y  int
	Kind  world.ParticleKind
	Value float64 // radius (explosion), storage (ether deepening), etc.
}
