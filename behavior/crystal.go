package behavior

import (
	"math"

	"github.com/terraspiel/terraspiel/world"
)

const (
	crystalEmitProbability  = 0.001
	crystalStorageMin       = 5
	crystalStorageMax       = 15
	crystalDrainProbability = 0.95
)

// RunCrystal occasionally emits an ETHER particle, draining a shared
// storage counter until the crystal dissolves, then chains into granular
// so crystals still fall (spec.md §4.3.3 "Crystal").
func RunCrystal(ctx *Context) {
	self := ctx.Self()

	if self.EtherStorage == 0 {
		self.EtherStorage = int32(crystalStorageMin + ctx.RNG.Intn(crystalStorageMax-crystalStorageMin))
	}

	dissolved := false
	if ctx.RNG.Float64() < crystalEmitProbability {
		angle := ctx.RNG.Float64() * 2 * math.Pi
		const speed = 0.3
		ctx.Spawn(world.Particle{
			Kind: world.ParticleEther,
			X:    float64(ctx.X) + 0.5,
			Y:    float64(ctx.Y) + 0.5,
			VX:   speed * math.Cos(angle),
			VY:   speed * math.Sin(angle),
			Life: 150,
		})

		if ctx.RNG.Float64() < crystalDrainProbability {
			self.EtherStorage--
			if self.EtherStorage <= 0 {
				dissolved = true
			}
		}
	}

	if dissolved {
		ctx.Write.Set(ctx.X, ctx.Y, world.Cell{}, world.RGB{}, world.MoveNone)
		return
	}

	chained := *ctx
	chained.IsChained = true
	chained.SelfOverride = &self
	if !RunGranular(&chained) {
		ctx.SelfOverride = &self
		ctx.CopyUnchanged()
	}
}
