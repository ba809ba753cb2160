// Package main runs the simulation headlessly for a fixed number of ticks
// and exports CSV/JSON telemetry, for benchmarking and offline analysis
// without opening a window.
//
// Usage: go run ./cmd/terraspielbench [-config path.yaml] [-ticks N] [-output dir]
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/config"
	"github.com/terraspiel/terraspiel/engine"
	"github.com/terraspiel/terraspiel/telemetry"
	"github.com/terraspiel/terraspiel/world"
)

// notableLedgerSize is the number of top-ranked events retained per
// bookmark type.
const notableLedgerSize = 10

func main() {
	configPath := flag.String("config", "", "config YAML file (empty = embedded defaults)")
	ticks := flag.Int("ticks", 10000, "number of ticks to simulate")
	outputDir := flag.String("output", "", "output directory for telemetry CSV/JSON (empty = disabled)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg := config.Cfg()

	elementsData, err := os.ReadFile(cfg.Assets.ElementsPath)
	if err != nil {
		log.Fatalf("reading element registry: %v", err)
	}
	elements, err := world.LoadElementRegistry(elementsData)
	if err != nil {
		log.Fatalf("loading element registry: %v", err)
	}

	rulesData, err := os.ReadFile(cfg.Assets.RulesPath)
	if err != nil {
		log.Fatalf("reading rule registry: %v", err)
	}
	rules, err := world.LoadRuleRegistry(rulesData, elements)
	if err != nil {
		log.Fatalf("loading rule registry: %v", err)
	}

	state := world.NewWorld(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Seed)
	state.Elements = elements
	state.Rules = rules
	state.Palette = world.BuildPalette(elements, state.RNG)

	eng := engine.New(state)
	eng.Randomize(cfg.Grid.Seed, world.NewDefaultTerrainGenerator())

	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindowTicks)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	bookmarks := telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize)
	ledger := telemetry.NewNotableLedger(notableLedgerSize)
	lifetimes := telemetry.NewLifetimeTracker()
	eng.Recorder = collector

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("opening output directory: %v", err)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		log.Fatalf("writing config snapshot: %v", err)
	}

	crystal, hasCrystal := elements.Lookup("CRYSTAL")
	liveParticles := make(map[world.ParticleID]bool)

	start := time.Now()
	for t := int64(1); t <= int64(*ticks); t++ {
		perf.StartTick()
		eng.Tick()
		perf.EndTick()

		updateLifetimes(eng, lifetimes, liveParticles, t)

		if collector.ShouldFlush(t) {
			stats := state.Stats()
			ws := collector.Flush(t, state.FrameCount, stats, elements, etherStorages(state.Front, crystal, hasCrystal))
			ws.LogStats()

			if err := out.WriteTelemetry(ws); err != nil {
				log.Fatalf("writing telemetry: %v", err)
			}

			for _, b := range bookmarks.Check(ws) {
				b.LogBookmark()
				if err := out.WriteBookmark(b); err != nil {
					log.Fatalf("writing bookmark: %v", err)
				}
				ledger.Consider([]telemetry.Bookmark{b}, ws)
			}

			if err := out.WritePerf(perf.Stats(), t); err != nil {
				log.Fatalf("writing perf: %v", err)
			}
		}
	}

	if err := out.WriteNotableLedger(ledger); err != nil {
		log.Fatalf("writing notable ledger: %v", err)
	}

	elapsed := time.Since(start)
	slog.Info("bench complete",
		"ticks", *ticks,
		"elapsed", elapsed,
		"ticks_per_sec", float64(*ticks)/elapsed.Seconds(),
		"tracked_particles", lifetimes.Count(),
	)
	fmt.Printf("ran %d ticks in %s (%.1f ticks/sec)\n", *ticks, elapsed, float64(*ticks)/elapsed.Seconds())
}

// updateLifetimes registers every currently live particle the tracker
// hasn't seen yet, updates peak speed, advances the alive-tick counter
// for the survivors, and stops tracking anything no longer present in the
// ECS world. prevLive is mutated in place to become this tick's live set.
func updateLifetimes(eng *engine.Engine, lifetimes *telemetry.LifetimeTracker, prevLive map[world.ParticleID]bool, tick int64) {
	nowLive := make(map[world.ParticleID]bool, len(prevLive))
	eng.Particles(func(p components.Particle) {
		nowLive[p.ID] = true
		if lifetimes.Get(p.ID) == nil {
			lifetimes.Register(p.ID, tick, p.Kind, p.X, p.Y)
		}
		lifetimes.UpdateSpeed(p.ID, p.VX, p.VY)
	})
	lifetimes.Tick()

	for id := range prevLive {
		if !nowLive[id] {
			lifetimes.Remove(id)
		}
	}
	for id := range prevLive {
		delete(prevLive, id)
	}
	for id := range nowLive {
		prevLive[id] = true
	}
}

// etherStorages collects the EtherStorage of every live CRYSTAL cell in g,
// for the ether-storage distribution telemetry fields.
func etherStorages(g *world.Grid, crystal world.ElementID, hasCrystal bool) []float64 {
	if !hasCrystal {
		return nil
	}
	var storages []float64
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			cell := g.At(x, y)
			if cell.Type == crystal && cell.EtherStorage > 0 {
				storages = append(storages, float64(cell.EtherStorage))
			}
		}
	}
	return storages
}
