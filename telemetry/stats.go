package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window (SPEC_FULL.md
// §9, gocsv export).
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	FrameCount      int64   `csv:"frame_count"`

	// Population counts at window end, by element/particle kind name.
	CellCounts     map[string]int `csv:"-"`
	ParticleCounts map[string]int `csv:"-"`

	TotalCells     int `csv:"total_cells"`
	TotalParticles int `csv:"total_particles"`

	// Pass activity during the window.
	Transformations  int `csv:"transformations"`
	FireIgnitions    int `csv:"fire_ignitions"`
	ThunderExplosions int `csv:"thunder_explosions"`
	EtherDeepenings  int `csv:"ether_deepenings"`
	RainDrops        int `csv:"rain_drops"`

	// Ether-storage distribution across live CRYSTAL cells this window.
	EtherStorageMean float64 `csv:"ether_storage_mean"`
	EtherStorageStd  float64 `csv:"ether_storage_std"`
	EtherStorageP10  float64 `csv:"ether_storage_p10"`
	EtherStorageP50  float64 `csv:"ether_storage_p50"`
	EtherStorageP90  float64 `csv:"ether_storage_p90"`

	// Explosion-radius distribution across this window's explosions.
	ExplosionRadiusMean float64 `csv:"explosion_radius_mean"`
	ExplosionRadiusP90  float64 `csv:"explosion_radius_p90"`

	// Cells cleared by thunder explosions this window.
	CellsCleared int `csv:"cells_cleared"`
}

// Percentile calculates the p-th quantile of a sorted slice using gonum's
// empirical CDF, matching the teacher's percentile-reporting shape but
// delegating the math (spec.md §9: percentile telemetry fields).
// p should be in [0, 1]. Returns 0 if sorted is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeDistStats calculates mean, standard deviation, and p10/p50/p90
// quantiles from an unsorted sample of values.
func ComputeDistStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int64("frame_count", s.FrameCount),
		slog.Int("total_cells", s.TotalCells),
		slog.Int("total_particles", s.TotalParticles),
		slog.Int("transformations", s.Transformations),
		slog.Int("fire_ignitions", s.FireIgnitions),
		slog.Int("thunder_explosions", s.ThunderExplosions),
		slog.Int("ether_deepenings", s.EtherDeepenings),
		slog.Int("rain_drops", s.RainDrops),
		slog.Float64("ether_storage_mean", s.EtherStorageMean),
		slog.Float64("ether_storage_p50", s.EtherStorageP50),
		slog.Float64("explosion_radius_mean", s.ExplosionRadiusMean),
		slog.Int("cells_cleared", s.CellsCleared),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"frame_count", s.FrameCount,
		"total_cells", s.TotalCells,
		"total_particles", s.TotalParticles,
		"transformations", s.Transformations,
		"fire_ignitions", s.FireIgnitions,
		"thunder_explosions", s.ThunderExplosions,
		"ether_deepenings", s.EtherDeepenings,
		"rain_drops", s.RainDrops,
		"ether_storage_mean", s.EtherStorageMean,
		"ether_storage_std", s.EtherStorageStd,
		"ether_storage_p10", s.EtherStorageP10,
		"ether_storage_p50", s.EtherStorageP50,
		"ether_storage_p90", s.EtherStorageP90,
		"explosion_radius_mean", s.ExplosionRadiusMean,
		"explosion_radius_p90", s.ExplosionRadiusP90,
		"cells_cleared", s.CellsCleared,
	)
}
