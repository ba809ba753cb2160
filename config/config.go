// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Sim        SimConfig        `yaml:"sim"`
	Assets     AssetsConfig     `yaml:"assets"`
	Granular   GranularConfig   `yaml:"granular"`
	Cloud      CloudConfig      `yaml:"cloud"`
	Crystal    CrystalConfig    `yaml:"crystal"`
	Plant      PlantConfig      `yaml:"plant"`
	Oil        OilConfig        `yaml:"oil"`
	Transform  TransformConfig  `yaml:"transform"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Screen     ScreenConfig     `yaml:"screen"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the simulation surface's dimensions and seed.
type GridConfig struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

// SimConfig holds tick pacing parameters.
type SimConfig struct {
	TargetTPS  int  `yaml:"target_tps"`
	AutoRun    bool `yaml:"auto_run"`
}

// AssetsConfig names the on-disk element and rule registry files (spec.md §6).
type AssetsConfig struct {
	ElementsPath string `yaml:"elements_path"`
	RulesPath    string `yaml:"rules_path"`
}

// ScreenConfig holds the interactive viewer's window settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellPixels int `yaml:"cell_pixels"`
}

// GranularConfig holds Pass-1 granular-motion tuning (spec.md §4.3.1).
type GranularConfig struct {
	SettledSkipProbability float64 `yaml:"settled_skip_probability"`
	LookaheadDepth         int     `yaml:"lookahead_depth"`
}

// CloudConfig holds cloud drift/rain/charge tuning (spec.md §4.3.2).
type CloudConfig struct {
	UpwardProbability  float64 `yaml:"upward_probability"`
	LateralProbability float64 `yaml:"lateral_probability"`
	DecayThreshold      int32   `yaml:"decay_threshold"`
	DecayStepChance     float64 `yaml:"decay_step_chance"`
	RainBase            int     `yaml:"rain_base"`
	RainJitter          int     `yaml:"rain_jitter"`
	ChargeBase          int     `yaml:"charge_base"`
	ChargeJitter        int     `yaml:"charge_jitter"`
}

// CrystalConfig holds crystal ether-emission tuning (spec.md §4.3.3).
type CrystalConfig struct {
	EmitProbability  float64 `yaml:"emit_probability"`
	StorageMin       int     `yaml:"storage_min"`
	StorageMax       int     `yaml:"storage_max"`
	DrainProbability float64 `yaml:"drain_probability"`
}

// PlantConfig holds plant growth/decay tuning (spec.md §4.3.5).
type PlantConfig struct {
	WitherBaseThreshold   int     `yaml:"wither_base_threshold"`
	OilBaseThreshold      int     `yaml:"oil_base_threshold"`
	StemGrowthThreshold   int     `yaml:"stem_growth_threshold"`
	StemGrowUpProbability float64 `yaml:"stem_grow_up_probability"`
	LeafProbability       float64 `yaml:"leaf_probability"`
	FlowerProbability     float64 `yaml:"flower_probability"`
	GroundCoverSpreadProbability float64 `yaml:"ground_cover_spread_probability"`
}

// OilConfig holds oil combustion tuning (spec.md §4.3.6).
type OilConfig struct {
	CombustProbability float64 `yaml:"combust_probability"`
}

// TransformConfig holds transformation-engine tuning (spec.md §4.4).
type TransformConfig struct {
	AmbientEtherProbability float64 `yaml:"ambient_ether_probability"`
}

// ParticlesConfig holds particle-subsystem tuning (spec.md §4.5).
type ParticlesConfig struct {
	EtherDriftJitter  float64 `yaml:"ether_drift_jitter"`
	EtherSpeedCap     float64 `yaml:"ether_speed_cap"`
	ThunderVXJitter   float64 `yaml:"thunder_vx_jitter"`
	ThunderGravity    float64 `yaml:"thunder_gravity"`
	ThunderIgniteOdd  float64 `yaml:"thunder_ignite_odd"`
	FireIgniteProbability float64 `yaml:"fire_ignite_probability"`
	FireSpreadProbability float64 `yaml:"fire_spread_probability"`
	ScatterGravity    float64 `yaml:"scatter_gravity"`
	MaxLive           int     `yaml:"max_live"`
}

// TelemetryConfig holds telemetry collection parameters.
type TelemetryConfig struct {
	StatsWindowTicks    int `yaml:"stats_window_ticks"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds notable-event detection thresholds (SPEC_FULL.md §10).
type BookmarksConfig struct {
	BigExplosion  BigExplosionConfig  `yaml:"big_explosion"`
	LongFireChain LongFireChainConfig `yaml:"long_fire_chain"`
	DeepEther     DeepEtherConfig     `yaml:"deep_ether"`
}

// BigExplosionConfig holds the thunder-explosion bookmark threshold.
type BigExplosionConfig struct {
	MinCellsCleared int `yaml:"min_cells_cleared"`
}

// LongFireChainConfig holds the fire-spread bookmark threshold.
type LongFireChainConfig struct {
	MinIgnitions int `yaml:"min_ignitions"`
}

// DeepEtherConfig holds the ether-deepening bookmark threshold.
type DeepEtherConfig struct {
	MinStorage int32 `yaml:"min_storage"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval float64 // seconds per tick, 1/Sim.TargetTPS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Sim.TargetTPS > 0 {
		c.Derived.TickInterval = 1.0 / float64(c.Sim.TargetTPS)
	}
}

// WriteYAML serializes the config to path, for recording the exact
// configuration a run used alongside its telemetry output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config yaml: %w", err)
	}
	return nil
}
