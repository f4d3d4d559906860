// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Terrain      TerrainConfig      `yaml:"terrain"`
	Creature     CreatureConfig     `yaml:"creature"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Population   PopulationConfig   `yaml:"population"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	HallOfFame   HallOfFameConfig   `yaml:"hall_of_fame"`
	Archive      ArchiveConfig      `yaml:"archive"`
	Server       ServerConfig       `yaml:"server"`
	Render       RenderConfig       `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	SideWidth int    `yaml:"side_width"` // HUD column on the right
	Border    int    `yaml:"border"`
	Title     string `yaml:"title"`
}

// WorldConfig holds the terrain grid dimensions in tiles.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TerrainConfig holds food regrowth and feeding parameters.
type TerrainConfig struct {
	YearLength     int     `yaml:"year_length"`     // Ticks per full season cycle
	GrowthInterval int     `yaml:"growth_interval"` // Regrow every N ticks
	GrowthCap      float64 `yaml:"growth_cap"`      // Upper bound of the uniform growth draw
	GrowthExponent float64 `yaml:"growth_exponent"` // Growth scales with type^exponent
	BandPeak       float64 `yaml:"band_peak"`       // Band strength that marks the season row
	MaxFood        float64 `yaml:"max_food"`        // Per-tile food ceiling
	FeedFactor     float64 `yaml:"feed_factor"`     // Bite = sqrt(food) * factor * jitter
	FeedJitterMin  float64 `yaml:"feed_jitter_min"`
	FeedJitterMax  float64 `yaml:"feed_jitter_max"`
	MinType        int     `yaml:"min_type"`
	MaxType        int     `yaml:"max_type"`
	EdgeTypes      int     `yaml:"edge_types"`   // Edge neighbours draw from [0, edge_types)
	NudgeChance    float64 `yaml:"nudge_chance"` // Probability of stepping type down (and again up)
	WrapEpsilon    float64 `yaml:"wrap_epsilon"` // Negative coordinates wrap to size - epsilon
}

// CreatureConfig holds creature behaviour and metabolism parameters.
type CreatureConfig struct {
	Upkeep           float64 `yaml:"upkeep"`            // Fraction of size lost per tick
	Overhead         float64 `yaml:"overhead"`          // Fixed size cost per tick
	GrowthEfficiency float64 `yaml:"growth_efficiency"` // Multiplier on (1/size)^2 * food
	TurnStep         float64 `yaml:"turn_step"`         // Radians per turn decision
	FastSpeed        float64 `yaml:"fast_speed"`
	IdleSpeed        float64 `yaml:"idle_speed"`
	MaxSpeed         float64 `yaml:"max_speed"`
	GateThreshold    float64 `yaml:"gate_threshold"` // Output above this fires the action
	DeathSize        float64 `yaml:"death_size"`
	SenseReach       float64 `yaml:"sense_reach"`  // Distance of the ahead probes
	SenseSpread      float64 `yaml:"sense_spread"` // Angle of the side probes
	InitialSizeMin   float64 `yaml:"initial_size_min"`
	InitialSizeMax   float64 `yaml:"initial_size_max"`
	InitialSpeed     float64 `yaml:"initial_speed"`
}

// ReproductionConfig holds asexual reproduction parameters.
type ReproductionConfig struct {
	MinInterval   int     `yaml:"min_interval"` // Ticks since last birth
	MinSize       float64 `yaml:"min_size"`
	Chance        float64 `yaml:"chance"` // Per-tick Bernoulli probability
	Offset        float64 `yaml:"offset"` // Child placed at parent + (offset, offset)
	SpeedJitter   float64 `yaml:"speed_jitter"`
	HeadingJitter float64 `yaml:"heading_jitter"`
	ColourJitter  float64 `yaml:"colour_jitter"`
}

// MutationConfig holds brain mutation parameters.
type MutationConfig struct {
	Range      float64 `yaml:"range"`       // Perturbation drawn from [-range, range]
	Exponent   float64 `yaml:"exponent"`    // Sign-preserving power applied to the draw
	ParamBound float64 `yaml:"param_bound"` // Weights and biases clamp to [-bound, bound]
}

// PopulationConfig holds initial seeding parameters.
type PopulationConfig struct {
	Initial     int    `yaml:"initial"`
	SeedMode    string `yaml:"seed_mode"` // random, file, archive
	BrainFile   string `yaml:"brain_file"`
	ReportEvery int    `yaml:"report_every"` // Ticks between oldest-creature log lines
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
}

// HallOfFameConfig holds hall of fame parameters.
type HallOfFameConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Size        int     `yaml:"size"`
	MinEaten    float64 `yaml:"min_eaten"`    // Lifetime food needed to qualify
	SpawnWeight float64 `yaml:"spawn_weight"` // Fitness = eaten + spawns * weight
	ReseedCount int     `yaml:"reseed_count"` // Max creatures drawn from the hall on reseed
}

// ArchiveConfig holds brain archive settings.
type ArchiveConfig struct {
	Backend string `yaml:"backend"` // memory or sqlite
	Path    string `yaml:"path"`
}

// ServerConfig holds the observer endpoint settings.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	BroadcastEvery int    `yaml:"broadcast_every"` // Ticks between snapshots
	TickRate       int    `yaml:"tick_rate"`       // Ticks per second in serve mode
}

// RenderConfig holds viewer settings.
type RenderConfig struct {
	FPS           int32   `yaml:"fps"`
	TicksPerFrame int     `yaml:"ticks_per_frame"`
	Zoom          float32 `yaml:"zoom"` // Pixels per tile
	MinZoom       float32 `yaml:"min_zoom"`
	MaxZoom       float32 `yaml:"max_zoom"`
	PanStep       float32 `yaml:"pan_step"` // Tiles per key press
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW   float64 // World.Width as float64
	WorldH   float64 // World.Height as float64
	NumTiles int
	ViewW    int32 // Screen area left for the terrain view
	ViewH    int32
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults. Panics if they do not parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Terrain.MinType < 0 || c.Terrain.MaxType > math.MaxUint8 {
		return fmt.Errorf("terrain types must lie in [0, %d], got [%d, %d]", math.MaxUint8, c.Terrain.MinType, c.Terrain.MaxType)
	}
	if c.Terrain.MinType > c.Terrain.MaxType {
		return fmt.Errorf("terrain min_type %d exceeds max_type %d", c.Terrain.MinType, c.Terrain.MaxType)
	}
	if c.Terrain.EdgeTypes <= 0 {
		return fmt.Errorf("terrain edge_types must be positive, got %d", c.Terrain.EdgeTypes)
	}
	if c.Terrain.YearLength <= 0 || c.Terrain.GrowthInterval <= 0 {
		return fmt.Errorf("terrain year_length and growth_interval must be positive")
	}
	switch c.Population.SeedMode {
	case "random", "file", "archive":
	default:
		return fmt.Errorf("unknown population seed_mode %q", c.Population.SeedMode)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW = float64(c.World.Width)
	c.Derived.WorldH = float64(c.World.Height)
	c.Derived.NumTiles = c.World.Width * c.World.Height
	c.Derived.ViewW = int32(c.Screen.Width - c.Screen.SideWidth - 2*c.Screen.Border)
	c.Derived.ViewH = int32(c.Screen.Height - 2*c.Screen.Border)
	if c.Derived.ViewW < 1 {
		c.Derived.ViewW = 1
	}
	if c.Derived.ViewH < 1 {
		c.Derived.ViewH = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
