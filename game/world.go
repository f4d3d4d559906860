// Package game runs the creature simulation: terrain, population, and the
// tick state machine that drives them.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

// ErrNoSelection is returned by commands that need a selected, living creature.
var ErrNoSelection = errors.New("game: no creature selected")

// State is the world's run state.
type State uint8

const (
	StateRunning State = iota
	StatePaused
	StateExtinct // terminal until a reseed or a new creature arrives
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateExtinct:
		return "extinct"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Options configures a World beyond the simulation config.
type Options struct {
	Seed    int64
	Seeding Seeding

	RunID       string
	OutputDir   string // CSV and hall of fame output, "" disables
	SnapshotDir string // snapshots on bookmarks, "" disables
	LogStats    bool

	// OnStats is called from DrainOutput with every flushed telemetry window.
	OnStats func(telemetry.WindowStats)
}

// World owns the terrain and the creature population.
type World struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	ecs *ecs.World

	creatureMap *ecs.Map5[
		components.Position,
		components.Motion,
		components.Body,
		components.Organism,
		components.Brain,
	]
	creatureFilter *ecs.Filter5[
		components.Position,
		components.Motion,
		components.Body,
		components.Organism,
		components.Brain,
	]
	orgMap *ecs.Map1[components.Organism]

	terrain *systems.Terrain

	// State
	time        int64
	state       State
	nextID      uint32
	population  int
	totalBirths int
	selected    uint32 // 0 means nothing selected
	mutation    neural.Mutation

	// Telemetry
	runID       string
	collector   *telemetry.Collector
	perf        *telemetry.PerfCollector
	lifetimes   *telemetry.LifetimeTracker
	bookmarks   *telemetry.BookmarkDetector
	hallOfFame  *telemetry.HallOfFame
	output      *telemetry.OutputManager
	snapshotDir string
	logStats    bool
	onStats     []func(telemetry.WindowStats)
	pending     []windowOutput // flushed windows not yet drained
}

// New builds a world with fresh terrain and seeds its population.
func New(cfg *config.Config, opts Options) (*World, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	terrain := systems.NewTerrain(cfg.World.Width, cfg.World.Height, cfg.Terrain, rng)

	w, err := newWorld(cfg, opts, rng, terrain, 1)
	if err != nil {
		return nil, err
	}

	seeding := opts.Seeding
	if seeding.kind == seedUnset {
		seeding = SeedRandom(cfg.Population.Initial)
	}
	w.seed(seeding)
	if w.population == 0 {
		w.state = StateExtinct
		slog.Warn("world started empty", "mode", seeding.kind.String())
	}
	return w, nil
}

func newWorld(cfg *config.Config, opts Options, rng *rand.Rand, terrain *systems.Terrain, time int64) (*World, error) {
	world := ecs.NewWorld()

	w := &World{
		cfg:     cfg,
		rng:     rng,
		rngSeed: opts.Seed,
		ecs:     world,

		creatureMap: ecs.NewMap5[
			components.Position,
			components.Motion,
			components.Body,
			components.Organism,
			components.Brain,
		](world),
		creatureFilter: ecs.NewFilter5[
			components.Position,
			components.Motion,
			components.Body,
			components.Organism,
			components.Brain,
		](world),
		orgMap: ecs.NewMap1[components.Organism](world),

		terrain: terrain,
		time:    time,
		state:   StateRunning,
		nextID:  1,
		mutation: neural.Mutation{
			Range:    cfg.Mutation.Range,
			Exponent: cfg.Mutation.Exponent,
			Bound:    cfg.Mutation.ParamBound,
		},

		runID:       opts.RunID,
		collector:   telemetry.NewCollector(cfg.Telemetry.WindowTicks, time),
		perf:        telemetry.NewPerfCollector(120),
		lifetimes:   telemetry.NewLifetimeTracker(),
		bookmarks:   telemetry.NewBookmarkDetector(10),
		snapshotDir: opts.SnapshotDir,
		logStats:    opts.LogStats,
	}

	if opts.OnStats != nil {
		w.onStats = append(w.onStats, opts.OnStats)
	}
	if cfg.HallOfFame.Enabled {
		w.hallOfFame = telemetry.NewHallOfFame(cfg.HallOfFame, rng)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing run config: %w", err)
	}
	w.output = output

	return w, nil
}

// Close drains pending output, writes the hall of fame and closes run output.
func (w *World) Close() error {
	w.DrainOutput()
	if err := w.output.WriteHallOfFame(w.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return w.output.Close()
}

// AddStatsHook registers fn to run with every flushed telemetry window,
// after the hooks already registered. Hooks run from DrainOutput, never
// inside Timeslice.
func (w *World) AddStatsHook(fn func(telemetry.WindowStats)) {
	w.onStats = append(w.onStats, fn)
}

// Config returns the configuration the world was built with.
func (w *World) Config() *config.Config {
	return w.cfg
}

// RunID returns the identifier stamped on archive records.
func (w *World) RunID() string {
	return w.runID
}

// HallOfFame returns the hall, or nil when disabled.
func (w *World) HallOfFame() *telemetry.HallOfFame {
	return w.hallOfFame
}

// PerfStats returns timing over recent ticks.
func (w *World) PerfStats() telemetry.PerfStats {
	return w.perf.Stats()
}

// RecordFrame marks a rendered frame for FPS reporting.
func (w *World) RecordFrame() {
	w.perf.RecordFrame()
}

func (w *World) jitter(r float64) float64 {
	return (w.rng.Float64()*2 - 1) * r
}
