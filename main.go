package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/game"
	"github.com/pthm-cable/critters/server"
	"github.com/pthm-cable/critters/storage"
	"github.com/pthm-cable/critters/telemetry"
	"github.com/pthm-cable/critters/ui"
)

// archiveLimit bounds how many archived brains seed a run.
const archiveLimit = 50

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	serve := flag.Bool("serve", false, "Run without graphics and stream frames to websocket observers")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	brainDir := flag.String("brain-dir", ".", "Directory for dumped brains")
	restore := flag.String("restore", "", "Snapshot file to resume from")
	seedMode := flag.String("seed-mode", "", "Seeding: random, file or archive (empty = use config)")
	brainFile := flag.String("brain-file", "", "Brain file for seed-mode file (empty = use config)")
	archiveBackend := flag.String("archive", "", "Archive backend: memory or sqlite (empty = use config)")
	archivePath := flag.String("archive-path", "", "SQLite archive path (empty = use config)")
	addr := flag.String("addr", "", "Observer listen address (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	override(&cfg.Population.SeedMode, *seedMode)
	override(&cfg.Population.BrainFile, *brainFile)
	override(&cfg.Archive.Backend, *archiveBackend)
	override(&cfg.Archive.Path, *archivePath)
	override(&cfg.Server.Addr, *addr)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(cfg.Archive.Backend, cfg.Archive.Path)
	if err != nil {
		slog.Error("failed to open archive", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		slog.Error("failed to init archive", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Seed:        rngSeed,
		RunID:       storage.NewRunID(),
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
		LogStats:    *logStats,
	}

	w, err := buildWorld(ctx, cfg, opts, *restore, store)
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Error("failed to close world", "error", err)
		}
	}()

	// Archive the hall of fame every window and once more on the way out.
	// Stats hooks run from DrainOutput between ticks.
	w.AddStatsHook(func(telemetry.WindowStats) { archive(ctx, w, store) })
	defer archive(context.Background(), w, store)

	slog.Info("starting simulation",
		"run_id", w.RunID(),
		"seed", rngSeed,
		"seed_mode", cfg.Population.SeedMode,
		"population", w.Population(),
		"max_ticks", *maxTicks,
	)

	switch {
	case *serve:
		runServe(ctx, w, cfg, *maxTicks)
	case *headless:
		runHeadless(ctx, w, *maxTicks)
	default:
		// Manual snapshots from the viewer go to the working directory by default.
		runWindowed(w, cfg, *maxTicks, ui.Options{BrainDir: *brainDir, SnapshotDir: cmp.Or(*snapshotDir, ".")})
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// buildWorld restores from a snapshot or seeds a new world per the
// configured seed mode.
func buildWorld(ctx context.Context, cfg *config.Config, opts game.Options, restore string, store storage.Store) (*game.World, error) {
	if restore != "" {
		snap, err := telemetry.LoadSnapshot(restore)
		if err != nil {
			return nil, err
		}
		slog.Info("restoring snapshot", "path", restore, "tick", snap.Tick, "creatures", len(snap.Creatures))
		return game.Restore(cfg, snap, opts)
	}

	n := cfg.Population.Initial
	switch cfg.Population.SeedMode {
	case "file":
		if cfg.Population.BrainFile == "" {
			return nil, fmt.Errorf("seed mode file needs a brain file")
		}
		opts.Seeding = game.SeedFromFile(cfg.Population.BrainFile, n)
	case "archive":
		brains, err := game.LoadArchivedBrains(ctx, store, archiveLimit)
		if err != nil {
			return nil, err
		}
		if len(brains) == 0 {
			slog.Warn("archive empty, seeding randomly")
			opts.Seeding = game.SeedRandom(n)
		} else {
			opts.Seeding = game.SeedFromBrains(brains, n)
		}
	default:
		opts.Seeding = game.SeedRandom(n)
	}
	return game.New(cfg, opts)
}

func archive(ctx context.Context, w *game.World, store storage.Store) {
	n, err := w.ArchiveHallOfFame(ctx, store)
	if err != nil {
		slog.Error("failed to archive hall of fame", "saved", n, "error", err)
	}
}

func done(w *game.World, maxTicks int64) bool {
	if maxTicks > 0 && w.Tick() >= maxTicks {
		slog.Info("max ticks reached", "tick", w.Tick())
		return true
	}
	return false
}

// runHeadless ticks as fast as possible until extinction, the tick cap,
// or a signal.
func runHeadless(ctx context.Context, w *game.World, maxTicks int64) {
	for ctx.Err() == nil {
		w.Timeslice()
		w.DrainOutput()
		if !w.Running() {
			slog.Info("simulation stopped", "tick", w.Tick(), "state", w.State().String())
			return
		}
		if done(w, maxTicks) {
			return
		}
	}
}

// runServe ticks at the configured rate and broadcasts a frame to
// observers every BroadcastEvery ticks. The world is only touched here.
func runServe(ctx context.Context, w *game.World, cfg *config.Config, maxTicks int64) {
	hub := server.NewHub(server.Hello{
		RunID:  w.RunID(),
		Width:  cfg.World.Width,
		Height: cfg.World.Height,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe(ctx, cfg.Server.Addr, hub) }()

	rate := max(cfg.Server.TickRate, 1)
	every := int64(max(cfg.Server.BroadcastEvery, 1))
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-errc
			return
		case err := <-errc:
			slog.Error("observer server failed", "error", err)
			return
		case <-ticker.C:
		}

		w.Timeslice()
		w.DrainOutput()
		if w.Tick()%every == 0 || !w.Running() {
			hub.Broadcast(server.NewFrame(w))
		}
		if !w.Running() {
			slog.Info("simulation stopped", "tick", w.Tick(), "state", w.State().String())
			cancel()
			<-errc
			return
		}
		if done(w, maxTicks) {
			cancel()
			<-errc
			return
		}
	}
}

// runWindowed opens the viewer. Extinct or paused worlds keep the window
// open so the user can reseed.
func runWindowed(w *game.World, cfg *config.Config, maxTicks int64, opts ui.Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(cfg.Render.FPS)

	app := ui.NewApp(w, opts)
	defer app.Unload()

	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
		if done(w, maxTicks) {
			break
		}
	}
}
