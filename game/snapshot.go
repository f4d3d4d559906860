package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

// Snapshot captures the world for saving. Brains are copied.
func (w *World) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	types := w.terrain.TypeView()
	snap := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RunID:       w.runID,
		RNGSeed:     w.rngSeed,
		Tick:        w.time,
		NextID:      w.nextID,
		TotalBirths: w.totalBirths,
		Terrain: telemetry.TerrainState{
			Width:      w.terrain.W,
			Height:     w.terrain.H,
			Types:      make([]int, len(types)),
			Food:       append([]float64(nil), w.terrain.FoodView()...),
			SeasonBand: w.terrain.SeasonBand(),
		},
		Bookmark: bookmark,
	}
	for i, t := range types {
		snap.Terrain.Types[i] = int(t)
	}

	query := w.creatureFilter.Query()
	for query.Next() {
		pos, mot, body, org, brain := query.Get()
		generation := 0
		if ls := w.lifetimes.Get(org.ID); ls != nil {
			generation = ls.Generation
		}
		snap.Creatures = append(snap.Creatures, telemetry.CreatureState{
			ID:        org.ID,
			X:         pos.X,
			Y:         pos.Y,
			Heading:   mot.Heading,
			Speed:     mot.Speed,
			Size:      body.Size,
			Colour:    body.Colour,
			Birthday:  org.Birthday,
			LastBirth: org.LastBirth,
			Spawns:    org.Spawns,
			Eaten:     org.Eaten,
			Brain:     brain.Net.Clone(),

			Generation: generation,
		})
	}
	return snap
}

// SaveSnapshot writes the world to dir and returns the file path.
func (w *World) SaveSnapshot(dir string) (string, error) {
	return telemetry.SaveSnapshot(w.Snapshot(nil), dir)
}

// Restore rebuilds a world from a snapshot. The random source restarts from
// opts.Seed, so a restored run is reproducible but does not continue the
// original random sequence. Creatures without a brain are skipped.
func Restore(cfg *config.Config, snap *telemetry.Snapshot, opts Options) (*World, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	terrain, err := systems.RestoreTerrain(snap.Terrain.Width, snap.Terrain.Height,
		snap.Terrain.Types, snap.Terrain.Food, snap.Terrain.SeasonBand, snap.Tick, cfg.Terrain, rng)
	if err != nil {
		return nil, fmt.Errorf("restoring terrain: %w", err)
	}

	if opts.RunID == "" {
		opts.RunID = snap.RunID
	}
	w, err := newWorld(cfg, opts, rng, terrain, snap.Tick)
	if err != nil {
		return nil, err
	}
	w.totalBirths = snap.TotalBirths

	for _, c := range snap.Creatures {
		if c.Brain == nil {
			slog.Warn("skipping creature without brain in snapshot", "id", c.ID)
			continue
		}
		pos := components.Position{X: c.X, Y: c.Y}
		mot := components.Motion{Heading: c.Heading, Speed: c.Speed}
		body := components.Body{Size: c.Size, Colour: c.Colour}
		org := components.Organism{
			ID:        c.ID,
			Birthday:  c.Birthday,
			LastBirth: c.LastBirth,
			Spawns:    c.Spawns,
			Eaten:     c.Eaten,
		}
		br := components.Brain{Net: c.Brain}
		w.creatureMap.NewEntity(&pos, &mot, &body, &org, &br)
		w.lifetimes.RegisterRestored(c.ID, c.Birthday, c.Size, c.Generation)
		w.population++
		if c.ID >= w.nextID {
			w.nextID = c.ID + 1
		}
	}
	if snap.NextID > w.nextID {
		w.nextID = snap.NextID
	}
	if w.population == 0 {
		w.state = StateExtinct
	}
	return w, nil
}
