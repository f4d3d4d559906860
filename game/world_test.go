package game

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/storage"
	"github.com/pthm-cable/critters/telemetry"
)

func newTestWorld(t testing.TB, cfg *config.Config, n int) *World {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	w, err := New(cfg, Options{Seed: 42, Seeding: SeedRandom(n)})
	if err != nil {
		t.Fatal(err)
	}
	return w
}

// edit runs fn on creature id's components.
func edit(t testing.TB, w *World, id uint32, fn func(*components.Position, *components.Motion, *components.Body, *components.Organism, *components.Brain)) {
	t.Helper()
	query := w.creatureFilter.Query()
	for query.Next() {
		pos, mot, body, org, brain := query.Get()
		if org.ID == id {
			fn(pos, mot, body, org, brain)
			query.Close()
			return
		}
	}
	t.Fatalf("creature %d not found", id)
}

func TestNewWorld(t *testing.T) {
	w := newTestWorld(t, nil, 40)

	if w.Tick() != 1 || w.State() != StateRunning {
		t.Errorf("tick %d state %v", w.Tick(), w.State())
	}
	if w.Population() != 40 || w.TotalBirths() != 0 {
		t.Errorf("population %d births %d", w.Population(), w.TotalBirths())
	}

	cc := w.Config().Creature
	for i, c := range w.Creatures() {
		if c.ID != uint32(i+1) {
			t.Errorf("creature %d has id %d", i, c.ID)
		}
		if c.Size < cc.InitialSizeMin || c.Size >= cc.InitialSizeMax {
			t.Errorf("creature %d size %v", c.ID, c.Size)
		}
		if c.X < 0 || c.X >= 200 || c.Y < 0 || c.Y >= 100 {
			t.Errorf("creature %d at (%v,%v)", c.ID, c.X, c.Y)
		}
	}
}

func TestTimesliceDeterministic(t *testing.T) {
	run := func() (int, int, float64) {
		w := newTestWorld(t, nil, 40)
		for i := 0; i < 2000; i++ {
			w.Timeslice()
		}
		return w.Population(), w.TotalBirths(), w.TotalFood()
	}

	p1, b1, f1 := run()
	p2, b2, f2 := run()
	if p1 != p2 || b1 != b2 || f1 != f2 {
		t.Errorf("runs diverged: (%d, %d, %v) vs (%d, %d, %v)", p1, b1, f1, p2, b2, f2)
	}
}

var update = flag.Bool("update", false, "rewrite golden files in testdata")

// TestTimesliceGolden pins a seeded run. Any change to the order of random
// draws changes these numbers. A missing golden file is recorded on the
// first run; -update rewrites it after an intended change.
func TestTimesliceGolden(t *testing.T) {
	w := newTestWorld(t, nil, 40)
	for i := 0; i < 2000; i++ {
		w.Timeslice()
	}
	got := fmt.Sprintf("tick %d\nstate %s\npopulation %d\nbirths %d\nfood %.6f\n",
		w.Tick(), w.State(), w.Population(), w.TotalBirths(), w.TotalFood())

	path := filepath.Join("testdata", "timeslice_seed42.golden")
	want, err := os.ReadFile(path)
	if *update || errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(got), 0644); err != nil {
			t.Fatal(err)
		}
		t.Skipf("recorded %s", path)
	}
	if err != nil {
		t.Fatal(err)
	}
	if got != string(want) {
		t.Errorf("seed 42 after 2000 ticks:\n%s\nwant:\n%s", got, want)
	}
}

func TestTimesliceInvariants(t *testing.T) {
	w := newTestWorld(t, nil, 60)
	cc := w.Config().Creature

	for tick := 0; tick < 1500; tick++ {
		before := w.Tick()
		w.Timeslice()
		if w.State() == StateRunning && w.Tick() != before+1 {
			t.Fatalf("tick advanced from %d to %d", before, w.Tick())
		}

		if tick%100 != 0 {
			continue
		}
		for _, c := range w.Creatures() {
			if !(c.Size >= cc.DeathSize) {
				t.Fatalf("tick %d: creature %d present with size %v", w.Tick(), c.ID, c.Size)
			}
			if c.X < 0 || c.X >= 200 || c.Y < 0 || c.Y >= 100 {
				t.Fatalf("tick %d: creature %d outside terrain at (%v,%v)", w.Tick(), c.ID, c.X, c.Y)
			}
		}
		for i, f := range w.Terrain().FoodView() {
			if f < 0 || f > 100 {
				t.Fatalf("tick %d: tile %d food %v", w.Tick(), i, f)
			}
		}
	}
}

func TestSingleCreatureEndToEnd(t *testing.T) {
	w := newTestWorld(t, nil, 1)
	edit(t, w, 1, func(_ *components.Position, _ *components.Motion, body *components.Body, _ *components.Organism, _ *components.Brain) {
		body.Size = 1.0
	})

	peak := 0
	for i := 0; i < 1000 && w.State() != StateExtinct; i++ {
		before := w.Tick()
		w.Timeslice()
		if w.Tick() != before+1 {
			t.Fatalf("tick advanced from %d to %d", before, w.Tick())
		}
		peak = max(peak, w.Population())
	}

	// Each split needs 100 ticks and a 0.001 draw, so growth stays tiny.
	if peak > 20 {
		t.Errorf("population peaked at %d from one creature", peak)
	}
}

func TestReproduceSplitsParent(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.Chance = 1
	w := newTestWorld(t, cfg, 1)

	var parentBrain *neural.Brain
	edit(t, w, 1, func(_ *components.Position, _ *components.Motion, body *components.Body, org *components.Organism, brain *components.Brain) {
		body.Size = 0.8
		org.LastBirth = w.Tick() - 150
		parentBrain = brain.Net.Clone()
	})

	if born := w.reproductionPass(); born != 1 {
		t.Fatalf("born = %d, want 1", born)
	}
	if w.Population() != 2 || w.TotalBirths() != 1 {
		t.Fatalf("population %d births %d", w.Population(), w.TotalBirths())
	}

	all := w.Creatures()
	parent, child := all[0], all[1]
	if parent.Size+child.Size != 0.8 {
		t.Errorf("sizes %v + %v != 0.8", parent.Size, child.Size)
	}
	if parent.LastBirth != w.Tick() || parent.Spawns != 1 {
		t.Errorf("parent = %+v", parent)
	}
	if child.Birthday != w.Tick() || child.Generation != 1 {
		t.Errorf("child = %+v", child)
	}

	childBrain, _ := w.brainOf(child.ID)
	if !childBrain.SameTopology(parentBrain) {
		t.Fatal("child brain topology differs")
	}
	sense := []float64{10, 20, 30, 40, 0.4, 0.1, 0.2}
	a, _ := parentBrain.Forward(sense)
	b, _ := childBrain.Forward(sense)
	pw := parentBrain.Layers()[0].(*neural.Dense).Weight()
	cw := childBrain.Layers()[0].(*neural.Dense).Weight()
	if pw[0][0] == cw[0][0] && pw[1][1] == cw[1][1] && a[0] == b[0] && a[1] == b[1] && a[2] == b[2] {
		t.Error("child brain parameters identical to parent")
	}
}

func TestReproduceGates(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.Chance = 1
	w := newTestWorld(t, cfg, 1)

	tests := []struct {
		name  string
		size  float64
		since int64
		want  int
	}{
		{"too young", 0.8, 100, 0},
		{"too small", 0.75, 150, 0},
		{"ready", 0.8, 101, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit(t, w, 1, func(_ *components.Position, _ *components.Motion, body *components.Body, org *components.Organism, _ *components.Brain) {
				body.Size = tt.size
				org.LastBirth = w.Tick() - tt.since
			})
			if got := w.reproductionPass(); got != tt.want {
				t.Errorf("born = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewbornsDoNotReproduceSameTick(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.Chance = 1
	cfg.Reproduction.MinInterval = -1
	cfg.Reproduction.MinSize = 0
	w := newTestWorld(t, cfg, 3)

	if born := w.reproductionPass(); born != 3 {
		t.Errorf("born = %d, want one per starting creature", born)
	}
	if w.Population() != 6 {
		t.Errorf("population = %d, want 6", w.Population())
	}
}

func TestCullAndExtinction(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	// Zero size cannot grow back from food
	edit(t, w, 2, func(_ *components.Position, _ *components.Motion, body *components.Body, _ *components.Organism, _ *components.Brain) {
		body.Size = 0
	})
	if err := w.Select(2); err != nil {
		t.Fatal(err)
	}

	w.Timeslice()
	if w.Population() != 2 {
		t.Fatalf("population = %d, want 2", w.Population())
	}
	if _, ok := w.Creature(2); ok {
		t.Error("starving creature still present")
	}
	if _, ok := w.Selected(); ok {
		t.Error("selection survived the creature")
	}

	for _, id := range []uint32{1, 3} {
		edit(t, w, id, func(_ *components.Position, _ *components.Motion, body *components.Body, _ *components.Organism, _ *components.Brain) {
			body.Size = 0
		})
	}
	w.Timeslice()
	if w.State() != StateExtinct || w.Population() != 0 {
		t.Fatalf("state %v population %d", w.State(), w.Population())
	}

	tick := w.Tick()
	w.Timeslice()
	w.Resume()
	w.Timeslice()
	if w.Tick() != tick {
		t.Errorf("extinct world advanced to %d", w.Tick())
	}
}

func TestPauseResume(t *testing.T) {
	w := newTestWorld(t, nil, 5)

	w.Pause()
	w.Timeslice()
	if w.Tick() != 1 || w.State() != StatePaused {
		t.Errorf("paused world ticked: tick %d state %v", w.Tick(), w.State())
	}

	w.TogglePause()
	w.Timeslice()
	if w.Tick() != 2 {
		t.Errorf("resumed world at tick %d", w.Tick())
	}
}

func TestDimensionMismatchSkipsCreature(t *testing.T) {
	cfg := config.Default()
	cfg.Reproduction.Chance = 0
	w := newTestWorld(t, cfg, 2)

	bad, err := neural.NewBrain(neural.NewRandomDense(rand.New(rand.NewSource(1)), 4, 3, neural.Tanh, 3))
	if err != nil {
		t.Fatal(err)
	}
	var before components.Position
	var size float64
	edit(t, w, 1, func(pos *components.Position, _ *components.Motion, body *components.Body, _ *components.Organism, brain *components.Brain) {
		brain.Net = bad
		before = *pos
		size = body.Size
	})

	w.Timeslice()

	c, ok := w.Creature(1)
	if !ok {
		t.Fatal("mismatched creature removed")
	}
	if c.X != before.X || c.Y != before.Y || c.Size != size {
		t.Errorf("creature changed: %+v", c)
	}
	if w.Tick() != 2 {
		t.Errorf("tick = %d", w.Tick())
	}
}

func TestClosestToWrapsAcrossEdges(t *testing.T) {
	w := newTestWorld(t, nil, 2)
	place := func(id uint32, x, y float64) {
		edit(t, w, id, func(pos *components.Position, _ *components.Motion, _ *components.Body, _ *components.Organism, _ *components.Brain) {
			pos.X, pos.Y = x, y
		})
	}
	place(1, 199.5, 50)
	place(2, 5, 50)

	c, ok := w.ClosestTo(0.5, 50)
	if !ok || c.ID != 1 {
		t.Errorf("closest = %+v, want creature 1 across the edge", c)
	}
	c, _ = w.ClosestTo(4, 50)
	if c.ID != 2 {
		t.Errorf("closest = %d, want 2", c.ID)
	}
}

func TestOldestAge(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	edit(t, w, 3, func(_ *components.Position, _ *components.Motion, _ *components.Body, org *components.Organism, _ *components.Brain) {
		org.Birthday = -99
	})

	oldest, ok := w.Oldest()
	if !ok || oldest.ID != 3 {
		t.Errorf("oldest = %+v", oldest)
	}
	if w.OldestAge() != 100 {
		t.Errorf("oldest age = %d, want 100", w.OldestAge())
	}
}

func TestSaveSelectedBrain(t *testing.T) {
	w := newTestWorld(t, nil, 3)
	path := filepath.Join(t.TempDir(), "best.yaml")

	if err := w.SaveSelectedBrain(path); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("got %v, want ErrNoSelection", err)
	}
	if err := w.Select(99); !errors.Is(err, ErrNoSelection) {
		t.Errorf("selecting a missing creature: %v", err)
	}

	if err := w.Select(2); err != nil {
		t.Fatal(err)
	}
	if err := w.SaveSelectedBrain(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := neural.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	live, _ := w.brainOf(2)
	sense := []float64{1, 2, 3, 4, 1, 0, 0.2}
	a, _ := live.Forward(sense)
	b, _ := loaded.Forward(sense)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("output[%d] = %v, want %v", i, b[i], a[i])
		}
	}
}

func TestDumpBrainDefaultsToFirstCreature(t *testing.T) {
	w := newTestWorld(t, nil, 2)
	path, err := w.DumpBrain(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := neural.LoadFile(path); err != nil {
		t.Errorf("dumped brain unreadable: %v", err)
	}
}

func TestAddFromBrainFile(t *testing.T) {
	w := newTestWorld(t, nil, 2)

	if _, err := w.AddFromBrainFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
	if w.Population() != 2 {
		t.Fatalf("failed add changed population to %d", w.Population())
	}

	path := filepath.Join(t.TempDir(), "brain.json")
	if err := neural.SaveFile(path, neural.NewDefault(rand.New(rand.NewSource(3)), 3)); err != nil {
		t.Fatal(err)
	}
	id, err := w.AddFromBrainFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if id != 3 || w.Population() != 3 {
		t.Errorf("id %d population %d", id, w.Population())
	}
}

func TestSeedFromFile(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()

	w, err := New(cfg, Options{Seed: 1, Seeding: SeedFromFile(filepath.Join(dir, "nope.json"), 5)})
	if err != nil {
		t.Fatal(err)
	}
	if w.Population() != 0 || w.State() != StateExtinct {
		t.Errorf("population %d state %v, want empty and extinct", w.Population(), w.State())
	}

	path := filepath.Join(dir, "seed.json")
	if err := neural.SaveFile(path, neural.NewDefault(rand.New(rand.NewSource(3)), 3)); err != nil {
		t.Fatal(err)
	}
	w, err = New(cfg, Options{Seed: 1, Seeding: SeedFromFile(path, 5)})
	if err != nil {
		t.Fatal(err)
	}
	if w.Population() != 5 || w.State() != StateRunning {
		t.Errorf("population %d state %v", w.Population(), w.State())
	}
}

func TestReseedUsesHallOfFame(t *testing.T) {
	cfg := config.Default()
	cfg.Population.Initial = 30
	cfg.HallOfFame.ReseedCount = 10
	w := newTestWorld(t, cfg, 5)

	w.HallOfFame().Consider(telemetry.HallEntry{
		Brain:      neural.NewDefault(rand.New(rand.NewSource(9)), 3),
		CreatureID: 77,
		Eaten:      50,
	})
	edit(t, w, 1, func(_ *components.Position, _ *components.Motion, body *components.Body, _ *components.Organism, _ *components.Brain) {
		body.Size = 0
	})
	for i := 0; i < 3; i++ {
		w.Timeslice()
	}

	tick := w.Tick()
	w.Reseed()
	if w.Population() != 30 || w.State() != StateRunning {
		t.Errorf("population %d state %v after reseed", w.Population(), w.State())
	}
	if w.Tick() != tick {
		t.Errorf("reseed moved time from %d to %d", tick, w.Tick())
	}
	for _, c := range w.Creatures() {
		if c.ID <= 5 {
			t.Errorf("creature %d from the old population survived", c.ID)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	w := newTestWorld(t, nil, 20)
	for i := 0; i < 150; i++ {
		w.Timeslice()
	}
	if w.Population() == 0 {
		t.Fatal("population died out before the snapshot")
	}
	first := w.Creatures()[0].ID
	w.lifetimes.Get(first).Generation = 3

	path, err := w.SaveSnapshot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Restore(config.Default(), snap, Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}

	if r.Tick() != w.Tick() || r.Population() != w.Population() || r.TotalBirths() != w.TotalBirths() {
		t.Errorf("restored tick %d pop %d births %d, want %d %d %d",
			r.Tick(), r.Population(), r.TotalBirths(), w.Tick(), w.Population(), w.TotalBirths())
	}
	if math.Abs(r.TotalFood()-w.TotalFood()) > 1e-6 {
		t.Errorf("food %v, want %v", r.TotalFood(), w.TotalFood())
	}
	if r.Terrain().SeasonBand() != w.Terrain().SeasonBand() {
		t.Errorf("season band %d, want %d", r.Terrain().SeasonBand(), w.Terrain().SeasonBand())
	}
	if c, _ := r.Creature(first); c.Generation != 3 {
		t.Errorf("creature %d generation = %d, want 3", first, c.Generation)
	}
	orig := w.Creatures()
	for i, c := range r.Creatures() {
		if c.ID != orig[i].ID || c.X != orig[i].X || c.Size != orig[i].Size || c.Generation != orig[i].Generation {
			t.Errorf("creature %d = %+v, want %+v", i, c, orig[i])
		}
	}

	// New ids continue after the restored ones
	id, err := r.AddFromBrainFile(writeBrain(t))
	if err != nil {
		t.Fatal(err)
	}
	if id < snap.NextID {
		t.Errorf("new id %d reuses restored range (next %d)", id, snap.NextID)
	}
}

func writeBrain(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brain.json")
	if err := neural.SaveFile(path, neural.NewDefault(rand.New(rand.NewSource(5)), 3)); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	w, err := New(cfg, Options{Seed: 42, Seeding: SeedRandom(5), RunID: "run-x"})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 4; i++ {
		w.HallOfFame().Consider(telemetry.HallEntry{Brain: neural.NewDefault(rng, 3), CreatureID: uint32(100 + i), Eaten: float64(10 + i)})
	}

	store := storage.NewMemoryStore()
	n, err := w.ArchiveHallOfFame(ctx, store)
	if err != nil || n != 4 {
		t.Fatalf("archived %d, err %v", n, err)
	}
	// Archiving again updates the same records
	if _, err := w.ArchiveHallOfFame(ctx, store); err != nil {
		t.Fatal(err)
	}

	brains, err := LoadArchivedBrains(ctx, store, 0)
	if err != nil || len(brains) != 4 {
		t.Fatalf("loaded %d brains, err %v", len(brains), err)
	}

	seeded, err := New(cfg, Options{Seed: 1, Seeding: SeedFromBrains(brains, 10)})
	if err != nil {
		t.Fatal(err)
	}
	if seeded.Population() != 10 {
		t.Errorf("population = %d, want 10", seeded.Population())
	}
}

func TestOnStatsCalledPerWindow(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.WindowTicks = 50
	var windows []telemetry.WindowStats
	w, err := New(cfg, Options{Seed: 42, Seeding: SeedRandom(20), OnStats: func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}})
	if err != nil {
		t.Fatal(err)
	}
	var hooked []int64
	w.AddStatsHook(func(s telemetry.WindowStats) {
		hooked = append(hooked, s.WindowEndTick)
	})

	for i := 0; i < 200; i++ {
		w.Timeslice()
	}
	// Windows wait in the queue until drained
	if len(windows) != 0 || len(hooked) != 0 {
		t.Fatalf("hooks ran during Timeslice: %d windows, %d hooked", len(windows), len(hooked))
	}
	if n := w.DrainOutput(); n != 4 {
		t.Fatalf("drained %d windows, want 4", n)
	}
	if n := w.DrainOutput(); n != 0 {
		t.Errorf("second drain returned %d windows", n)
	}
	if len(windows) != 4 {
		t.Fatalf("windows = %d, want 4", len(windows))
	}
	if len(hooked) != 4 || hooked[3] != windows[3].WindowEndTick {
		t.Errorf("added hook saw %v", hooked)
	}
	if windows[0].WindowEndTick != 51 || windows[0].Population == 0 {
		t.Errorf("first window = %+v", windows[0])
	}
}

func TestArchiveHookRunsBetweenTicks(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Telemetry.WindowTicks = 5

	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "archive.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	w, err := New(cfg, Options{Seed: 42, Seeding: SeedRandom(20), RunID: "run-hook"})
	if err != nil {
		t.Fatal(err)
	}
	w.HallOfFame().Consider(telemetry.HallEntry{
		Brain:      neural.NewDefault(rand.New(rand.NewSource(3)), 3),
		CreatureID: 500,
		Eaten:      40,
	})

	ticking := false
	calls, inside := 0, 0
	w.AddStatsHook(func(telemetry.WindowStats) {
		calls++
		if ticking {
			inside++
		}
		if _, err := w.ArchiveHallOfFame(ctx, store); err != nil {
			t.Errorf("archive: %v", err)
		}
	})

	for i := 0; i < 20; i++ {
		ticking = true
		w.Timeslice()
		ticking = false
		w.DrainOutput()
	}
	if inside != 0 {
		t.Errorf("archive hook ran inside Timeslice %d times", inside)
	}
	if calls != 4 {
		t.Errorf("archive hook ran %d times, want 4", calls)
	}
	if recs, err := store.ListBrains(ctx, 0); err != nil || len(recs) == 0 {
		t.Errorf("archive holds %d records, err %v", len(recs), err)
	}
}

func TestBookmarkSnapshotTakenAtFlush(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.WindowTicks = 10
	dir := t.TempDir()
	w, err := New(cfg, Options{Seed: 42, Seeding: SeedRandom(20), SnapshotDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		w.Timeslice()
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("%d snapshots written before drain", len(entries))
	}

	var queued []int64
	for _, out := range w.pending {
		for _, snap := range out.snapshots {
			if snap.Tick != out.stats.WindowEndTick {
				t.Errorf("snapshot tick %d, window ended at %d", snap.Tick, out.stats.WindowEndTick)
			}
			queued = append(queued, snap.Tick)
		}
	}
	w.DrainOutput()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(queued) {
		t.Errorf("wrote %d snapshots, queued %d", len(entries), len(queued))
	}
}

func TestWorldWritesOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.WindowTicks = 20
	dir := t.TempDir()
	w, err := New(cfg, Options{Seed: 42, Seeding: SeedRandom(10), OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		w.Timeslice()
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml", "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	// Close drains the windows nobody drained
	if info, err := os.Stat(filepath.Join(dir, "telemetry.csv")); err != nil || info.Size() == 0 {
		t.Errorf("telemetry.csv empty after close, err %v", err)
	}
}

func BenchmarkTimeslice(b *testing.B) {
	w := newTestWorld(b, nil, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Timeslice()
		if w.State() == StateExtinct {
			w.Reseed()
		}
	}
}
