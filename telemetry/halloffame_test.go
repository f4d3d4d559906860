package telemetry

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/neural"
)

func testHallConfig(size int) config.HallOfFameConfig {
	return config.HallOfFameConfig{Enabled: true, Size: size, MinEaten: 5, SpawnWeight: 10}
}

func TestHallOfFame_ConsiderCriteria(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hof := NewHallOfFame(testHallConfig(5), rng)
	brain := neural.NewDefault(rng, 3)

	tests := []struct {
		name  string
		entry HallEntry
		want  bool
	}{
		{"no brain", HallEntry{Eaten: 100}, false},
		{"starved early", HallEntry{Brain: brain, Eaten: 1}, false},
		{"ate enough", HallEntry{Brain: brain, Eaten: 6}, true},
		{"spawned", HallEntry{Brain: brain, Eaten: 0, Spawns: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hof.Consider(tt.entry); got != tt.want {
				t.Errorf("Consider = %v, want %v", got, tt.want)
			}
		})
	}
	if hof.Size() != 2 {
		t.Errorf("size = %d, want 2", hof.Size())
	}
}

func TestHallOfFame_KeepsFittest(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hof := NewHallOfFame(testHallConfig(3), rng)
	brain := neural.NewDefault(rng, 3)

	for i, eaten := range []float64{10, 50, 20, 40, 30} {
		hof.Consider(HallEntry{Brain: brain, CreatureID: uint32(i + 1), Eaten: eaten})
	}
	// Worse than everything in a full hall
	if hof.Consider(HallEntry{Brain: brain, CreatureID: 99, Eaten: 6}) {
		t.Error("weak entry admitted to a full hall")
	}

	entries := hof.Entries()
	want := []float64{50, 40, 30}
	if len(entries) != len(want) {
		t.Fatalf("len = %d, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].Fitness != w {
			t.Errorf("entry %d fitness = %v, want %v", i, entries[i].Fitness, w)
		}
	}
	if hof.TopFitness() != 50 {
		t.Errorf("top = %v", hof.TopFitness())
	}
}

func TestHallOfFame_FitnessWeightsSpawns(t *testing.T) {
	hof := NewHallOfFame(testHallConfig(3), rand.New(rand.NewSource(1)))
	if got := hof.Fitness(7, 2); got != 27 {
		t.Errorf("Fitness(7, 2) = %v, want 27", got)
	}
}

func TestHallOfFame_SampleReturnsCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hof := NewHallOfFame(testHallConfig(3), rng)
	if hof.Sample() != nil {
		t.Fatal("empty hall returned a brain")
	}

	brain := neural.NewDefault(rng, 3)
	hof.Consider(HallEntry{Brain: brain, Eaten: 10})

	sampled := hof.Sample()
	if sampled == nil {
		t.Fatal("sample returned nil")
	}
	if sampled == brain {
		t.Error("sample returned the stored brain, not a copy")
	}
	if !sampled.SameTopology(brain) {
		t.Error("sampled brain has a different topology")
	}
}

func TestHallOfFame_FileRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	hof := NewHallOfFame(testHallConfig(4), rng)
	for i := 0; i < 3; i++ {
		hof.Consider(HallEntry{
			Brain:      neural.NewDefault(rng, 3),
			CreatureID: uint32(i + 1),
			Eaten:      float64(10 * (i + 1)),
			Spawns:     i,
			Generation: i,
		})
	}

	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()
	if err := om.WriteHallOfFame(hof); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadHallOfFameFromFile(filepath.Join(om.Dir(), "hall_of_fame.json"), testHallConfig(4), rng)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != hof.Size() {
		t.Fatalf("loaded %d entries, want %d", loaded.Size(), hof.Size())
	}
	for i, e := range loaded.Entries() {
		orig := hof.Entries()[i]
		if e.CreatureID != orig.CreatureID || e.Fitness != orig.Fitness || e.Generation != orig.Generation {
			t.Errorf("entry %d = %+v, want %+v", i, e, orig)
		}
		if !e.Brain.SameTopology(orig.Brain) {
			t.Errorf("entry %d brain topology changed", i)
		}
	}
}
