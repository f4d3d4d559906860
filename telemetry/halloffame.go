package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/neural"
)

// HallEntry is a dead creature's brain and how well it did.
type HallEntry struct {
	Brain      *neural.Brain `json:"brain"`
	Fitness    float64       `json:"fitness"`
	CreatureID uint32        `json:"creature_id"`
	Eaten      float64       `json:"eaten"`
	Spawns     int           `json:"spawns"`
	AgeTicks   int64         `json:"age_ticks"`
	Generation int           `json:"generation"`
}

// HallOfFame keeps the fittest dead creatures for reseeding after a crash.
type HallOfFame struct {
	entries []HallEntry
	cfg     config.HallOfFameConfig
	rng     *rand.Rand
}

// NewHallOfFame creates an empty hall.
func NewHallOfFame(cfg config.HallOfFameConfig, rng *rand.Rand) *HallOfFame {
	if cfg.Size < 1 {
		cfg.Size = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, cfg.Size),
		cfg:     cfg,
		rng:     rng,
	}
}

// Fitness scores a lifetime: food eaten plus weighted offspring.
func (hof *HallOfFame) Fitness(eaten float64, spawns int) float64 {
	return eaten + float64(spawns)*hof.cfg.SpawnWeight
}

// Consider evaluates a dead creature for entry.
// Returns true if the creature was added.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	if entry.Brain == nil {
		return false
	}
	if entry.Eaten < hof.cfg.MinEaten && entry.Spawns == 0 {
		return false
	}
	entry.Fitness = hof.Fitness(entry.Eaten, entry.Spawns)
	var added bool
	hof.entries, added = hof.insertEntry(hof.entries, entry)
	return added
}

// insertEntry adds an entry, maintaining descending order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	if len(hall) >= hof.cfg.Size && idx >= hof.cfg.Size {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.cfg.Size {
		hall = hall[:hof.cfg.Size]
	}
	return hall, true
}

// Sample selects a brain using tournament selection.
// Returns nil if the hall is empty. The returned brain is a copy.
func (hof *HallOfFame) Sample() *neural.Brain {
	if len(hof.entries) == 0 {
		return nil
	}

	const tournamentSize = 3
	var best *HallEntry
	for i := 0; i < tournamentSize && i < len(hof.entries); i++ {
		candidate := &hof.entries[hof.rng.Intn(len(hof.entries))]
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Brain.Clone()
}

// Entries returns the hall in descending fitness order.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the highest fitness, or 0 if the hall is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// MarshalJSON serializes the hall as an array of entries.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file.
func LoadHallOfFameFromFile(path string, cfg config.HallOfFameConfig, rng *rand.Rand) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	if len(entries) > cfg.Size {
		cfg.Size = len(entries)
	}
	hof := NewHallOfFame(cfg, rng)
	for _, e := range entries {
		if e.Brain == nil {
			continue
		}
		hof.entries, _ = hof.insertEntry(hof.entries, e)
	}
	return hof, nil
}
