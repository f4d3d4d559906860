package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/critters/neural"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 2

// Snapshot holds the complete simulation state for resuming a run.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	RNGSeed int64  `json:"rng_seed"`

	Tick        int64  `json:"tick"`
	NextID      uint32 `json:"next_id"`
	TotalBirths int    `json:"total_births"`

	Terrain   TerrainState    `json:"terrain"`
	Creatures []CreatureState `json:"creatures"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// TerrainState is the tile grid in column-major order.
type TerrainState struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Types      []int     `json:"types"`
	Food       []float64 `json:"food"`
	SeasonBand int       `json:"season_band"`
}

// CreatureState holds one creature's complete state.
type CreatureState struct {
	ID uint32 `json:"id"`

	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"`

	Size   float64 `json:"size"`
	Colour float64 `json:"colour"`

	Birthday  int64   `json:"birthday"`
	LastBirth int64   `json:"last_birth"`
	Spawns    int     `json:"spawns"`
	Eaten     float64 `json:"eaten"`

	Generation int `json:"generation"`

	Brain *neural.Brain `json:"brain"`
}

// SaveSnapshot writes a snapshot to dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	n := snapshot.Terrain.Width * snapshot.Terrain.Height
	if len(snapshot.Terrain.Types) != n || len(snapshot.Terrain.Food) != n {
		return nil, fmt.Errorf("snapshot terrain holds %d types and %d food values, want %d",
			len(snapshot.Terrain.Types), len(snapshot.Terrain.Food), n)
	}
	return &snapshot, nil
}
