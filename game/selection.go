package game

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/systems"
)

// CreatureView is a read-only copy of one creature.
type CreatureView struct {
	ID         uint32  `inspect:"skip"`
	X, Y       float64 `inspect:"label,fmt:%.1f"`
	Heading    float64 `inspect:"angle"`
	Speed      float64 `inspect:"bar,max:0.2,fmt:%.3f"`
	Size       float64 `inspect:"bar,max:2"`
	Colour     float64 `inspect:"bar,max:1"`
	Birthday   int64   `inspect:"label"`
	LastBirth  int64   `inspect:"label"`
	Age        int64   `inspect:"label"`
	Spawns     int     `inspect:"label"`
	Eaten      float64 `inspect:"label,fmt:%.1f"`
	Generation int     `inspect:"label"`
}

// Tick returns the current world time.
func (w *World) Tick() int64 { return w.time }

// State returns the run state.
func (w *World) State() State { return w.state }

// Running reports whether Timeslice will advance the world.
func (w *World) Running() bool { return w.state == StateRunning }

// Population returns the number of living creatures.
func (w *World) Population() int { return w.population }

// TotalBirths returns the number of offspring born so far.
func (w *World) TotalBirths() int { return w.totalBirths }

// TotalFood returns the food on the whole terrain.
func (w *World) TotalFood() float64 { return w.terrain.TotalFood() }

// Season returns the terrain's seasonal signal.
func (w *World) Season() float64 { return w.terrain.Season() }

// Terrain returns the terrain for read-only use between ticks.
func (w *World) Terrain() *systems.Terrain { return w.terrain }

// Creatures returns a copy of every creature ordered by id.
func (w *World) Creatures() []CreatureView {
	out := make([]CreatureView, 0, w.population)
	query := w.creatureFilter.Query()
	for query.Next() {
		pos, mot, body, org, _ := query.Get()
		v := CreatureView{
			ID:        org.ID,
			X:         pos.X,
			Y:         pos.Y,
			Heading:   mot.Heading,
			Speed:     mot.Speed,
			Size:      body.Size,
			Colour:    body.Colour,
			Birthday:  org.Birthday,
			LastBirth: org.LastBirth,
			Age:       w.time - org.Birthday,
			Spawns:    org.Spawns,
			Eaten:     org.Eaten,
		}
		if ls := w.lifetimes.Get(org.ID); ls != nil {
			v.Generation = ls.Generation
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Oldest returns the creature with the earliest birthday. Ties go to the lower id.
func (w *World) Oldest() (CreatureView, bool) {
	var best CreatureView
	found := false
	for _, c := range w.Creatures() {
		if !found || c.Birthday < best.Birthday {
			best = c
			found = true
		}
	}
	return best, found
}

// OldestAge returns the age in ticks of the oldest creature, or 0 if none live.
func (w *World) OldestAge() int64 {
	c, ok := w.Oldest()
	if !ok {
		return 0
	}
	return c.Age
}

// Creature returns the creature with id.
func (w *World) Creature(id uint32) (CreatureView, bool) {
	for _, c := range w.Creatures() {
		if c.ID == id {
			return c, true
		}
	}
	return CreatureView{}, false
}

// ClosestTo returns the creature nearest (x, y) measured across the torus.
func (w *World) ClosestTo(x, y float64) (CreatureView, bool) {
	var best CreatureView
	bestD := math.Inf(1)
	found := false
	for _, c := range w.Creatures() {
		dx := torusDelta(c.X-x, w.cfg.Derived.WorldW)
		dy := torusDelta(c.Y-y, w.cfg.Derived.WorldH)
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}

func torusDelta(d, size float64) float64 {
	d = math.Abs(d)
	return math.Min(d, size-d)
}

// Inspection is a creature with its current senses and per-layer activations.
type Inspection struct {
	Creature CreatureView
	Brain    *neural.Brain // shared with the creature; read only
	Trace    [][]float64   // senses followed by each layer's output
}

// Inspect senses for creature id and runs its brain without acting.
func (w *World) Inspect(id uint32) (Inspection, bool) {
	query := w.creatureFilter.Query()
	for query.Next() {
		pos, mot, body, org, brain := query.Get()
		if org.ID != id {
			continue
		}
		query.Close()

		c, _ := w.Creature(id)
		sense := systems.ComputeSensors(w.terrain, *pos, *mot, *body, w.cfg.Creature)
		trace, err := brain.Net.ForwardTrace(sense.AsSlice())
		if err != nil {
			trace = [][]float64{sense.AsSlice()}
		}
		return Inspection{Creature: c, Brain: brain.Net, Trace: trace}, true
	}
	return Inspection{}, false
}

// Pause stops ticks until Resume. An extinct world stays extinct.
func (w *World) Pause() {
	if w.state == StateRunning {
		w.state = StatePaused
	}
}

// Resume restarts a paused world.
func (w *World) Resume() {
	if w.state == StatePaused {
		w.state = StateRunning
	}
}

// TogglePause flips between running and paused.
func (w *World) TogglePause() {
	switch w.state {
	case StateRunning:
		w.Pause()
	case StatePaused:
		w.Resume()
	}
}

// Select marks creature id as selected. It fails if no such creature lives.
func (w *World) Select(id uint32) error {
	if _, ok := w.Creature(id); !ok {
		return fmt.Errorf("creature %d: %w", id, ErrNoSelection)
	}
	w.selected = id
	return nil
}

// ClearSelection deselects.
func (w *World) ClearSelection() {
	w.selected = 0
}

// Selected returns the selected creature's id, if any.
func (w *World) Selected() (uint32, bool) {
	return w.selected, w.selected != 0
}

// brainOf returns the live brain of creature id.
func (w *World) brainOf(id uint32) (*neural.Brain, bool) {
	query := w.creatureFilter.Query()
	for query.Next() {
		_, _, _, org, brain := query.Get()
		if org.ID == id {
			query.Close()
			return brain.Net, true
		}
	}
	return nil, false
}

// SaveSelectedBrain writes the selected creature's brain to path. The format
// follows the extension.
func (w *World) SaveSelectedBrain(path string) error {
	if w.selected == 0 {
		return ErrNoSelection
	}
	brain, ok := w.brainOf(w.selected)
	if !ok {
		return ErrNoSelection
	}
	return neural.SaveFile(path, brain)
}

// DumpBrain saves the selected creature's brain, or the lowest-id creature's
// when nothing is selected, to a timestamped JSON file in dir.
func (w *World) DumpBrain(dir string) (string, error) {
	id := w.selected
	if id == 0 {
		all := w.Creatures()
		if len(all) == 0 {
			return "", ErrNoSelection
		}
		id = all[0].ID
	}
	brain, ok := w.brainOf(id)
	if !ok {
		return "", ErrNoSelection
	}

	name := fmt.Sprintf("brain_%s_%d.json", time.Now().Format("20060102-150405"), id)
	path := filepath.Join(dir, name)
	if err := neural.SaveFile(path, brain); err != nil {
		return "", err
	}
	return path, nil
}
