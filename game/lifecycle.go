package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

type seedKind uint8

const (
	seedUnset seedKind = iota
	seedRandom
	seedFile
	seedBrains
)

func (k seedKind) String() string {
	switch k {
	case seedRandom:
		return "random"
	case seedFile:
		return "file"
	case seedBrains:
		return "brains"
	}
	return "unset"
}

// Seeding describes how the initial population is created.
type Seeding struct {
	kind   seedKind
	count  int
	path   string
	brains []*neural.Brain
}

// SeedRandom creates n creatures with fresh random brains.
func SeedRandom(n int) Seeding {
	return Seeding{kind: seedRandom, count: n}
}

// SeedFromFile creates n creatures that each load their brain from path.
// A slot whose load fails is logged and skipped.
func SeedFromFile(path string, n int) Seeding {
	return Seeding{kind: seedFile, count: n, path: path}
}

// SeedFromBrains creates n creatures cycling through brains. The first pass
// uses copies of each brain, later passes use mutated copies. An empty list
// falls back to random brains.
func SeedFromBrains(brains []*neural.Brain, n int) Seeding {
	return Seeding{kind: seedBrains, count: n, brains: brains}
}

// seed populates the world according to s.
func (w *World) seed(s Seeding) {
	switch s.kind {
	case seedFile:
		for slot := 0; slot < s.count; slot++ {
			brain, err := neural.LoadFile(s.path)
			if err != nil {
				slog.Warn("skipping creature, brain failed to load", "slot", slot, "path", s.path, "error", err)
				continue
			}
			w.spawnRandom(brain)
		}
	case seedBrains:
		if len(s.brains) == 0 {
			slog.Warn("no archived brains, seeding random creatures")
			w.seed(SeedRandom(s.count))
			return
		}
		for slot := 0; slot < s.count; slot++ {
			src := s.brains[slot%len(s.brains)]
			if slot < len(s.brains) {
				w.spawnRandom(src.Clone())
			} else {
				w.spawnRandom(src.SpawnMutatedCopy(w.rng, w.mutation))
			}
		}
	default:
		for slot := 0; slot < s.count; slot++ {
			w.spawnRandom(nil)
		}
	}
}

// spawnRandom adds a creature with fresh physical state. A nil brain gets a
// new random one.
func (w *World) spawnRandom(brain *neural.Brain) ecs.Entity {
	cc := w.cfg.Creature
	rc := w.cfg.Reproduction

	if brain == nil {
		brain = neural.NewDefault(w.rng, w.cfg.Mutation.ParamBound)
	}

	pos := components.Position{
		X: w.rng.Float64() * w.cfg.Derived.WorldW,
		Y: w.rng.Float64() * w.cfg.Derived.WorldH,
	}
	mot := components.Motion{
		Heading: w.jitter(rc.HeadingJitter),
		Speed:   clamp(cc.InitialSpeed+w.jitter(rc.SpeedJitter), 0, cc.MaxSpeed),
	}
	body := components.Body{
		Size:   cc.InitialSizeMin + w.rng.Float64()*(cc.InitialSizeMax-cc.InitialSizeMin),
		Colour: w.rng.Float64(),
	}

	e, id := w.spawn(pos, mot, body, brain)
	w.lifetimes.Register(id, w.time, body.Size)
	return e
}

// spawn assigns the next id and adds the creature to the population.
func (w *World) spawn(pos components.Position, mot components.Motion, body components.Body, brain *neural.Brain) (ecs.Entity, uint32) {
	id := w.nextID
	w.nextID++

	org := components.Organism{
		ID:        id,
		Birthday:  w.time,
		LastBirth: w.time,
	}
	br := components.Brain{Net: brain}

	e := w.creatureMap.NewEntity(&pos, &mot, &body, &org, &br)
	w.population++
	if w.state == StateExtinct {
		w.state = StateRunning
	}
	return e, id
}

// offspring is a child waiting to be merged after the reproduction pass.
type offspring struct {
	parentID uint32
	pos      components.Position
	mot      components.Motion
	body     components.Body
	brain    *neural.Brain
}

// canReproduce applies the age and size gates, then the Bernoulli trial.
func (w *World) canReproduce(body *components.Body, org *components.Organism) bool {
	rc := w.cfg.Reproduction
	return w.time-org.LastBirth > int64(rc.MinInterval) &&
		body.Size > rc.MinSize &&
		w.rng.Float64() < rc.Chance
}

// reproduce splits the parent and returns its child. The parent keeps half
// its size and the child takes the other half.
func (w *World) reproduce(pos *components.Position, mot *components.Motion, body *components.Body, org *components.Organism, brain *components.Brain) offspring {
	rc := w.cfg.Reproduction

	half := body.Size / 2
	body.Size = half
	org.LastBirth = w.time
	org.Spawns++

	x, y := w.terrain.WrapPosition(pos.X+rc.Offset, pos.Y+rc.Offset)
	return offspring{
		parentID: org.ID,
		pos:      components.Position{X: x, Y: y},
		mot: components.Motion{
			Heading: mot.Heading + w.jitter(rc.HeadingJitter),
			Speed:   clamp(mot.Speed+w.jitter(rc.SpeedJitter), 0, w.cfg.Creature.MaxSpeed),
		},
		body: components.Body{
			Size:   half,
			Colour: clamp(body.Colour+w.jitter(rc.ColourJitter), 0, 1),
		},
		brain: brain.Net.SpawnMutatedCopy(w.rng, w.mutation),
	}
}

// reproductionPass evaluates every creature present at the start of the
// pass and merges offspring afterwards, so a newborn never reproduces in
// the tick it was born.
func (w *World) reproductionPass() int {
	var born []offspring

	query := w.creatureFilter.Query()
	for query.Next() {
		pos, mot, body, org, brain := query.Get()
		if w.canReproduce(body, org) {
			born = append(born, w.reproduce(pos, mot, body, org, brain))
		}
	}

	for _, child := range born {
		_, id := w.spawn(child.pos, child.mot, child.body, child.brain)
		w.lifetimes.RegisterChild(id, child.parentID, w.time, child.body.Size)
		w.totalBirths++
		w.collector.RecordBirth()
	}
	return len(born)
}

// cull removes every starving creature and returns how many died.
func (w *World) cull() int {
	type deadInfo struct {
		entity ecs.Entity
		org    components.Organism
		brain  *neural.Brain
	}
	var toRemove []deadInfo

	query := w.creatureFilter.Query()
	for query.Next() {
		_, _, body, org, brain := query.Get()
		if systems.Starving(*body, w.cfg.Creature) {
			toRemove = append(toRemove, deadInfo{entity: query.Entity(), org: *org, brain: brain.Net})
		}
	}

	for _, dead := range toRemove {
		w.collector.RecordDeath()
		stats := w.lifetimes.Remove(dead.org.ID)

		if w.hallOfFame != nil {
			entry := telemetry.HallEntry{
				Brain:      dead.brain,
				CreatureID: dead.org.ID,
				Eaten:      dead.org.Eaten,
				Spawns:     dead.org.Spawns,
				AgeTicks:   w.time - dead.org.Birthday,
			}
			if stats != nil {
				entry.Generation = stats.Generation
			}
			w.hallOfFame.Consider(entry)
		}

		if w.selected == dead.org.ID {
			w.selected = 0
		}
		w.creatureMap.Remove(dead.entity)
		w.population--
	}
	return len(toRemove)
}

// removeAll drops the whole population without hall of fame evaluation.
func (w *World) removeAll() {
	var all []ecs.Entity
	query := w.creatureFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		w.creatureMap.Remove(e)
	}
	w.population = 0
	w.selected = 0
	w.lifetimes.Reset()
}

// Reseed replaces the population. Terrain and time are kept. Brains come
// from the hall of fame first (mutated copies), then random brains fill up
// to the configured initial population.
func (w *World) Reseed() {
	w.removeAll()

	n := w.cfg.Population.Initial
	fromHall := 0
	if w.hallOfFame != nil && w.hallOfFame.Size() > 0 {
		fromHall = min(w.cfg.HallOfFame.ReseedCount, n)
		for i := 0; i < fromHall; i++ {
			w.spawnRandom(w.hallOfFame.Sample().SpawnMutatedCopy(w.rng, w.mutation))
		}
	}
	for i := fromHall; i < n; i++ {
		w.spawnRandom(nil)
	}

	if w.population > 0 {
		w.state = StateRunning
	} else {
		w.state = StateExtinct
	}
	slog.Info("reseeded", "tick", w.time, "population", w.population, "from_hall", fromHall)
}

// AddFromBrainFile adds one creature with fresh physical state and the brain
// stored at path. Simulation state is untouched on error.
func (w *World) AddFromBrainFile(path string) (uint32, error) {
	brain, err := neural.LoadFile(path)
	if err != nil {
		return 0, fmt.Errorf("adding creature: %w", err)
	}
	e := w.spawnRandom(brain)
	return w.orgMap.Get(e).ID, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
