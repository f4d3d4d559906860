package telemetry

// LifetimeStats tracks per-creature statistics the components do not carry.
type LifetimeStats struct {
	BirthTick  int64
	ParentID   uint32 // 0 for seeded creatures
	Generation int

	PeakSize   float64
	Mismatches int // ticks skipped on a brain error
}

// LifetimeTracker manages per-creature lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a seeded creature.
func (lt *LifetimeTracker) Register(id uint32, birthTick int64, size float64) {
	lt.stats[id] = &LifetimeStats{
		BirthTick: birthTick,
		PeakSize:  size,
	}
}

// RegisterRestored recreates lifetime stats for a creature loaded from a
// snapshot, keeping its generation.
func (lt *LifetimeTracker) RegisterRestored(id uint32, birthTick int64, size float64, generation int) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		Generation: generation,
		PeakSize:   size,
	}
}

// RegisterChild creates lifetime stats for an offspring, one generation below its parent.
func (lt *LifetimeTracker) RegisterChild(id, parentID uint32, birthTick int64, size float64) {
	gen := 1
	if p := lt.stats[parentID]; p != nil {
		gen = p.Generation + 1
	}
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		ParentID:   parentID,
		Generation: gen,
		PeakSize:   size,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a creature's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// UpdateSize tracks peak size.
func (lt *LifetimeTracker) UpdateSize(id uint32, size float64) {
	if s := lt.stats[id]; s != nil && size > s.PeakSize {
		s.PeakSize = size
	}
}

// RecordMismatch counts a tick the creature skipped on a brain error.
func (lt *LifetimeTracker) RecordMismatch(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Mismatches++
	}
}

// MaxGeneration returns the deepest generation currently alive.
func (lt *LifetimeTracker) MaxGeneration() int {
	best := 0
	for _, s := range lt.stats {
		if s.Generation > best {
			best = s.Generation
		}
	}
	return best
}

// Reset drops every tracked creature.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
