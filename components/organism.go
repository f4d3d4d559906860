package components

import "github.com/pthm-cable/critters/neural"

// Organism holds identity and lineage counters.
type Organism struct {
	ID        uint32  `inspect:"label"`
	Birthday  int64   `inspect:"label"`
	LastBirth int64   `inspect:"label"`
	Spawns    int     `inspect:"label"`
	Eaten     float64 `inspect:"label,fmt:%.1f"`
}

// Brain owns the creature's network. Reproduction gives the child a new Brain.
type Brain struct {
	Net *neural.Brain `inspect:"skip"`
}
