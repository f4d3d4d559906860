package server

import "github.com/pthm-cable/critters/game"

// Frame is one observed world state.
type Frame struct {
	Type        string          `json:"type"` // always "frame"
	Tick        int64           `json:"tick"`
	State       string          `json:"state"`
	Population  int             `json:"population"`
	TotalBirths int             `json:"total_births"`
	TotalFood   float64         `json:"total_food"`
	Season      float64         `json:"season"`
	OldestAge   int64           `json:"oldest_age"`
	Creatures   []CreatureFrame `json:"creatures"`
}

// CreatureFrame is the observed part of one creature.
type CreatureFrame struct {
	ID      uint32  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Size    float64 `json:"size"`
	Colour  float64 `json:"colour"`
	Age     int64   `json:"age"`
}

// NewFrame copies the world's current state. Call it between ticks from the
// goroutine that owns w.
func NewFrame(w *game.World) Frame {
	creatures := w.Creatures()
	f := Frame{
		Type:        "frame",
		Tick:        w.Tick(),
		State:       w.State().String(),
		Population:  w.Population(),
		TotalBirths: w.TotalBirths(),
		TotalFood:   w.TotalFood(),
		Season:      w.Season(),
		OldestAge:   w.OldestAge(),
		Creatures:   make([]CreatureFrame, len(creatures)),
	}
	for i, c := range creatures {
		f.Creatures[i] = CreatureFrame{
			ID:      c.ID,
			X:       c.X,
			Y:       c.Y,
			Heading: c.Heading,
			Size:    c.Size,
			Colour:  c.Colour,
			Age:     c.Age,
		}
	}
	return f
}
