package systems

import (
	"math"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

// SensorInputs is the creature's view of itself and the tiles around it.
type SensorInputs struct {
	FoodBelow float64
	FoodAhead float64
	FoodLeft  float64 // ahead, rotated +spread
	FoodRight float64 // ahead, rotated -spread
	Size      float64
	Heading   float64
	Speed     float64
}

// AsSlice returns the inputs in brain order.
func (s *SensorInputs) AsSlice() []float64 {
	return []float64{s.FoodBelow, s.FoodAhead, s.FoodLeft, s.FoodRight, s.Size, s.Heading, s.Speed}
}

// ComputeSensors samples food under the creature and one reach along the
// heading, heading+spread and heading-spread.
func ComputeSensors(t *Terrain, pos components.Position, mot components.Motion, body components.Body, cfg config.CreatureConfig) SensorInputs {
	probe := func(angle float64) float64 {
		x, y := t.WrapPosition(pos.X+cfg.SenseReach*math.Cos(angle), pos.Y+cfg.SenseReach*math.Sin(angle))
		return t.FoodAt(x, y)
	}

	return SensorInputs{
		FoodBelow: t.FoodAt(pos.X, pos.Y),
		FoodAhead: probe(mot.Heading),
		FoodLeft:  probe(mot.Heading + cfg.SenseSpread),
		FoodRight: probe(mot.Heading - cfg.SenseSpread),
		Size:      body.Size,
		Heading:   mot.Heading,
		Speed:     mot.Speed,
	}
}
