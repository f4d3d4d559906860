package systems

import (
	"math"

	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
	"github.com/pthm-cable/critters/neural"
)

// Act senses the terrain, runs the brain and applies its decisions.
// On a brain error nothing is changed and the error is returned.
func Act(t *Terrain, pos *components.Position, mot *components.Motion, body components.Body, brain *neural.Brain, cfg config.CreatureConfig) error {
	sense := ComputeSensors(t, *pos, *mot, body, cfg)
	out, err := brain.Forward(sense.AsSlice())
	if err != nil {
		return err
	}
	ApplyAction(t, pos, mot, out, cfg)
	return nil
}

// ApplyAction gates the three brain outputs into a turn and a speed, then
// moves the creature one step and wraps it onto the terrain.
//
//	out[0] > threshold: turn left by TurnStep
//	out[1] > threshold: turn right by TurnStep (only if not turning left)
//	out[2] > threshold: FastSpeed, else IdleSpeed
func ApplyAction(t *Terrain, pos *components.Position, mot *components.Motion, out []float64, cfg config.CreatureConfig) {
	switch {
	case out[0] > cfg.GateThreshold:
		mot.Heading += cfg.TurnStep
	case out[1] > cfg.GateThreshold:
		mot.Heading -= cfg.TurnStep
	}

	if out[2] > cfg.GateThreshold {
		mot.Speed = cfg.FastSpeed
	} else {
		mot.Speed = cfg.IdleSpeed
	}
	mot.Speed = clampFloat(mot.Speed, 0, cfg.MaxSpeed)

	pos.X, pos.Y = t.WrapPosition(
		pos.X+mot.Speed*math.Cos(mot.Heading),
		pos.Y+mot.Speed*math.Sin(mot.Heading),
	)
}
