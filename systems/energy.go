package systems

import (
	"github.com/pthm-cable/critters/components"
	"github.com/pthm-cable/critters/config"
)

// Metabolize feeds the creature from the tile under it and updates its size.
// Upkeep is proportional to size; growth converts food with (1/size)^2
// efficiency so small creatures grow faster per bite. Returns the food eaten.
func Metabolize(t *Terrain, pos components.Position, body *components.Body, org *components.Organism, cfg config.CreatureConfig) float64 {
	food := t.Feed(pos.X, pos.Y)
	org.Eaten += food

	body.Size -= body.Size * cfg.Upkeep
	if body.Size > 0 {
		inv := 1 / body.Size
		body.Size += inv * inv * food * cfg.GrowthEfficiency
	}
	body.Size -= cfg.Overhead

	return food
}

// Starving reports whether the creature is below the death threshold.
// NaN sizes count as starving.
func Starving(body components.Body, cfg config.CreatureConfig) bool {
	return !(body.Size >= cfg.DeathSize)
}
