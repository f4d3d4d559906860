package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/systems"
	"github.com/pthm-cable/critters/telemetry"
)

// Timeslice advances the world by one tick. It does nothing unless the
// world is running.
func (w *World) Timeslice() {
	if w.state != StateRunning {
		return
	}

	w.perf.StartTick()
	w.time++

	w.perf.StartPhase(telemetry.PhaseTerrain)
	w.terrain.Timeslice(w.time)

	w.perf.StartPhase(telemetry.PhaseBehavior)
	w.updateCreatures()

	w.perf.StartPhase(telemetry.PhaseReproduction)
	w.reproductionPass()

	w.perf.StartPhase(telemetry.PhaseCull)
	w.cull()
	if w.population == 0 {
		w.state = StateExtinct
		slog.Info("population extinct", "tick", w.time, "total_births", w.totalBirths)
	}

	w.perf.StartPhase(telemetry.PhaseTelemetry)
	w.flushTelemetry()
	w.reportOldest()

	w.perf.EndTick()
}

// updateCreatures lets every creature act and then feed. A creature whose
// brain rejects its senses skips both for this tick.
func (w *World) updateCreatures() {
	cc := w.cfg.Creature

	query := w.creatureFilter.Query()
	for query.Next() {
		pos, mot, body, org, brain := query.Get()

		if err := systems.Act(w.terrain, pos, mot, *body, brain.Net, cc); err != nil {
			if errors.Is(err, neural.ErrDimensionMismatch) {
				slog.Warn("brain rejected senses, creature skips tick", "id", org.ID, "tick", w.time, "error", err)
			} else {
				slog.Error("creature update failed", "id", org.ID, "tick", w.time, "error", err)
			}
			w.collector.RecordMismatch()
			w.lifetimes.RecordMismatch(org.ID)
			continue
		}

		eaten := systems.Metabolize(w.terrain, *pos, body, org, cc)
		w.collector.RecordForage(eaten)
		w.lifetimes.UpdateSize(org.ID, body.Size)
	}
}

// reportOldest logs the oldest living creature at the configured cadence.
func (w *World) reportOldest() {
	every := int64(w.cfg.Population.ReportEvery)
	if every <= 0 || w.time%every != 0 {
		return
	}
	oldest, ok := w.Oldest()
	if !ok {
		return
	}
	slog.Info("oldest creature",
		"tick", w.time,
		"id", oldest.ID,
		"age", oldest.Age,
		"size", oldest.Size,
		"spawns", oldest.Spawns,
		"population", w.population,
	)
}
