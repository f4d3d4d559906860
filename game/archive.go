package game

import (
	"context"
	"fmt"

	"github.com/pthm-cable/critters/neural"
	"github.com/pthm-cable/critters/storage"
)

// ArchiveHallOfFame saves every hall of fame entry to store. Record ids
// derive from the run and creature, so archiving again updates in place.
func (w *World) ArchiveHallOfFame(ctx context.Context, store storage.Store) (int, error) {
	if w.hallOfFame == nil {
		return 0, nil
	}
	for i, e := range w.hallOfFame.Entries() {
		rec := storage.BrainRecord{
			ID:         fmt.Sprintf("%s/%d", w.runID, e.CreatureID),
			RunID:      w.runID,
			CreatureID: e.CreatureID,
			Tick:       w.time,
			Fitness:    e.Fitness,
			Eaten:      e.Eaten,
			Spawns:     e.Spawns,
			Generation: e.Generation,
			Brain:      e.Brain,
		}
		if err := store.SaveBrain(ctx, rec); err != nil {
			return i, fmt.Errorf("archiving creature %d: %w", e.CreatureID, err)
		}
	}
	return w.hallOfFame.Size(), nil
}

// LoadArchivedBrains returns up to limit of the fittest archived brains.
func LoadArchivedBrains(ctx context.Context, store storage.Store, limit int) ([]*neural.Brain, error) {
	recs, err := store.ListBrains(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing archived brains: %w", err)
	}
	brains := make([]*neural.Brain, len(recs))
	for i, r := range recs {
		brains[i] = r.Brain
	}
	return brains, nil
}
