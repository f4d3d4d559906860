package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]BrainRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]BrainRecord)}
}

func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) SaveBrain(_ context.Context, rec BrainRecord) error {
	if err := validate(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Brain = rec.Brain.Clone()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetBrain(_ context.Context, id string) (BrainRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return BrainRecord{}, ErrNotFound
	}
	rec.Brain = rec.Brain.Clone()
	return rec, nil
}

func (s *MemoryStore) ListBrains(_ context.Context, limit int) ([]BrainRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]BrainRecord, 0, len(s.records))
	for _, rec := range s.records {
		rec.Brain = rec.Brain.Clone()
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fitness != out[j].Fitness {
			return out[i].Fitness > out[j].Fitness
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
