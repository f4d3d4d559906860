// Package storage archives creature brains across runs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/critters/neural"
)

// ErrNotFound is returned when a record id is not in the archive.
var ErrNotFound = errors.New("storage: record not found")

// BrainRecord is an archived brain and the lifetime that earned it a place.
type BrainRecord struct {
	ID         string
	RunID      string
	CreatureID uint32
	Tick       int64 // tick the record was archived
	Fitness    float64
	Eaten      float64
	Spawns     int
	Generation int
	Brain      *neural.Brain
	CreatedAt  time.Time
}

// Store persists brain records. ListBrains returns records by descending fitness.
type Store interface {
	Init(ctx context.Context) error
	SaveBrain(ctx context.Context, rec BrainRecord) error
	GetBrain(ctx context.Context, id string) (BrainRecord, error)
	ListBrains(ctx context.Context, limit int) ([]BrainRecord, error)
	Close() error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
