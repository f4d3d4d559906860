package storage

import (
	"errors"
	"fmt"
)

// NewStore creates the backend named by kind ("memory" or "sqlite").
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func validate(rec BrainRecord) error {
	if rec.ID == "" {
		return errors.New("brain record id is required")
	}
	if rec.Brain == nil {
		return fmt.Errorf("brain record %s has no brain", rec.ID)
	}
	return nil
}
