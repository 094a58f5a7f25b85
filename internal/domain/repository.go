package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a lookup has no match
var ErrNotFound = errors.New("not found")

// RecordRepository defines the interface for record persistence operations
type RecordRepository interface {
	// List retrieves all records of a kind owned by a user
	List(ctx context.Context, userID uuid.UUID, kind RecordKind) ([]*Record, error)
}

// EntityRepository defines the interface for entity persistence operations
type EntityRepository interface {
	// List retrieves all entities of a user
	List(ctx context.Context, userID uuid.UUID) ([]*Entity, error)
}

// SnapshotRepository defines the interface for snapshot persistence operations
type SnapshotRepository interface {
	// Upsert inserts the snapshot or overwrites the one with the same (user, date)
	Upsert(ctx context.Context, snapshot *Snapshot) error
	// List retrieves the most recent snapshots of a user, newest first
	// A limit <= 0 returns every snapshot
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*Snapshot, error)
	// GetByDate retrieves the snapshot of a user for a calendar day
	// Returns an error wrapping ErrNotFound when none exists
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*Snapshot, error)
}
