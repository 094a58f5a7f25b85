package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
)

// Recorder persists one dated aggregation result per user and calendar day
type Recorder struct {
	Repo     domain.SnapshotRepository
	Location *time.Location

	now func() time.Time
}

// NewRecorder creates a new Recorder instance.
// loc decides which calendar day a snapshot belongs to; nil means UTC.
func NewRecorder(repo domain.SnapshotRepository, loc *time.Location) *Recorder {
	if loc == nil {
		loc = time.UTC
	}
	return &Recorder{
		Repo:     repo,
		Location: loc,
		now:      time.Now,
	}
}

// Save stores result as today's snapshot for userID
// Logic:
//  1. Date is today's calendar day in the recorder's location
//  2. An existing snapshot for that date keeps its id and is overwritten
//  3. Rates and quotes used are stored alongside the serialized result
//
// Failures are returned to the caller and never retried.
func (r *Recorder) Save(
	ctx context.Context,
	userID uuid.UUID,
	result *aggregator.Result,
	rates domain.RateTable,
	quotes []domain.Quote,
) (*domain.Snapshot, error) {
	if result == nil {
		return nil, errors.New("snapshot result cannot be nil")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	now := r.now()
	date := domain.CalendarDay(now, r.Location)

	id := uuid.New()
	existing, err := r.Repo.GetByDate(ctx, userID, date)
	switch {
	case err == nil:
		id = existing.ID
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to look up snapshot: %w", err)
	}

	snap := &domain.Snapshot{
		ID:        id,
		UserID:    userID,
		Date:      date,
		Payload:   payload,
		Rates:     rates.Rates(),
		Quotes:    quotes,
		NetWorth:  result.NetWorth,
		CreatedAt: now.UTC(),
	}

	if err := r.Repo.Upsert(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return snap, nil
}

// History returns the latest snapshots of userID, newest first
func (r *Recorder) History(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Snapshot, error) {
	snaps, err := r.Repo.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snaps, nil
}

// Decode reads the aggregation result back from a snapshot payload
func Decode(snap *domain.Snapshot) (*aggregator.Result, error) {
	var result aggregator.Result
	if err := json.Unmarshal(snap.Payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", snap.ID, err)
	}
	return &result, nil
}
