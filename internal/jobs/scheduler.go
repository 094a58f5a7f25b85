package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// RateSpec refreshes exchange rates at the top of every hour
const RateSpec = "@hourly"

// jobTimeout bounds a single run of any job
const jobTimeout = 2 * time.Minute

// RateRefresher forces a rate table refresh
type RateRefresher interface {
	Refresh(ctx context.Context) error
}

// SnapshotTaker records today's snapshot of a user
type SnapshotTaker interface {
	RecordSnapshot(ctx context.Context, userID uuid.UUID) (*domain.Snapshot, error)
}

// Scheduler runs the periodic background jobs
type Scheduler struct {
	cron     *cron.Cron
	rates    RateRefresher
	snaps    SnapshotTaker
	users    []uuid.UUID
	notifier Notifier // optional
	logger   logrus.FieldLogger
}

// NewScheduler creates a scheduler whose cron specs are evaluated in loc
func NewScheduler(
	rates RateRefresher,
	snaps SnapshotTaker,
	users []uuid.UUID,
	notifier Notifier,
	loc *time.Location,
	logger logrus.FieldLogger,
) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc), cron.WithLogger(cron.PrintfLogger(logger))),
		rates:    rates,
		snaps:    snaps,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Register adds the rate refresh job and, when users are configured, the
// daily snapshot job at snapshotSpec.
func (s *Scheduler) Register(snapshotSpec string) error {
	if _, err := s.cron.AddFunc(RateSpec, s.RefreshRates); err != nil {
		return fmt.Errorf("failed to schedule rate refresh: %w", err)
	}

	if len(s.users) == 0 {
		s.logger.Info("no snapshot users configured, daily snapshot job disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(snapshotSpec, s.SnapshotAll); err != nil {
		return fmt.Errorf("failed to schedule snapshots: %w", err)
	}
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RefreshRates forces a rate refresh; failures are logged only since
// aggregation keeps serving the cached or fallback table.
func (s *Scheduler) RefreshRates() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.rates.Refresh(ctx); err != nil {
		s.logger.WithError(err).Warn("scheduled rate refresh failed")
	}
}

// SnapshotAll records today's snapshot of every configured user.
// A failure is logged and alerted, never retried; other users still run.
func (s *Scheduler) SnapshotAll() {
	var failed []string

	for _, userID := range s.users {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		_, err := s.snaps.RecordSnapshot(ctx, userID)
		cancel()

		if err != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("snapshot failed")
			failed = append(failed, fmt.Sprintf("%s: %v", userID, err))
		}
	}

	if len(failed) == 0 || s.notifier == nil {
		return
	}

	subject := fmt.Sprintf("Net worth snapshot failed for %d user(s)", len(failed))
	if err := s.notifier.Notify(subject, strings.Join(failed, "\n")); err != nil {
		s.logger.WithError(err).Warn("failed to deliver snapshot alert")
	}
}
