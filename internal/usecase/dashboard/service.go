package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
)

// RateSource supplies the rate table to aggregate with
type RateSource interface {
	Current(ctx context.Context) domain.RateTable
}

// Revaluer refreshes the value of quoted holdings
type Revaluer interface {
	Revalue(ctx context.Context, records []*domain.Record) ([]*domain.Record, []domain.Quote)
}

// Recorder persists aggregation results
type Recorder interface {
	Save(ctx context.Context, userID uuid.UUID, result *aggregator.Result, rates domain.RateTable, quotes []domain.Quote) (*domain.Snapshot, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Snapshot, error)
}

// Report is a net-worth result together with the inputs it was priced with
type Report struct {
	UserID uuid.UUID
	Result *aggregator.Result
	Rates  domain.RateTable
	Quotes []domain.Quote
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	RecordRepo domain.RecordRepository
	EntityRepo domain.EntityRepository
	Rates      RateSource
	Quotes     Revaluer // optional
	Snapshots  Recorder // optional
	Log        logrus.FieldLogger
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	recordRepo domain.RecordRepository,
	entityRepo domain.EntityRepository,
	rates RateSource,
	quotes Revaluer,
	snapshots Recorder,
	log logrus.FieldLogger,
) *DashboardService {
	return &DashboardService{
		RecordRepo: recordRepo,
		EntityRepo: entityRepo,
		Rates:      rates,
		Quotes:     quotes,
		Snapshots:  snapshots,
		Log:        log,
	}
}

var errNoRecorder = errors.New("snapshot recording is not configured")

// GetNetWorth calculates the net worth of a user
// Logic:
//  1. Load the four record collections and the user's entities
//  2. Take the current rate table (never fails, may be fallback rates)
//  3. Revalue quoted holdings from live prices, when configured
//  4. Run the aggregation engine over the loaded data
func (s *DashboardService) GetNetWorth(ctx context.Context, userID uuid.UUID, opts aggregator.Options) (*Report, error) {
	collections := make(map[domain.RecordKind][]*domain.Record, len(domain.RecordKinds))
	for _, kind := range domain.RecordKinds {
		records, err := s.RecordRepo.List(ctx, userID, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
		}
		collections[kind] = records
	}

	entities, err := s.EntityRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}

	rates := s.Rates.Current(ctx)

	var quotes []domain.Quote
	if s.Quotes != nil {
		collections[domain.RecordKindAsset], quotes = s.Quotes.Revalue(ctx, collections[domain.RecordKindAsset])
	}

	result := aggregator.Aggregate(aggregator.Input{
		Assets:       collections[domain.RecordKindAsset],
		Liabilities:  collections[domain.RecordKindLiability],
		Collectibles: collections[domain.RecordKindCollectible],
		Receivables:  collections[domain.RecordKindReceivable],
		Rates:        rates,
		Entities:     entities,
	}, opts)

	if len(result.Warnings) > 0 {
		s.Log.WithFields(logrus.Fields{
			"user_id":  userID,
			"warnings": len(result.Warnings),
		}).Info("net worth computed with warnings")
	}

	return &Report{
		UserID: userID,
		Result: result,
		Rates:  rates,
		Quotes: quotes,
	}, nil
}

// RecordSnapshot computes the current net worth and stores it as today's snapshot
func (s *DashboardService) RecordSnapshot(ctx context.Context, userID uuid.UUID) (*domain.Snapshot, error) {
	if s.Snapshots == nil {
		return nil, errNoRecorder
	}

	report, err := s.GetNetWorth(ctx, userID, aggregator.Options{})
	if err != nil {
		return nil, err
	}

	snap, err := s.Snapshots.Save(ctx, userID, report.Result, report.Rates, report.Quotes)
	if err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"user_id":   userID,
		"date":      snap.Date.Format("2006-01-02"),
		"net_worth": snap.NetWorth.StringFixed(2),
	}).Info("net worth snapshot recorded")

	return snap, nil
}

// ListSnapshots returns the latest snapshots of a user
func (s *DashboardService) ListSnapshots(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Snapshot, error) {
	if s.Snapshots == nil {
		return nil, errNoRecorder
	}
	return s.Snapshots.History(ctx, userID, limit)
}

// CurrentRates returns the rate table used for aggregation
func (s *DashboardService) CurrentRates(ctx context.Context) domain.RateTable {
	return s.Rates.Current(ctx)
}
