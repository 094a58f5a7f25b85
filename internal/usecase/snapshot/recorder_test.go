package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
)

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) List(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Snapshot, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Snapshot, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func newResult() *aggregator.Result {
	return aggregator.Aggregate(aggregator.Input{
		Assets: []*domain.Record{{
			ID:       uuid.New(),
			Name:     "Checking",
			Type:     domain.TypeBank,
			Value:    decimal.NewFromInt(1200),
			Currency: "EUR",
		}},
		Rates: domain.FallbackRates(),
	}, aggregator.Options{})
}

func TestSave_NewSnapshot(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	repo := new(MockSnapshotRepository)
	recorder := NewRecorder(repo, paris)
	// 23:30 UTC is already the next day in Paris
	recorder.now = func() time.Time { return time.Date(2026, 10, 13, 23, 30, 0, 0, time.UTC) }
	wantDate := time.Date(2026, 10, 14, 0, 0, 0, 0, paris)

	repo.On("GetByDate", ctx, userID, wantDate).Return(nil, domain.ErrNotFound)
	repo.On("Upsert", ctx, mock.AnythingOfType("*domain.Snapshot")).Return(nil)

	snap, err := recorder.Save(ctx, userID, newResult(), domain.FallbackRates(), nil)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, snap.ID)
	assert.True(t, wantDate.Equal(snap.Date))
	assert.True(t, snap.NetWorth.Equal(decimal.NewFromInt(1200)))
	assert.Len(t, snap.Rates, 6)

	decoded, err := Decode(snap)
	require.NoError(t, err)
	assert.True(t, decoded.NetWorth.Equal(decimal.NewFromInt(1200)))
	repo.AssertExpectations(t)
}

func TestSave_SameDayKeepsID(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	existingID := uuid.New()

	repo := new(MockSnapshotRepository)
	recorder := NewRecorder(repo, nil)
	recorder.now = func() time.Time { return time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC) }
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	repo.On("GetByDate", ctx, userID, day).Return(&domain.Snapshot{ID: existingID}, nil)
	repo.On("Upsert", ctx, mock.MatchedBy(func(s *domain.Snapshot) bool {
		return s.ID == existingID
	})).Return(nil)

	snap, err := recorder.Save(ctx, userID, newResult(), domain.FallbackRates(), nil)

	require.NoError(t, err)
	assert.Equal(t, existingID, snap.ID)
	repo.AssertExpectations(t)
}

func TestSave_Errors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("nil result", func(t *testing.T) {
		_, err := NewRecorder(new(MockSnapshotRepository), nil).Save(ctx, userID, nil, domain.FallbackRates(), nil)
		assert.EqualError(t, err, "snapshot result cannot be nil")
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := new(MockSnapshotRepository)
		repo.On("GetByDate", ctx, userID, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := NewRecorder(repo, nil).Save(ctx, userID, newResult(), domain.FallbackRates(), nil)

		assert.ErrorContains(t, err, "failed to look up snapshot")
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("upsert failure is not retried", func(t *testing.T) {
		repo := new(MockSnapshotRepository)
		repo.On("GetByDate", ctx, userID, mock.Anything).Return(nil, domain.ErrNotFound)
		repo.On("Upsert", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := NewRecorder(repo, nil).Save(ctx, userID, newResult(), domain.FallbackRates(), nil)

		assert.ErrorContains(t, err, "failed to save snapshot: disk full")
		repo.AssertNumberOfCalls(t, "Upsert", 1)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	snaps := []*domain.Snapshot{{ID: uuid.New()}, {ID: uuid.New()}}

	repo := new(MockSnapshotRepository)
	repo.On("List", ctx, userID, 30).Return(snaps, nil)

	got, err := NewRecorder(repo, nil).History(ctx, userID, 30)

	require.NoError(t, err)
	assert.Equal(t, snaps, got)
}
