package rates

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthdash-backend/internal/domain"
)

var errNoProvider = errors.New("no rate provider configured")

// DefaultTTL is how long a fetched table is served before refetching
const DefaultTTL = time.Hour

// DefaultRetryInterval is how long a failed fetch suppresses the next attempt
const DefaultRetryInterval = time.Minute

// Provider fetches the current rates, as units of currency per 1 EUR
type Provider interface {
	Fetch(ctx context.Context) (map[string]decimal.Decimal, error)
}

// RateService serves the current rate table from a single-entry cache
type RateService struct {
	Provider      Provider
	TTL           time.Duration
	RetryInterval time.Duration
	Log           logrus.FieldLogger

	now func() time.Time

	mu          sync.Mutex
	cached      *domain.RateTable
	refreshing  bool
	lastFailure time.Time
}

// NewRateService creates a new RateService instance
func NewRateService(provider Provider, ttl time.Duration, log logrus.FieldLogger) *RateService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RateService{
		Provider:      provider,
		TTL:           ttl,
		RetryInterval: DefaultRetryInterval,
		Log:           log,
		now:           time.Now,
	}
}

// Current returns the rate table to aggregate with. It never fails and
// never waits on a fetch while it has a table in hand:
//   - a cached table younger than TTL is returned as is
//   - an expired table is returned at once and refreshed in the background
//   - with nothing cached the caller fetches, or gets the fallback table
//
// Only one fetch runs at a time, and a failed fetch is not retried
// before RetryInterval has passed.
func (s *RateService) Current(ctx context.Context) domain.RateTable {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.cached.FetchedAt) < s.TTL {
		table := *s.cached
		s.mu.Unlock()
		return table
	}
	if s.refreshing || s.backingOffLocked() {
		table := s.servedLocked()
		s.mu.Unlock()
		return table
	}
	s.refreshing = true
	stale := s.cached
	s.mu.Unlock()

	if stale != nil {
		go func() {
			if err := s.refreshInFlight(context.WithoutCancel(ctx)); err != nil {
				s.Log.WithError(err).Warn("rate provider unavailable, serving stale rates")
			}
		}()
		return *stale
	}

	if err := s.refreshInFlight(ctx); err != nil {
		s.Log.WithError(err).Warn("rate provider unavailable, serving fallback rates")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servedLocked()
}

// Refresh forces a fetch and replaces the cache on success
func (s *RateService) Refresh(ctx context.Context) error {
	return s.fetch(ctx)
}

func (s *RateService) refreshInFlight(ctx context.Context) error {
	err := s.fetch(ctx)

	s.mu.Lock()
	s.refreshing = false
	s.mu.Unlock()
	return err
}

// fetch calls the provider without holding the lock
func (s *RateService) fetch(ctx context.Context) error {
	var (
		fetched map[string]decimal.Decimal
		err     = errNoProvider
	)
	if s.Provider != nil {
		fetched, err = s.Provider.Fetch(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastFailure = s.now()
		return err
	}

	table := domain.NewRateTable(fetched, domain.RateSourceProvider, s.now())
	s.cached = &table
	s.lastFailure = time.Time{}
	s.Log.WithField("currencies", table.Len()).Debug("rate table refreshed")
	return nil
}

func (s *RateService) backingOffLocked() bool {
	return !s.lastFailure.IsZero() && s.now().Sub(s.lastFailure) < s.RetryInterval
}

// servedLocked is the last good table, or the fallback table
func (s *RateService) servedLocked() domain.RateTable {
	if s.cached != nil {
		return *s.cached
	}
	return domain.FallbackRates()
}
