package rates

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthdash-backend/internal/domain"
)

// MockProvider is a mock implementation of Provider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestService(provider Provider) (*RateService, *fakeClock, *test.Hook) {
	logger, hook := test.NewNullLogger()
	clock := &fakeClock{t: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
	svc := NewRateService(provider, time.Hour, logger)
	svc.now = clock.now
	return svc, clock, hook
}

func usd(rate string) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{"USD": decimal.RequireFromString(rate)}
}

func usdRate(t *testing.T, table domain.RateTable) decimal.Decimal {
	t.Helper()
	rate, ok := table.Rate("USD")
	require.True(t, ok)
	return rate
}

func hasWarning(hook *test.Hook, message string) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == message {
			return true
		}
	}
	return false
}

func TestCurrent_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("Fetch", mock.Anything).Return(usd("1.08"), nil).Once()

	svc, clock, _ := newTestService(provider)

	first := svc.Current(ctx)
	clock.advance(59 * time.Minute)
	second := svc.Current(ctx)

	assert.Equal(t, domain.RateSourceProvider, first.Source)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	assert.True(t, usdRate(t, second).Equal(decimal.RequireFromString("1.08")))

	provider.AssertExpectations(t)
}

func TestCurrent_RefreshesExpiredTableInBackground(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("Fetch", mock.Anything).Return(usd("1.08"), nil).Once()
	provider.On("Fetch", mock.Anything).Return(usd("1.10"), nil).Once()

	svc, clock, _ := newTestService(provider)

	svc.Current(ctx)
	clock.advance(61 * time.Minute)

	// the expired table is served while the refresh runs
	assert.True(t, usdRate(t, svc.Current(ctx)).Equal(decimal.RequireFromString("1.08")))

	require.Eventually(t, func() bool {
		return usdRate(t, svc.Current(ctx)).Equal(decimal.RequireFromString("1.10"))
	}, time.Second, 5*time.Millisecond)
	provider.AssertExpectations(t)
}

func TestCurrent_FallbackWhenProviderFails(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("Fetch", mock.Anything).Return(nil, errors.New("connection refused"))

	svc, _, hook := newTestService(provider)

	table := svc.Current(ctx)

	assert.Equal(t, domain.RateSourceFallback, table.Source)
	assert.Equal(t, 6, table.Len())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "fallback")

	// a second call inside the retry interval does not hit the provider
	assert.Equal(t, domain.RateSourceFallback, svc.Current(ctx).Source)
	provider.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestCurrent_ServesStaleTableWhenProviderFails(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("Fetch", mock.Anything).Return(usd("1.08"), nil).Once()
	provider.On("Fetch", mock.Anything).Return(nil, errors.New("timeout")).Once()

	svc, clock, hook := newTestService(provider)

	fresh := svc.Current(ctx)
	clock.advance(2 * time.Hour)
	stale := svc.Current(ctx)

	assert.Equal(t, domain.RateSourceProvider, stale.Source)
	assert.Equal(t, fresh.FetchedAt, stale.FetchedAt)
	require.Eventually(t, func() bool {
		return hasWarning(hook, "rate provider unavailable, serving stale rates")
	}, time.Second, 5*time.Millisecond)
	provider.AssertExpectations(t)
}

func TestCurrent_DoesNotBlockDuringOutage(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	var failed atomic.Int32
	provider := new(MockProvider)
	provider.On("Fetch", mock.Anything).Return(usd("1.08"), nil).Once()
	provider.On("Fetch", mock.Anything).Run(func(mock.Arguments) {
		<-release
		failed.Add(1)
	}).Return(nil, errors.New("timeout"))

	svc, clock, hook := newTestService(provider)
	fresh := svc.Current(ctx)
	clock.advance(2 * time.Hour)

	// every caller is served while the provider hangs
	var wg sync.WaitGroup
	served := make(chan domain.RateTable, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			served <- svc.Current(ctx)
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Current blocked on a pending fetch")
	}
	close(served)
	for table := range served {
		assert.Equal(t, fresh.FetchedAt, table.FetchedAt)
	}

	close(release)
	require.Eventually(t, func() bool {
		return hasWarning(hook, "rate provider unavailable, serving stale rates")
	}, time.Second, 5*time.Millisecond)

	// the failure backs off further attempts
	for i := 0; i < 5; i++ {
		svc.Current(ctx)
	}
	provider.AssertNumberOfCalls(t, "Fetch", 2)

	clock.advance(DefaultRetryInterval)
	svc.Current(ctx)
	require.Eventually(t, func() bool {
		return failed.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("Fetch", mock.Anything).Return(nil, errors.New("boom")).Once()

	svc, _, _ := newTestService(provider)
	assert.EqualError(t, svc.Refresh(ctx), "boom")

	noProvider, _, _ := newTestService(nil)
	assert.Error(t, noProvider.Refresh(ctx))
	assert.Equal(t, domain.RateSourceFallback, noProvider.Current(ctx).Source)
}
