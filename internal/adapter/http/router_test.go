package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
	"github.com/simaogato/wealthdash-backend/internal/usecase/dashboard"
)

const testToken = "secret"

type memRecords map[domain.RecordKind][]*domain.Record

func (m memRecords) List(_ context.Context, _ uuid.UUID, kind domain.RecordKind) ([]*domain.Record, error) {
	return m[kind], nil
}

type failingEntities struct{ err error }

func (f failingEntities) List(context.Context, uuid.UUID) ([]*domain.Entity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

type fixedRates struct{}

func (fixedRates) Current(context.Context) domain.RateTable { return domain.FallbackRates() }

type staticHistory struct{ snaps []*domain.Snapshot }

func (s staticHistory) Save(context.Context, uuid.UUID, *aggregator.Result, domain.RateTable, []domain.Quote) (*domain.Snapshot, error) {
	return nil, fmt.Errorf("read only")
}

func (s staticHistory) History(_ context.Context, _ uuid.UUID, limit int) ([]*domain.Snapshot, error) {
	if limit > 0 && limit < len(s.snaps) {
		return s.snaps[:limit], nil
	}
	return s.snaps, nil
}

func newTestRouter(t *testing.T, entities failingEntities) http.Handler {
	t.Helper()
	records := memRecords{
		domain.RecordKindAsset: {
			{ID: uuid.New(), Name: "Savings", Type: domain.TypeBank, Value: decimal.NewFromInt(500), Currency: "EUR", Country: "PT"},
		},
		domain.RecordKindReceivable: {
			{ID: uuid.New(), Name: "IOU", Type: domain.TypePersonalLoan, Value: decimal.NewFromInt(100), Currency: "EUR"},
		},
	}
	history := staticHistory{snaps: []*domain.Snapshot{
		{ID: uuid.New(), Date: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), NetWorth: decimal.NewFromInt(500)},
		{ID: uuid.New(), Date: time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), NetWorth: decimal.NewFromInt(450)},
	}}
	logger, _ := test.NewNullLogger()
	svc := dashboard.NewDashboardService(records, entities, fixedRates{}, nil, history, logger)
	return NewRouter(NewHandler(svc, logger), testToken, logger)
}

func do(t *testing.T, h http.Handler, path string, authorized bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthIsPublic(t *testing.T) {
	rec, body := do(t, newTestRouter(t, failingEntities{}), "/healthz", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestNetWorth(t *testing.T) {
	router := newTestRouter(t, failingEntities{})
	path := "/v1/users/" + uuid.New().String() + "/networth"

	rec, body := do(t, router, path, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	result := body["result"].(map[string]any)
	assert.Equal(t, "500", result["net_worth"])
	assert.Equal(t, false, result["includes_receivables"])

	_, body = do(t, router, path+"?include_receivables=true", true)
	assert.Equal(t, "600", body["result"].(map[string]any)["net_worth"])

	rec, _ = do(t, router, path+"?include_receivables=maybe", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNetWorth_Errors(t *testing.T) {
	tests := []struct {
		name     string
		entities failingEntities
		path     string
		auth     bool
		want     int
	}{
		{"no token", failingEntities{}, "/v1/users/" + uuid.New().String() + "/networth", false, http.StatusUnauthorized},
		{"bad user id", failingEntities{}, "/v1/users/abc/networth", true, http.StatusBadRequest},
		{"not found", failingEntities{err: fmt.Errorf("user: %w", domain.ErrNotFound)}, "/v1/users/" + uuid.New().String() + "/networth", true, http.StatusNotFound},
		{"internal", failingEntities{err: fmt.Errorf("connection refused")}, "/v1/users/" + uuid.New().String() + "/networth", true, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, newTestRouter(t, tt.entities), tt.path, tt.auth)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestNetWorth_InternalErrorIsNotExposed(t *testing.T) {
	entities := failingEntities{err: fmt.Errorf("pq: password authentication failed for user \"wealthdash\"")}
	path := "/v1/users/" + uuid.New().String() + "/networth"

	rec, body := do(t, newTestRouter(t, entities), path, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestSnapshots(t *testing.T) {
	router := newTestRouter(t, failingEntities{})
	path := "/v1/users/" + uuid.New().String() + "/snapshots"

	rec, body := do(t, router, path+"?limit=1", true)
	require.Equal(t, http.StatusOK, rec.Code)
	snaps := body["snapshots"].([]any)
	require.Len(t, snaps, 1)
	assert.Equal(t, "2026-10-14", snaps[0].(map[string]any)["date"])

	rec, _ = do(t, router, path+"?limit=-1", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRates(t *testing.T) {
	rec, body := do(t, newTestRouter(t, failingEntities{}), "/v1/rates", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EUR", body["base"])
	assert.Equal(t, "FALLBACK", body["source"])
	assert.Equal(t, "162.5", body["rates"].(map[string]any)["JPY"])
}
