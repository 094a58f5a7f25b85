package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/dashboard"
	"github.com/simaogato/wealthdash-backend/internal/usecase/snapshot"
)

const testToken = "secret"

type memRecords map[domain.RecordKind][]*domain.Record

func (m memRecords) List(_ context.Context, _ uuid.UUID, kind domain.RecordKind) ([]*domain.Record, error) {
	return m[kind], nil
}

type memEntities []*domain.Entity

func (m memEntities) List(context.Context, uuid.UUID) ([]*domain.Entity, error) {
	return m, nil
}

type memSnapshots struct {
	byDay map[string]*domain.Snapshot
}

func (m *memSnapshots) Upsert(_ context.Context, s *domain.Snapshot) error {
	m.byDay[s.UserID.String()+s.Date.Format("2006-01-02")] = s
	return nil
}

func (m *memSnapshots) List(_ context.Context, userID uuid.UUID, _ int) ([]*domain.Snapshot, error) {
	var out []*domain.Snapshot
	for _, s := range m.byDay {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSnapshots) GetByDate(_ context.Context, userID uuid.UUID, date time.Time) (*domain.Snapshot, error) {
	if s, ok := m.byDay[userID.String()+date.Format("2006-01-02")]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("snapshot: %w", domain.ErrNotFound)
}

type fixedRates struct{}

func (fixedRates) Current(context.Context) domain.RateTable { return domain.FallbackRates() }

func startServer(t *testing.T) *NetWorthServiceClient {
	t.Helper()

	records := memRecords{
		domain.RecordKindAsset: {
			{ID: uuid.New(), Name: "Savings", Type: domain.TypeBank, Value: decimal.NewFromInt(1080), Currency: "USD"},
		},
		domain.RecordKindLiability: {
			{ID: uuid.New(), Name: "Card", Type: domain.TypeCreditCard, Value: decimal.NewFromInt(200), Currency: "EUR"},
		},
		domain.RecordKindReceivable: {
			{ID: uuid.New(), Name: "IOU", Type: domain.TypePersonalLoan, Value: decimal.NewFromInt(50), Currency: "EUR"},
		},
	}
	logger, _ := test.NewNullLogger()
	recorder := snapshot.NewRecorder(&memSnapshots{byDay: map[string]*domain.Snapshot{}}, time.UTC)
	svc := dashboard.NewDashboardService(records, memEntities{}, fixedRates{}, nil, recorder, logger)

	lis := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor(logger), AuthInterceptor(testToken)))
	RegisterNetWorthServiceServer(server, NewServer(svc))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewNetWorthServiceClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestServer_GetNetWorth(t *testing.T) {
	client := startServer(t)
	userID := uuid.New().String()

	resp, err := client.GetNetWorth(authed(), request(t, map[string]any{"user_id": userID}))
	require.NoError(t, err)

	result := resp.GetFields()["result"].GetStructValue()
	assert.Equal(t, "800", result.GetFields()["net_worth"].GetStringValue())
	assert.Equal(t, "FALLBACK", resp.GetFields()["rates"].GetStructValue().GetFields()["source"].GetStringValue())
	assert.Equal(t, userID, resp.GetFields()["user_id"].GetStringValue())

	withReceivables, err := client.GetNetWorth(authed(), request(t, map[string]any{
		"user_id":             userID,
		"include_receivables": true,
	}))
	require.NoError(t, err)
	result = withReceivables.GetFields()["result"].GetStructValue()
	assert.Equal(t, "850", result.GetFields()["net_worth"].GetStringValue())
}

func TestServer_InvalidRequests(t *testing.T) {
	client := startServer(t)

	_, err := client.GetNetWorth(authed(), request(t, map[string]any{}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetNetWorth(authed(), request(t, map[string]any{"user_id": "not-a-uuid"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListSnapshots(authed(), request(t, map[string]any{"user_id": uuid.New().String(), "limit": 1.5}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetRates(context.Background(), request(t, map[string]any{}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_SnapshotRoundTrip(t *testing.T) {
	client := startServer(t)
	userID := uuid.New().String()
	req := request(t, map[string]any{"user_id": userID})

	first, err := client.RecordSnapshot(authed(), req)
	require.NoError(t, err)
	second, err := client.RecordSnapshot(authed(), req)
	require.NoError(t, err)
	assert.Equal(t, first.GetFields()["id"].GetStringValue(), second.GetFields()["id"].GetStringValue())

	list, err := client.ListSnapshots(authed(), req)
	require.NoError(t, err)
	snaps := list.GetFields()["snapshots"].GetListValue().GetValues()
	require.Len(t, snaps, 1)
	assert.Equal(t, "800", snaps[0].GetStructValue().GetFields()["net_worth"].GetStringValue())
}

func TestServer_GetRates(t *testing.T) {
	client := startServer(t)

	resp, err := client.GetRates(authed(), request(t, map[string]any{}))
	require.NoError(t, err)

	assert.Equal(t, "EUR", resp.GetFields()["base"].GetStringValue())
	rates := resp.GetFields()["rates"].GetStructValue().GetFields()
	assert.Len(t, rates, 6)
	assert.Equal(t, "1.08", rates["USD"].GetStringValue())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"nil", nil, codes.OK},
		{"not found", fmt.Errorf("snapshot: %w", domain.ErrNotFound), codes.NotFound},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"validation", errors.New("record name cannot be empty"), codes.InvalidArgument},
		{"not configured", errors.New("snapshot recording is not configured"), codes.Unimplemented},
		{"unknown", errors.New("connection reset"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(mapError(tt.err)))
		})
	}
}
