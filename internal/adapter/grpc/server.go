package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthdash-backend/internal/domain"
	"github.com/simaogato/wealthdash-backend/internal/usecase/aggregator"
	"github.com/simaogato/wealthdash-backend/internal/usecase/dashboard"
)

// DefaultSnapshotLimit is used when ListSnapshots carries no limit
const DefaultSnapshotLimit = 30

// Server implements the NetWorthService gRPC server
type Server struct {
	DashboardService *dashboard.DashboardService
}

var _ NetWorthServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(dashboardService *dashboard.DashboardService) *Server {
	return &Server{
		DashboardService: dashboardService,
	}
}

// GetNetWorth handles the GetNetWorth RPC
// Request fields: user_id (string), include_receivables (bool, optional)
func (s *Server) GetNetWorth(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := parseUserID(req)
	if err != nil {
		return nil, err
	}

	opts := aggregator.Options{
		IncludeReceivables: req.GetFields()["include_receivables"].GetBoolValue(),
	}

	report, err := s.DashboardService.GetNetWorth(ctx, userID, opts)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(report.View())
}

// RecordSnapshot handles the RecordSnapshot RPC
// Request fields: user_id (string)
func (s *Server) RecordSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := parseUserID(req)
	if err != nil {
		return nil, err
	}

	snap, err := s.DashboardService.RecordSnapshot(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dashboard.NewSnapshotView(snap))
}

// ListSnapshots handles the ListSnapshots RPC
// Request fields: user_id (string), limit (number, optional)
func (s *Server) ListSnapshots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := parseUserID(req)
	if err != nil {
		return nil, err
	}

	limit := DefaultSnapshotLimit
	if v, ok := req.GetFields()["limit"]; ok {
		n := v.GetNumberValue()
		if n < 0 || n != float64(int(n)) {
			return nil, status.Errorf(codes.InvalidArgument, "invalid limit: %v", n)
		}
		limit = int(n)
	}

	snaps, err := s.DashboardService.ListSnapshots(ctx, userID, limit)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dashboard.NewSnapshotListView(snaps))
}

// GetRates handles the GetRates RPC
func (s *Server) GetRates(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(dashboard.NewRatesView(s.DashboardService.CurrentRates(ctx)))
}

// parseUserID reads the mandatory user_id field of a request
func parseUserID(req *structpb.Struct) (uuid.UUID, error) {
	raw := req.GetFields()["user_id"].GetStringValue()
	if raw == "" {
		return uuid.Nil, status.Error(codes.InvalidArgument, "user_id is required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid user_id format: %v", err)
	}
	return userID, nil
}

// toStruct converts a JSON-tagged view into a protobuf Struct
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		return status.Errorf(codes.NotFound, "%s", err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return status.Errorf(codes.Canceled, "%s", err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	errorMsg := err.Error()

	// Map common validation errors to InvalidArgument
	if strings.Contains(errorMsg, "must be") ||
		strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "cannot be empty") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	if strings.Contains(errorMsg, "not configured") {
		return status.Errorf(codes.Unimplemented, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
