package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the net-worth service
const ServiceName = "wealthdash.v1.NetWorthService"

// Full method names
const (
	GetNetWorthMethod    = "/" + ServiceName + "/GetNetWorth"
	RecordSnapshotMethod = "/" + ServiceName + "/RecordSnapshot"
	ListSnapshotsMethod  = "/" + ServiceName + "/ListSnapshots"
	GetRatesMethod       = "/" + ServiceName + "/GetRates"
)

// NetWorthServiceServer is the server API of the net-worth service.
// Requests and responses are google.protobuf.Struct messages.
type NetWorthServiceServer interface {
	GetNetWorth(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSnapshots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRates(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterNetWorthServiceServer registers srv on s
func RegisterNetWorthServiceServer(s grpc.ServiceRegistrar, srv NetWorthServiceServer) {
	s.RegisterService(&NetWorthServiceDesc, srv)
}

// unaryHandler adapts one NetWorthServiceServer method to a grpc.MethodDesc handler
func unaryHandler(
	fullMethod string,
	call func(NetWorthServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NetWorthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NetWorthServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// NetWorthServiceDesc is the grpc.ServiceDesc of the net-worth service
var NetWorthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NetWorthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetNetWorth",
			Handler:    unaryHandler(GetNetWorthMethod, NetWorthServiceServer.GetNetWorth),
		},
		{
			MethodName: "RecordSnapshot",
			Handler:    unaryHandler(RecordSnapshotMethod, NetWorthServiceServer.RecordSnapshot),
		},
		{
			MethodName: "ListSnapshots",
			Handler:    unaryHandler(ListSnapshotsMethod, NetWorthServiceServer.ListSnapshots),
		},
		{
			MethodName: "GetRates",
			Handler:    unaryHandler(GetRatesMethod, NetWorthServiceServer.GetRates),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wealthdash/v1/networth.proto",
}

// NetWorthServiceClient is the client API of the net-worth service
type NetWorthServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNetWorthServiceClient creates a client over an established connection
func NewNetWorthServiceClient(cc grpc.ClientConnInterface) *NetWorthServiceClient {
	return &NetWorthServiceClient{cc: cc}
}

func (c *NetWorthServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNetWorth calls NetWorthService.GetNetWorth
func (c *NetWorthServiceClient) GetNetWorth(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetNetWorthMethod, in, opts...)
}

// RecordSnapshot calls NetWorthService.RecordSnapshot
func (c *NetWorthServiceClient) RecordSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, RecordSnapshotMethod, in, opts...)
}

// ListSnapshots calls NetWorthService.ListSnapshots
func (c *NetWorthServiceClient) ListSnapshots(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListSnapshotsMethod, in, opts...)
}

// GetRates calls NetWorthService.GetRates
func (c *NetWorthServiceClient) GetRates(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetRatesMethod, in, opts...)
}
