// Package rpc serves the odds service over gRPC. Messages are protobuf
// Struct values carrying the same JSON shapes as the HTTP API.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "craftodds.v1.OddsService"

const (
	methodCalculate   = "/" + ServiceName + "/Calculate"
	methodListOptions = "/" + ServiceName + "/ListOptions"
	methodListLevels  = "/" + ServiceName + "/ListLevels"
)

// OddsServer is the server API for OddsService.
type OddsServer interface {
	Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOptions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListLevels(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterOddsServer registers srv on s.
func RegisterOddsServer(s grpc.ServiceRegistrar, srv OddsServer) {
	s.RegisterService(&oddsServiceDesc, srv)
}

var oddsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OddsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Calculate", Handler: calculateHandler},
		{MethodName: "ListOptions", Handler: listOptionsHandler},
		{MethodName: "ListLevels", Handler: listLevelsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "craftodds/v1/odds.proto",
}

func calculateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OddsServer).Calculate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCalculate}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OddsServer).Calculate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listOptionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OddsServer).ListOptions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListOptions}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OddsServer).ListOptions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listLevelsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OddsServer).ListLevels(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListLevels}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OddsServer).ListLevels(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
