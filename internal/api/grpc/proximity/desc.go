package proximity

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pingo.v1.ProximityService"

// Full method names.
const (
	RunTickFullMethodName         = "/" + ServiceName + "/RunTick"
	ListAlarmsFullMethodName      = "/" + ServiceName + "/ListAlarms"
	UpsertAlarmFullMethodName     = "/" + ServiceName + "/UpsertAlarm"
	DeleteAlarmFullMethodName     = "/" + ServiceName + "/DeleteAlarm"
	SetAlarmEnabledFullMethodName = "/" + ServiceName + "/SetAlarmEnabled"
)

// ProximityServiceServer is the server API of ProximityService.
type ProximityServiceServer interface {
	// RunTick runs one proximity tick and returns its summary.
	RunTick(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	// ListAlarms returns every stored alarm.
	ListAlarms(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error)
	// UpsertAlarm validates and stores one alarm and returns it.
	UpsertAlarm(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	// DeleteAlarm removes the alarm with the given id.
	DeleteAlarm(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error)
	// SetAlarmEnabled expects {"id": string, "enabled": bool}.
	SetAlarmEnabled(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error)
}

// ServiceDesc describes ProximityService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProximityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RunTick",
			Handler:    unaryHandler(RunTickFullMethodName, ProximityServiceServer.RunTick),
		},
		{
			MethodName: "ListAlarms",
			Handler:    unaryHandler(ListAlarmsFullMethodName, ProximityServiceServer.ListAlarms),
		},
		{
			MethodName: "UpsertAlarm",
			Handler:    unaryHandler(UpsertAlarmFullMethodName, ProximityServiceServer.UpsertAlarm),
		},
		{
			MethodName: "DeleteAlarm",
			Handler:    unaryHandler(DeleteAlarmFullMethodName, ProximityServiceServer.DeleteAlarm),
		},
		{
			MethodName: "SetAlarmEnabled",
			Handler:    unaryHandler(SetAlarmEnabledFullMethodName, ProximityServiceServer.SetAlarmEnabled),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pingo/v1/proximity.proto",
}

// RegisterProximityServiceServer registers srv on s.
func RegisterProximityServiceServer(s grpc.ServiceRegistrar, srv ProximityServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler the same
// way generated code does, including interceptor support.
func unaryHandler[Req proto.Message, Resp proto.Message](
	fullMethod string,
	call func(ProximityServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		var zero Req

		in, _ := zero.ProtoReflect().New().Interface().(Req) //nolint:errcheck // New keeps the concrete type.
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(ProximityServiceServer) //nolint:errcheck // Guaranteed by HandlerType.
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(Req) //nolint:errcheck // The interceptor passes the decoded request through.

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}
