package proximity

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ProximityServiceClient is the client stub of ProximityService.
type ProximityServiceClient struct {
	// cc is the client connection.
	cc grpc.ClientConnInterface
}

// NewProximityServiceClient creates a client stub over cc.
func NewProximityServiceClient(cc grpc.ClientConnInterface) *ProximityServiceClient {
	return &ProximityServiceClient{cc: cc}
}

// RunTick calls ProximityService.RunTick.
func (c *ProximityServiceClient) RunTick(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RunTickFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// ListAlarms calls ProximityService.ListAlarms.
func (c *ProximityServiceClient) ListAlarms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ListAlarmsFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// UpsertAlarm calls ProximityService.UpsertAlarm.
func (c *ProximityServiceClient) UpsertAlarm(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UpsertAlarmFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteAlarm calls ProximityService.DeleteAlarm.
func (c *ProximityServiceClient) DeleteAlarm(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DeleteAlarmFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// SetAlarmEnabled calls ProximityService.SetAlarmEnabled.
func (c *ProximityServiceClient) SetAlarmEnabled(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, SetAlarmEnabledFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
