package proximity

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/repository/alarms"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	RunTick(ctx context.Context) (alarm.TickSummary, error)
	ListAlarms(ctx context.Context) ([]*alarm.Alarm, error)
	UpsertAlarm(ctx context.Context, a *alarm.Alarm) (*alarm.Alarm, error)
	DeleteAlarm(ctx context.Context, id string) error
	SetAlarmEnabled(ctx context.Context, id string, enabled bool) error
}

// Server implements the ProximityService gRPC API.
type Server struct {
	// service provides the business logic.
	service Service
}

var _ ProximityServiceServer = (*Server)(nil)

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// RunTick runs one proximity tick.
func (s *Server) RunTick(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	summary, err := s.service.RunTick(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := SummaryToStruct(summary)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return out, nil
}

// ListAlarms returns every stored alarm.
func (s *Server) ListAlarms(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	list, err := s.service.ListAlarms(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := AlarmsToList(list)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return out, nil
}

// UpsertAlarm validates and stores one alarm.
func (s *Server) UpsertAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil || len(req.GetFields()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "alarm is required")
	}

	in, err := AlarmFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	saved, err := s.service.UpsertAlarm(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := AlarmToStruct(saved)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return out, nil
}

// DeleteAlarm removes one alarm.
func (s *Server) DeleteAlarm(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.service.DeleteAlarm(ctx, id); err != nil {
		return nil, toStatus(err)
	}

	return new(emptypb.Empty), nil
}

// SetAlarmEnabled toggles one alarm.
func (s *Server) SetAlarmEnabled(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	fields := req.GetFields()

	id := strings.TrimSpace(fields["id"].GetStringValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	enabled, ok := fields["enabled"].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "enabled must be a boolean")
	}

	if err := s.service.SetAlarmEnabled(ctx, id, enabled.BoolValue); err != nil {
		return nil, toStatus(err)
	}

	return new(emptypb.Empty), nil
}

// toStatus maps domain errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, alarm.ErrInvalidAlarm):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, alarms.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, alarms.ErrPersistence):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// remoteError keeps the server message while matching a domain sentinel.
type remoteError struct {
	// message is the status message.
	message string
	// sentinel is the matching domain error.
	sentinel error
}

func (e *remoteError) Error() string { return e.message }

func (e *remoteError) Unwrap() error { return e.sentinel }

// FromStatus maps gRPC status codes back to domain errors so callers can use
// errors.Is with alarm.ErrInvalidAlarm and alarms.ErrNotFound.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return &remoteError{message: st.Message(), sentinel: alarm.ErrInvalidAlarm}
	case codes.NotFound:
		return &remoteError{message: st.Message(), sentinel: alarms.ErrNotFound}
	default:
		return err
	}
}
