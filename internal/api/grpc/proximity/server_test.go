package proximity

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/domain/geo"
	"github.com/oshokin/pingo/internal/repository/alarms"
)

// fakeService implements Service in memory.
type fakeService struct {
	mu      sync.Mutex
	alarms  map[string]*alarm.Alarm
	summary alarm.TickSummary
	tickErr error
}

func newFakeService() *fakeService {
	return &fakeService{alarms: make(map[string]*alarm.Alarm)}
}

func (f *fakeService) RunTick(context.Context) (alarm.TickSummary, error) {
	return f.summary, f.tickErr
}

func (f *fakeService) ListAlarms(context.Context) ([]*alarm.Alarm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*alarm.Alarm, 0, len(f.alarms))
	for _, a := range f.alarms {
		list = append(list, a.Clone())
	}

	return list, nil
}

func (f *fakeService) UpsertAlarm(_ context.Context, a *alarm.Alarm) (*alarm.Alarm, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.alarms[a.ID] = a.Clone()

	return a, nil
}

func (f *fakeService) DeleteAlarm(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.alarms, id)

	return nil
}

func (f *fakeService) SetAlarmEnabled(_ context.Context, id string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.alarms[id]
	if !ok {
		return alarms.ErrNotFound
	}

	a.Enabled = enabled

	return nil
}

// startServer serves svc over an in-memory listener and returns a client stub.
func startServer(t *testing.T, svc Service) *ProximityServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor))
	RegisterProximityServiceServer(srv, NewServer(svc))

	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()

		srv.Stop()
	})

	return NewProximityServiceClient(conn)
}

func sampleAlarm() *alarm.Alarm {
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	a := alarm.New("Pharmacy", geo.Coordinate{Latitude: -22.9068, Longitude: -43.1729}, 150, alarm.Monday, alarm.Friday)
	a.ActionType = alarm.ActionMessage
	a.MessageActions = []alarm.MessageAction{{Type: alarm.ChannelWhatsApp, Target: "5511999990000", Message: "here"}}
	a.LastNotifiedAt = &ts

	return a
}

// TestConvert_AlarmRoundtrip keeps every field through Struct conversion.
func TestConvert_AlarmRoundtrip(t *testing.T) {
	t.Parallel()

	want := sampleAlarm()

	s, err := AlarmToStruct(want)
	require.NoError(t, err)
	require.Equal(t, "Pharmacy", s.GetFields()["name"].GetStringValue())

	got, err := AlarmFromStruct(s)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestServer_Roundtrip drives every method over a real gRPC connection.
func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newFakeService()
	svc.summary = alarm.TickSummary{Evaluated: 2, Fired: 1}
	client := startServer(t, svc)

	in, err := AlarmToStruct(sampleAlarm())
	require.NoError(t, err)

	saved, err := client.UpsertAlarm(ctx, in)
	require.NoError(t, err)

	savedAlarm, err := AlarmFromStruct(saved)
	require.NoError(t, err)

	listed, err := client.ListAlarms(ctx, new(emptypb.Empty))
	require.NoError(t, err)

	list, err := AlarmsFromList(listed)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, savedAlarm, list[0])

	toggle, err := structpb.NewStruct(map[string]any{"id": savedAlarm.ID, "enabled": false})
	require.NoError(t, err)

	_, err = client.SetAlarmEnabled(ctx, toggle)
	require.NoError(t, err)
	require.False(t, svc.alarms[savedAlarm.ID].Enabled)

	tick, err := client.RunTick(ctx, new(emptypb.Empty))
	require.NoError(t, err)

	summary, err := SummaryFromStruct(tick)
	require.NoError(t, err)
	require.Equal(t, svc.summary, summary)

	_, err = client.DeleteAlarm(ctx, wrapperspb.String(savedAlarm.ID))
	require.NoError(t, err)
	require.Empty(t, svc.alarms)
}

// TestServer_Errors maps domain errors to status codes and back.
func TestServer_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newFakeService()
	svc.tickErr = errors.Join(alarms.ErrPersistence, errors.New("disk full"))
	client := startServer(t, svc)

	_, err := client.RunTick(ctx, new(emptypb.Empty))
	require.Equal(t, codes.Unavailable, status.Code(err))

	bad := sampleAlarm()
	bad.Radius = -1

	in, err := AlarmToStruct(bad)
	require.NoError(t, err)

	_, err = client.UpsertAlarm(ctx, in)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.ErrorIs(t, FromStatus(err), alarm.ErrInvalidAlarm)

	_, err = client.UpsertAlarm(ctx, &structpb.Struct{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	toggle, err := structpb.NewStruct(map[string]any{"id": "missing", "enabled": true})
	require.NoError(t, err)

	_, err = client.SetAlarmEnabled(ctx, toggle)
	require.Equal(t, codes.NotFound, status.Code(err))
	require.ErrorIs(t, FromStatus(err), alarms.ErrNotFound)

	noFlag, err := structpb.NewStruct(map[string]any{"id": "x"})
	require.NoError(t, err)

	_, err = client.SetAlarmEnabled(ctx, noFlag)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.DeleteAlarm(ctx, wrapperspb.String(" "))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	require.NoError(t, FromStatus(nil))
}
