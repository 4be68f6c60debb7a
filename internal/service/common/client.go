//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/pingo/internal/api/grpc/proximity"
	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/domain/alarm"
)

// Client wraps the ProximityService gRPC client with domain types.
type Client struct {
	// conn is the underlying gRPC connection to the daemon.
	conn *grpc.ClientConn
	// api is the ProximityService stub.
	api *proximity.ProximityServiceClient
	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is sent with every call for audit logging.
	actor string
	// dialOptions are appended to the default dial options.
	dialOptions []grpc.DialOption
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor identifies the caller to the daemon.
func WithActor(actor Actor) Option {
	return func(c *Client) {
		c.actor = actor.String()
	}
}

// WithDialOptions appends gRPC dial options.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errIDRequired is returned when an alarm id is empty.
	errIDRequired = errors.New("alarm id must be provided")
)

// Dial establishes a gRPC connection to the monitor daemon.
// Note: this uses insecure transport credentials; the daemon listens on
// loopback by default.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, client.dialOptions...)

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial monitor: %w", err)
	}

	client.conn = conn
	client.api = proximity.NewProximityServiceClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// RunTick asks the daemon to run one proximity tick.
func (c *Client) RunTick(ctx context.Context) (alarm.TickSummary, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.RunTick(callCtx, new(emptypb.Empty))
	if err != nil {
		return alarm.TickSummary{}, fmt.Errorf("run tick: %w", proximity.FromStatus(err))
	}

	return proximity.SummaryFromStruct(resp)
}

// ListAlarms returns every alarm stored by the daemon.
func (c *Client) ListAlarms(ctx context.Context) ([]*alarm.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListAlarms(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", proximity.FromStatus(err))
	}

	return proximity.AlarmsFromList(resp)
}

// UpsertAlarm stores an alarm and returns it as saved.
func (c *Client) UpsertAlarm(ctx context.Context, a *alarm.Alarm) (*alarm.Alarm, error) {
	req, err := proximity.AlarmToStruct(a)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.UpsertAlarm(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("upsert alarm: %w", proximity.FromStatus(err))
	}

	return proximity.AlarmFromStruct(resp)
}

// DeleteAlarm removes an alarm.
func (c *Client) DeleteAlarm(ctx context.Context, id string) error {
	if id == "" {
		return errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.DeleteAlarm(callCtx, wrapperspb.String(id)); err != nil {
		return fmt.Errorf("delete alarm: %w", proximity.FromStatus(err))
	}

	return nil
}

// SetAlarmEnabled toggles an alarm.
func (c *Client) SetAlarmEnabled(ctx context.Context, id string, enabled bool) error {
	if id == "" {
		return errIDRequired
	}

	req, err := structpb.NewStruct(map[string]any{"id": id, "enabled": enabled})
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err = c.api.SetAlarmEnabled(callCtx, req); err != nil {
		return fmt.Errorf("set alarm enabled: %w", proximity.FromStatus(err))
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The caller actor
// is attached as outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.actor != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, proximity.ActorMetadataKey, c.actor)
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
