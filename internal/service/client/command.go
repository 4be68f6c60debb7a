package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/logger"
	"github.com/oshokin/pingo/internal/service/common"
	"github.com/oshokin/pingo/internal/ui"
)

// Options configures how the CLI reaches the monitor daemon.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the daemon address from config when specified.
	ServerAddress string
}

// API is the daemon surface used by the CLI.
type API interface {
	RunTick(ctx context.Context) (alarm.TickSummary, error)
	ListAlarms(ctx context.Context) ([]*alarm.Alarm, error)
	UpsertAlarm(ctx context.Context, a *alarm.Alarm) (*alarm.Alarm, error)
	DeleteAlarm(ctx context.Context, id string) error
	SetAlarmEnabled(ctx context.Context, id string, enabled bool) error
}

// Connect loads settings and dials the monitor daemon.
func Connect(ctx context.Context, opts *Options) (*common.Client, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	serverAddress := cfg.Monitor.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	clientOptions := []common.Option{common.WithCallTimeout(cfg.Monitor.Timeout)}

	// Attach the caller identity for the daemon's audit log when available.
	if actor, err := common.DetectActor(); err == nil {
		clientOptions = append(clientOptions, common.WithActor(actor))
	} else {
		logger.WarnKV(ctx, "Cannot detect actor", "error", err)
	}

	logger.DebugKV(ctx, "Connecting to monitor", "server_address", serverAddress)

	return common.Dial(ctx, serverAddress, clientOptions...)
}

// Runner executes CLI operations against the daemon and prints the results.
type Runner struct {
	// api is the daemon client.
	api API
	// out receives human-readable output.
	out io.Writer
	// now is used for relative timestamps.
	now func() time.Time
}

// NewRunner creates a Runner writing to out.
func NewRunner(api API, out io.Writer) *Runner {
	return &Runner{
		api: api,
		out: out,
		now: time.Now,
	}
}

// List prints every alarm.
func (r *Runner) List(ctx context.Context) error {
	list, err := r.api.ListAlarms(ctx)
	if err != nil {
		return fmt.Errorf("list alarms: %w", err)
	}

	if len(list) == 0 {
		_, err = fmt.Fprintln(r.out, "No alarms")

		return err
	}

	now := r.now()
	for _, a := range list {
		if _, err = fmt.Fprintln(r.out, ui.FormatAlarm(a, now)); err != nil {
			return err
		}
	}

	return nil
}

// Add creates or replaces an alarm and prints the stored version.
func (r *Runner) Add(ctx context.Context, a *alarm.Alarm) error {
	stored, err := r.api.UpsertAlarm(ctx, a)
	if err != nil {
		return fmt.Errorf("save alarm: %w", err)
	}

	_, err = fmt.Fprintln(r.out, ui.FormatAlarm(stored, r.now()))

	return err
}

// Remove deletes an alarm by id.
func (r *Runner) Remove(ctx context.Context, id string) error {
	if err := r.api.DeleteAlarm(ctx, id); err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}

	_, err := fmt.Fprintf(r.out, "Removed %s\n", id)

	return err
}

// SetEnabled toggles an alarm by id.
func (r *Runner) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := r.api.SetAlarmEnabled(ctx, id, enabled); err != nil {
		return fmt.Errorf("update alarm: %w", err)
	}

	state := "Disabled"
	if enabled {
		state = "Enabled"
	}

	_, err := fmt.Fprintf(r.out, "%s %s\n", state, id)

	return err
}

// Tick runs one proximity tick and prints its summary.
func (r *Runner) Tick(ctx context.Context) error {
	summary, err := r.api.RunTick(ctx)
	if err != nil {
		return fmt.Errorf("run tick: %w", err)
	}

	_, err = fmt.Fprintln(r.out, ui.FormatSummary(summary))

	return err
}
