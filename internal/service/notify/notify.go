package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/logger"
)

// Notifier shows one local notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Config describes how notifications look.
type Config struct {
	// AppName is shown as the notification source.
	AppName string
	// Urgency is "low", "normal" or "critical".
	Urgency string
	// Sound plays the default notification sound where supported.
	Sound bool
	// Icon is an optional icon name or path.
	Icon string
}

// Runner executes an external command and waits for it.
type Runner func(ctx context.Context, name string, args ...string) error

// ErrUnsupportedOS indicates the current OS has no known notification tool.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// New builds the notifier selected in cfg.
func New(cfg config.Notifier) (Notifier, error) {
	c := Config{
		AppName: cfg.AppName,
		Urgency: cfg.Urgency,
		Sound:   cfg.Sound,
		Icon:    cfg.Icon,
	}

	switch cfg.Kind {
	case config.NotifierLog, "":
		return NewLog(), nil
	case config.NotifierDesktop:
		return NewDesktop(c), nil
	default:
		return nil, fmt.Errorf("unknown notifier kind %q", cfg.Kind)
	}
}

// Log writes notifications to the logger from the context.
type Log struct{}

// NewLog creates a log notifier.
func NewLog() *Log {
	return &Log{}
}

// Notify logs the notification at info level.
func (*Log) Notify(ctx context.Context, title, body string) error {
	logger.InfoKV(ctx, "Notification", "title", title, "body", body)

	return nil
}

// Desktop shows notifications with built-in OS tools:
// - Linux:   `notify-send`
// - macOS:   `osascript -e 'display notification ...'`
// - Windows: `msg.exe`
type Desktop struct {
	// cfg holds presentation settings.
	cfg Config
	// goos selects the command flavour.
	goos string
	// run executes the command.
	run Runner
}

// DesktopOption customizes a Desktop notifier.
type DesktopOption func(*Desktop)

// WithRunner replaces the command runner.
func WithRunner(run Runner) DesktopOption {
	return func(d *Desktop) {
		d.run = run
	}
}

// WithOS overrides the detected operating system.
func WithOS(goos string) DesktopOption {
	return func(d *Desktop) {
		d.goos = goos
	}
}

// NewDesktop creates a desktop notifier for the running OS.
func NewDesktop(cfg Config, opts ...DesktopOption) *Desktop {
	d := &Desktop{
		cfg:  cfg,
		goos: runtime.GOOS,
		run:  runCommand,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Notify runs the OS notification command.
func (d *Desktop) Notify(ctx context.Context, title, body string) error {
	name, args, err := d.command(title, body)
	if err != nil {
		return err
	}

	if err = d.run(ctx, name, args...); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}

	return nil
}

func (d *Desktop) command(title, body string) (string, []string, error) {
	osName := strings.ToLower(d.goos)

	switch {
	case strings.Contains(osName, "linux"), strings.Contains(osName, "bsd"):
		args := []string{"--app-name", d.cfg.AppName, "--urgency", d.cfg.Urgency}
		if d.cfg.Icon != "" {
			args = append(args, "--icon", d.cfg.Icon)
		}

		return "notify-send", append(args, title, body), nil
	case strings.Contains(osName, "darwin"):
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(body), appleScriptString(title))
		if d.cfg.AppName != "" {
			script += " subtitle " + appleScriptString(d.cfg.AppName)
		}

		if d.cfg.Sound {
			script += ` sound name "default"`
		}

		return "osascript", []string{"-e", script}, nil
	case strings.Contains(osName, "windows"):
		return "msg.exe", []string{"*", "/TIME:30", title + ": " + body}, nil
	default:
		return "", nil, fmt.Errorf("desktop notifications on %s: %w", d.goos, ErrUnsupportedOS)
	}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)

	return `"` + s + `"`
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil && len(out) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}

	return err
}
