package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // Embedded zone database for hosts without one.

	"gopkg.in/yaml.v3"

	"github.com/oshokin/pingo/internal/domain/geo"
)

// Config holds the settings shared by the PinGo binaries.
type Config struct {
	// Store selects and configures the alarm store backend.
	Store Store `yaml:"store"`
	// Monitor configures the proximity monitor daemon.
	Monitor Monitor `yaml:"monitor"`
	// Location configures where the current position comes from.
	Location Location `yaml:"location"`
	// Notifier configures local notifications.
	Notifier Notifier `yaml:"notifier"`
	// Messaging configures outbound SMS, e-mail and WhatsApp delivery.
	Messaging Messaging `yaml:"messaging"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Store configures the alarm store.
type Store struct {
	// Backend is "file", "sqlite" or "redis".
	Backend string `yaml:"backend"`
	// Path is the JSON file (file backend) or database file (sqlite backend).
	Path string `yaml:"path"`
	// Key is the record key holding the alarm collection.
	Key string `yaml:"key"`
	// RedisAddress is host:port of the Redis server.
	RedisAddress string `yaml:"redis_address"`
	// RedisPassword is optional.
	RedisPassword string `yaml:"redis_password"`
	// RedisDB selects the Redis logical database.
	RedisDB int `yaml:"redis_db"`
}

// Monitor configures the daemon.
type Monitor struct {
	// PollInterval is the period between two proximity ticks.
	PollInterval time.Duration `yaml:"poll_interval"`
	// TimeZone is the IANA zone used for weekday filtering; empty means the host zone.
	TimeZone string `yaml:"time_zone"`
	// ListenAddress is the gRPC address of the daemon.
	ListenAddress string `yaml:"listen_address"`
	// MetricsAddress exposes Prometheus metrics when set.
	MetricsAddress string `yaml:"metrics_address"`
	// Timeout bounds client RPC calls to the daemon.
	Timeout time.Duration `yaml:"timeout"`
}

// Location configures the position source.
type Location struct {
	// Provider is "static" or "http".
	Provider string `yaml:"provider"`
	// Latitude of the static position.
	Latitude float64 `yaml:"latitude"`
	// Longitude of the static position.
	Longitude float64 `yaml:"longitude"`
	// URL returns the current position as JSON for the http provider.
	URL string `yaml:"url"`
	// Token is sent as a bearer token to URL.
	Token string `yaml:"token"`
	// Timeout bounds one position request.
	Timeout time.Duration `yaml:"timeout"`
}

// Notifier configures local notifications.
type Notifier struct {
	// Kind is "log" or "desktop".
	Kind string `yaml:"kind"`
	// AppName is shown as the notification source.
	AppName string `yaml:"app_name"`
	// Urgency is "low", "normal" or "critical".
	Urgency string `yaml:"urgency"`
	// Sound plays the default notification sound where supported.
	Sound bool `yaml:"sound"`
	// Icon is an optional icon name or path.
	Icon string `yaml:"icon"`
}

// Messaging configures outbound message delivery.
type Messaging struct {
	// Kind is "log" (dry run) or "gateway".
	Kind string `yaml:"kind"`
	// SMSEndpoint receives SMS send requests.
	SMSEndpoint string `yaml:"sms_endpoint"`
	// EmailEndpoint receives e-mail send requests.
	EmailEndpoint string `yaml:"email_endpoint"`
	// WhatsAppEndpoint receives WhatsApp send requests.
	WhatsAppEndpoint string `yaml:"whatsapp_endpoint"`
	// Token is sent as a bearer token to every endpoint.
	Token string `yaml:"token"`
	// EmailSubject is the subject line of alert e-mails.
	EmailSubject string `yaml:"email_subject"`
	// Timeout bounds one send request.
	Timeout time.Duration `yaml:"timeout"`
	// RetryCount is the number of retries per send request.
	RetryCount int `yaml:"retry_count"`
}

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "pingo-settings.yaml"
	// DefaultStoreFilename is the default JSON file of the file backend.
	DefaultStoreFilename = "pingo-alarms.json"
	// DefaultSQLiteFilename is the default database of the sqlite backend.
	DefaultSQLiteFilename = "pingo.db"
	// DefaultStoreKey is the record key of the alarm collection.
	DefaultStoreKey = "@alarms"
	// DefaultPollInterval matches the foreground cadence of the mobile app.
	DefaultPollInterval = 10 * time.Second
	// DefaultTimeout is used for network calls without an explicit timeout.
	DefaultTimeout = 5 * time.Second
	// DefaultListenAddress is the gRPC address of the daemon.
	DefaultListenAddress = "127.0.0.1:50061"
	// DefaultAppName is the notification source name.
	DefaultAppName = "PinGo"
	// DefaultEmailSubject is the subject of alert e-mails.
	DefaultEmailSubject = "PinGo alert"
	// DefaultFilePermissions is used for settings and store files.
	DefaultFilePermissions = 0o600
)

// Backend, provider and kind names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	ProviderStatic = "static"
	ProviderHTTP   = "http"

	NotifierLog     = "log"
	NotifierDesktop = "desktop"

	MessagingLog     = "log"
	MessagingGateway = "gateway"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg) //nolint:errcheck // Defaults always validate.

	return cfg
}

// Load reads configuration from path and validates it.
// A missing default settings file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate applies defaults and checks every section.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	for _, check := range []func(*Config) error{
		validateStore,
		validateMonitor,
		validateLocation,
		validateNotifier,
		validateMessaging,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}

	return nil
}

// TimeLocation returns the zone used for weekday filtering.
func (m *Monitor) TimeLocation() (*time.Location, error) {
	if m.TimeZone == "" || strings.EqualFold(m.TimeZone, "local") {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(m.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", m.TimeZone, err)
	}

	return loc, nil
}

func validateStore(cfg *Config) error {
	s := &cfg.Store
	if s.Backend == "" {
		s.Backend = BackendFile
	}

	if s.Key == "" {
		s.Key = DefaultStoreKey
	}

	switch s.Backend {
	case BackendFile:
		if s.Path == "" {
			s.Path = DefaultStoreFilename
		}
	case BackendSQLite:
		if s.Path == "" {
			s.Path = DefaultSQLiteFilename
		}
	case BackendRedis:
		if s.RedisAddress == "" {
			return invalid("store: redis_address is required for the redis backend")
		}
	default:
		return invalid("store: unknown backend %q", s.Backend)
	}

	return nil
}

func validateMonitor(cfg *Config) error {
	m := &cfg.Monitor
	if m.PollInterval <= 0 {
		m.PollInterval = DefaultPollInterval
	}

	if m.Timeout <= 0 {
		m.Timeout = DefaultTimeout
	}

	if m.ListenAddress == "" {
		m.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", m.ListenAddress); err != nil {
		return invalid("monitor: listen address: %v", err)
	}

	if m.MetricsAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", m.MetricsAddress); err != nil {
			return invalid("monitor: metrics address: %v", err)
		}
	}

	if _, err := m.TimeLocation(); err != nil {
		return invalid("monitor: %v", err)
	}

	return nil
}

func validateLocation(cfg *Config) error {
	l := &cfg.Location
	if l.Provider == "" {
		l.Provider = ProviderStatic
	}

	if l.Timeout <= 0 {
		l.Timeout = DefaultTimeout
	}

	switch l.Provider {
	case ProviderStatic:
		c := geo.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
		if err := c.Validate(); err != nil {
			return invalid("location: %v", err)
		}
	case ProviderHTTP:
		if _, err := url.ParseRequestURI(l.URL); err != nil {
			return invalid("location: url: %v", err)
		}
	default:
		return invalid("location: unknown provider %q", l.Provider)
	}

	return nil
}

func validateNotifier(cfg *Config) error {
	n := &cfg.Notifier
	if n.Kind == "" {
		n.Kind = NotifierLog
	}

	if n.AppName == "" {
		n.AppName = DefaultAppName
	}

	if n.Urgency == "" {
		n.Urgency = "normal"
	}

	switch n.Kind {
	case NotifierLog, NotifierDesktop:
	default:
		return invalid("notifier: unknown kind %q", n.Kind)
	}

	switch n.Urgency {
	case "low", "normal", "critical":
	default:
		return invalid("notifier: unknown urgency %q", n.Urgency)
	}

	return nil
}

func validateMessaging(cfg *Config) error {
	m := &cfg.Messaging
	if m.Kind == "" {
		m.Kind = MessagingLog
	}

	if m.EmailSubject == "" {
		m.EmailSubject = DefaultEmailSubject
	}

	if m.Timeout <= 0 {
		m.Timeout = DefaultTimeout
	}

	if m.RetryCount < 0 {
		return invalid("messaging: retry_count cannot be negative")
	}

	switch m.Kind {
	case MessagingLog:
		return nil
	case MessagingGateway:
	default:
		return invalid("messaging: unknown kind %q", m.Kind)
	}

	for name, endpoint := range map[string]string{
		"sms_endpoint":      m.SMSEndpoint,
		"email_endpoint":    m.EmailEndpoint,
		"whatsapp_endpoint": m.WhatsAppEndpoint,
	} {
		if endpoint == "" {
			continue
		}

		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return invalid("messaging: %s: %v", name, err)
		}
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
