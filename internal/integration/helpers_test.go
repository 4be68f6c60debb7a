package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/domain/geo"
	"github.com/oshokin/pingo/internal/service/monitor"
)

// here is the static position reported by the test daemons.
var here = geo.Coordinate{Latitude: -23.5505, Longitude: -46.6333}

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// writeConfig saves settings for a daemon listening on addr and returns their path.
func writeConfig(t *testing.T, addr string, store config.Store, metricsAddr string) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, config.Save(cfgPath, &config.Config{
		Store: store,
		Monitor: config.Monitor{
			// Long enough that only the startup tick runs on its own.
			PollInterval:   time.Hour,
			TimeZone:       "UTC",
			ListenAddress:  addr,
			MetricsAddress: metricsAddr,
			Timeout:        3 * time.Second,
		},
		Location: config.Location{
			Provider:  config.ProviderStatic,
			Latitude:  here.Latitude,
			Longitude: here.Longitude,
		},
		LogLevel: "warn",
	}))

	return cfgPath
}

// startMonitor runs the daemon in the background.
// The returned stop function cancels it and returns its exit error.
func startMonitor(t *testing.T, cfgPath string) (stop func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- monitor.Run(ctx, &monitor.Options{
			ConfigPath:    cfgPath,
			AllowMultiple: true,
		})
	}()

	// Wait briefly for the daemon to start listening and finish its first tick.
	time.Sleep(200 * time.Millisecond)

	return func() error {
		cancel()

		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("monitor did not stop")

			return nil
		}
	}
}
