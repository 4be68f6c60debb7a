package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/oshokin/pingo/internal/api/grpc/proximity"
	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/logger"
	"github.com/oshokin/pingo/internal/metrics"
	"github.com/oshokin/pingo/internal/repository/alarms"
	"github.com/oshokin/pingo/internal/service/common"
	"github.com/oshokin/pingo/internal/service/dispatch"
	"github.com/oshokin/pingo/internal/service/location"
	"github.com/oshokin/pingo/internal/service/messaging"
	"github.com/oshokin/pingo/internal/service/notify"
)

// Options controls the pingo-monitor process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress overrides the gRPC listen address.
	ListenAddress string
	// MetricsAddress overrides the Prometheus listen address.
	MetricsAddress string
	// PollInterval overrides the tick period.
	PollInterval time.Duration
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
}

// readHeaderTimeout bounds slow metrics clients.
const readHeaderTimeout = 5 * time.Second

// Run starts the scheduler, the gRPC server and the optional metrics
// endpoint, and blocks until ctx is canceled or one of them fails.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "pingo-monitor")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyOverrides(cfg, opts)

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.AllowMultiple {
		if err = common.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	store, err := alarms.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open alarm store: %w", err)
	}

	defer func() {
		_ = store.Close()
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mon, err := build(cfg, store, metrics.New(registry))
	if err != nil {
		return err
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", cfg.Monitor.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Monitor.ListenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(proximity.LoggingInterceptor))
	proximity.RegisterProximityServiceServer(grpcServer, proximity.NewServer(NewService(mon, store)))

	logger.InfoKV(ctx, "Monitor listening",
		"listen_address", lis.Addr().String(),
		"store_backend", cfg.Store.Backend,
		"poll_interval", cfg.Monitor.PollInterval.String())

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return NewScheduler(mon, cfg.Monitor.PollInterval).Run(groupCtx)
	})

	group.Go(func() error {
		go func() {
			<-groupCtx.Done()
			logger.Info(ctx, "Shutting down gRPC server")
			grpcServer.GracefulStop()
		}()

		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if cfg.Monitor.MetricsAddress != "" {
		group.Go(func() error {
			return serveMetrics(groupCtx, cfg.Monitor.MetricsAddress, registry)
		})
	}

	err = group.Wait()

	logger.Info(ctx, "Monitor stopped")

	return err
}

// build wires the monitor from configuration.
func build(cfg *config.Config, store alarms.Repository, mt *metrics.Metrics) (*Monitor, error) {
	provider, err := location.New(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("location provider: %w", err)
	}

	notifier, err := notify.New(cfg.Notifier)
	if err != nil {
		return nil, fmt.Errorf("notifier: %w", err)
	}

	sender, err := messaging.New(cfg.Messaging)
	if err != nil {
		return nil, fmt.Errorf("message sender: %w", err)
	}

	zone, err := cfg.Monitor.TimeLocation()
	if err != nil {
		return nil, err
	}

	dispatcher := dispatch.New(notifier, sender, dispatch.WithMetrics(mt))

	return New(store, provider, dispatcher, WithTimeZone(zone), WithMetrics(mt)), nil
}

func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.ListenAddress != "" {
		cfg.Monitor.ListenAddress = opts.ListenAddress
	}

	if opts.MetricsAddress != "" {
		cfg.Monitor.MetricsAddress = opts.MetricsAddress
	}

	if opts.PollInterval > 0 {
		cfg.Monitor.PollInterval = opts.PollInterval
	}
}

func serveMetrics(ctx context.Context, address string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readHeaderTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	logger.InfoKV(ctx, "Metrics listening", "metrics_address", address)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}
