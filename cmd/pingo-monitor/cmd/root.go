package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/service/monitor"
	"github.com/oshokin/pingo/internal/version"
)

var (
	// options collects the flags of the daemon.
	options monitor.Options

	// rootCmd represents the base command for running the proximity monitor.
	rootCmd = &cobra.Command{
		Use:   "pingo-monitor [listen-address]",
		Short: "Watch the current position and fire location alarms.",
		Long: `Starts the proximity monitor daemon.

Every poll interval the daemon reads the current position, checks each enabled
alarm active today, and fires those whose geofence contains the position:
a local notification is shown and, for message alarms, SMS, e-mail and
WhatsApp messages are sent.

Alarms are kept in the configured store (JSON file, SQLite or Redis) and are
managed over gRPC with the pingo CLI.
Listen address can be provided as argument to override config (e.g., 127.0.0.1:50061).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if len(args) > 0 {
				options.ListenAddress = args[0]
			}

			return monitor.Run(ctx, &options)
		},
	}
)

// Execute runs the pingo-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&options.MetricsAddress, "metrics-address", "m", "", "expose Prometheus metrics on this address")
	flags.DurationVarP(&options.PollInterval, "interval", "i", 0, "override the poll interval")
	flags.BoolVar(&options.AllowMultiple, "allow-multiple", false, "skip the single-instance check")

	err := flags.MarkHidden("allow-multiple")
	if err != nil {
		panic(err)
	}
}
