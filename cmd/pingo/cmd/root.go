package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pingo/internal/config"
	"github.com/oshokin/pingo/internal/service/client"
	"github.com/oshokin/pingo/internal/version"
)

var (
	// options collects the connection flags shared by every subcommand.
	options client.Options

	// rootCmd represents the base command of the pingo CLI.
	rootCmd = &cobra.Command{
		Use:   "pingo",
		Short: "Manage location alarms of the PinGo monitor.",
		Long: `Command-line client of the pingo-monitor daemon.

Create, list, enable, disable and remove location alarms, run a proximity
check on demand, or expose the daemon to AI agents over MCP.
The daemon address is read from the configuration file unless --server is set.`,
		SilenceUsage: true,
	}
)

// Execute runs the pingo CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withRunner connects to the daemon and calls fn with a Runner printing to stdout.
func withRunner(fn func(ctx context.Context, r *client.Runner) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	conn, err := client.Connect(ctx, &options)
	if err != nil {
		return err
	}

	defer func() {
		_ = conn.Close()
	}()

	return fn(ctx, client.NewRunner(conn, os.Stdout))
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&options.ServerAddress, "server", "s", "", "monitor address, overrides the configuration file")
}
