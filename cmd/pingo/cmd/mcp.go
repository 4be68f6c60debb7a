package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pingo/internal/logger"
	"github.com/oshokin/pingo/internal/service/client"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the monitor to AI agents over MCP (stdio)",
	Long: `Starts a Model Context Protocol server on stdin/stdout.

Tools: list_alarms, run_tick, set_alarm_enabled, nearest_alarms.
Logs are written to stderr so they never corrupt the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger.SetLogger(logger.NewWithSink(nil, os.Stderr))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return client.ServeMCP(ctx, &options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(mcpCmd)
}
