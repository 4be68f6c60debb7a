package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/pingo/internal/service/client"
)

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run one proximity check now",
	Long: `Asks the daemon to read the current position and evaluate every active
alarm immediately. When a check is already running, the result of that check
is reported instead of starting another one.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withRunner(func(ctx context.Context, r *client.Runner) error {
			return r.Tick(ctx)
		})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(tickCmd)
}
