package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/pingo/internal/service/client"
)

var (
	// alarmFlags collects the fields of the add command.
	alarmFlags client.AlarmFlags

	listCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every alarm",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withRunner(func(ctx context.Context, r *client.Runner) error {
				return r.List(ctx)
			})
		},
	}

	addCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Create an alarm, or replace one with --id",
		Example: `  pingo add Pharmacy --lat -22.9 --lon -43.2 --radius 150 --days mon,fri --reminder "buy vitamins"
  pingo add Home --lat -23.55 --lon -46.63 --days all --message "whatsapp:5511999990000:almost home"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			alarmFlags.Name = args[0]

			a, err := client.BuildAlarm(alarmFlags)
			if err != nil {
				return err
			}

			return withRunner(func(ctx context.Context, r *client.Runner) error {
				return r.Add(ctx, a)
			})
		},
	}

	removeCmd = &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an alarm",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withRunner(func(ctx context.Context, r *client.Runner) error {
				return r.Remove(ctx, args[0])
			})
		},
	}

	enableCmd = &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withRunner(func(ctx context.Context, r *client.Runner) error {
				return r.SetEnabled(ctx, args[0], true)
			})
		},
	}

	disableCmd = &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable an alarm",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withRunner(func(ctx context.Context, r *client.Runner) error {
				return r.SetEnabled(ctx, args[0], false)
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := addCmd.Flags()
	flags.StringVar(&alarmFlags.ID, "id", "", "replace the alarm with this id")
	flags.Float64Var(&alarmFlags.Latitude, "lat", 0, "latitude of the geofence center")
	flags.Float64Var(&alarmFlags.Longitude, "lon", 0, "longitude of the geofence center")
	flags.Float64VarP(&alarmFlags.Radius, "radius", "r", 100, "geofence radius in meters") //nolint:mnd // Editor default.
	flags.StringVarP(&alarmFlags.Days, "days", "d", "all", "active weekdays, e.g. mon,wed,fri or all")
	flags.BoolVar(&alarmFlags.Repeat, "repeat", false, "fire again after the cooldown instead of once a day")
	flags.BoolVar(&alarmFlags.Disabled, "disabled", false, "store the alarm switched off")
	flags.StringVar(&alarmFlags.Reminder, "reminder", "", "reminder text shown when the alarm fires")
	flags.StringArrayVarP(&alarmFlags.Messages, "message", "m", nil, `message action "channel:target:text", repeatable`)

	addCmd.MarkFlagsMutuallyExclusive("reminder", "message")

	for _, required := range []string{"lat", "lon"} {
		if err := addCmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(listCmd, addCmd, removeCmd, enableCmd, disableCmd)
}
