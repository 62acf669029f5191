package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:     "stop",
	Short:   "Pause the timer",
	Long:    `Stop the countdown, keeping the remaining time. Blocking ends immediately.`,
	Aliases: []string{"pause"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.client.Stop(cmd.Context()); err != nil {
			return daemonError(err)
		}

		state, err := app.client.TimerState(cmd.Context())
		if err != nil {
			return daemonError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "⏸️  Timer stopped with %s left.\n", formatClock(state.TimeRemaining))
		return nil
	},
}
