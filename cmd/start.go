package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/adapters/client"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus session",
	Long: `Start the focus countdown. Blocked sites are redirected until the
focus period ends and the break begins.`,
	Aliases: []string{"resume"},
	RunE: func(cmd *cobra.Command, args []string) error {
		started, err := app.client.Start(cmd.Context())
		if err != nil {
			return daemonError(err)
		}
		if !started {
			fmt.Fprintln(cmd.OutOrStdout(), "⏱️  The timer is already running.")
			return nil
		}

		state, err := app.client.TimerState(cmd.Context())
		if err != nil {
			return daemonError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🎯 Focus started: %s remaining\n", formatClock(state.TimeRemaining))
		return nil
	},
}

// daemonError names the address that was tried when no daemon answered.
func daemonError(err error) error {
	if errors.Is(err, client.ErrDaemonUnreachable) {
		return fmt.Errorf("%w [%s]", err, app.client.BaseURL())
	}
	return err
}
