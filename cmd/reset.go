package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the timer to a full focus session",
	RunE: func(cmd *cobra.Command, args []string) error {
		remaining, err := app.client.Reset(cmd.Context())
		if err != nil {
			return daemonError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔄 Timer reset to %s.\n", formatClock(remaining))
		return nil
	},
}
