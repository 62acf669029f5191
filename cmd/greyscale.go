package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/adapters/client"
)

var greyscaleCmd = &cobra.Command{
	Use:       "greyscale on|off",
	Short:     "Turn greyscale mode on or off",
	Long:      `Apply or remove the greyscale filter on every connected page. The choice is remembered for pages opened later.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		enabled := args[0] == "on"

		ok, err := app.client.ToggleGreyscale(ctx, enabled)
		switch {
		case errors.Is(err, client.ErrDaemonUnreachable):
			// Without a daemon only the stored flag can change.
			if err := openStore(ctx); err != nil {
				return err
			}
			if err := app.settings.SetGreyscale(ctx, enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🎨 Greyscale %s (applies when the daemon starts)\n", args[0])
			return nil
		case err != nil:
			return err
		case !ok:
			return fmt.Errorf("daemon could not change greyscale mode")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🎨 Greyscale %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(greyscaleCmd)
}
