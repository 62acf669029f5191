package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Tell whether a URL would be blocked",
	Long: `Match a URL against the blocklist and report whether it would be blocked
right now. Nothing is counted or redirected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := openStore(ctx); err != nil {
			return err
		}
		settings, err := app.settings.Load(ctx)
		if err != nil {
			return err
		}

		host, err := domain.HostFromURL(args[0])
		if err != nil {
			return fmt.Errorf("cannot parse %q: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		site, listed := settings.BlockedSites.Match(host)
		if !listed {
			fmt.Fprintf(out, "✅ %s is not on the blocklist\n", host)
			return nil
		}

		state, err := app.client.TimerState(ctx)
		if err != nil {
			fmt.Fprintf(out, "🛡️ %s matches %q (daemon not running, so nothing is blocked)\n", host, site)
			return nil
		}
		if state.BlockingActive() {
			fmt.Fprintf(out, "⛔ %s is blocked by %q\n", host, site)
		} else {
			fmt.Fprintf(out, "🛡️ %s matches %q and will be blocked during focus time\n", host, site)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
