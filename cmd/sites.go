package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/services"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage the blocklist",
	Long: `Manage the sites blocked during focus time. An entry blocks every host
that contains it, and every host it contains.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeServices(); err != nil {
			return err
		}
		return openStore(cmd.Context())
	},
}

var sitesAddCmd = &cobra.Command{
	Use:   "add <site>...",
	Short: "Block one or more sites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, raw := range args {
			site, err := app.settings.AddSite(cmd.Context(), raw)
			switch {
			case errors.Is(err, domain.ErrSiteExists):
				fmt.Fprintf(cmd.OutOrStdout(), "⚠️  %s is already blocked\n", domain.NormalizeSite(raw))
			case err != nil:
				return fmt.Errorf("failed to add %q: %w", raw, err)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "🛡️ Blocked %s\n", site)
			}
		}
		return nil
	},
}

var sitesRemoveCmd = &cobra.Command{
	Use:     "remove <site>",
	Aliases: []string{"rm"},
	Short:   "Unblock a site",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := app.settings.RemoveSite(cmd.Context(), args[0])
		var notFound *services.SiteNotFoundError
		if errors.As(err, &notFound) && len(notFound.Suggestions) > 1 {
			return fmt.Errorf("%w\n   other matches: %v", err, notFound.Suggestions[1:])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Unblocked %s\n", args[0])
		return nil
	},
}

var sitesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List blocked sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := app.settings.Load(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return json.NewEncoder(out).Encode(settings.BlockedSites)
		}
		if len(settings.BlockedSites) == 0 {
			fmt.Fprintln(out, "No sites blocked. Add one with \"focusguard sites add example.com\".")
			return nil
		}
		for _, site := range settings.BlockedSites {
			fmt.Fprintf(out, "  %s\n", site)
		}
		return nil
	},
}

func init() {
	sitesCmd.AddCommand(sitesAddCmd, sitesRemoveCmd, sitesListCmd)
	rootCmd.AddCommand(sitesCmd)
}
