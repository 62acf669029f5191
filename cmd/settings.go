package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/methodology"
)

var (
	focusMinutes int
	breakMinutes int
	presetName   string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change timer settings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeServices(); err != nil {
			return err
		}
		return openStore(cmd.Context())
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := app.settings.Load(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(settings)
		}
		greyscale := "off"
		if settings.GreyscaleMode {
			greyscale = "on"
		}
		preset := "Custom"
		if mode, ok := methodology.Match(settings.FocusDuration, settings.BreakDuration); ok {
			preset = mode.Name().Label()
		}
		fmt.Fprintf(out, "  Preset:    %s\n", preset)
		fmt.Fprintf(out, "  Focus:     %s\n", formatMinutes(settings.FocusDuration))
		fmt.Fprintf(out, "  Break:     %s\n", formatMinutes(settings.BreakDuration))
		fmt.Fprintf(out, "  Greyscale: %s\n", greyscale)
		fmt.Fprintf(out, "  Blocked:   %d sites\n", len(settings.BlockedSites))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change focus and break durations",
	Long: `Change the focus (1-60) and break (1-30) durations in minutes. A running
daemon picks them up at the next phase or reset.

Presets:
  pomodoro   25m focus, 5m break
  deepwork   50m focus, 10m break
  maketime   1h focus, 15m break

--focus and --break override the preset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		current, err := app.settings.Load(ctx)
		if err != nil {
			return err
		}
		focus, brk := current.FocusDuration, current.BreakDuration
		if presetName != "" {
			m, err := domain.ValidateMethodology(presetName)
			if err != nil {
				return err
			}
			mode := methodology.ForMethodology(m)
			focus, brk = mode.FocusMinutes(), mode.BreakMinutes()
		}
		if cmd.Flags().Changed("focus") {
			focus = focusMinutes
		}
		if cmd.Flags().Changed("break") {
			brk = breakMinutes
		}

		if err := app.settings.UpdateDurations(ctx, focus, brk); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Focus %s, break %s\n", formatMinutes(focus), formatMinutes(brk))

		if _, err := app.client.UpdateSettings(ctx); err != nil {
			app.log.Debug("Daemon not notified of new settings", logfields.Error(err))
		}
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().IntVarP(&focusMinutes, "focus", "f", 0, "Focus duration in minutes (1-60)")
	settingsSetCmd.Flags().IntVarP(&breakMinutes, "break", "b", 0, "Break duration in minutes (1-30)")
	settingsSetCmd.Flags().StringVarP(&presetName, "preset", "p", "", "Apply a preset: pomodoro, deepwork or maketime")
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
