package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/adapters/tui"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the timer phase, the remaining time and whether blocking is active.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		state, err := app.client.TimerState(ctx)
		if err != nil {
			return daemonError(err)
		}

		greyscale := false
		if err := openStore(ctx); err == nil {
			if settings, err := app.settings.Load(ctx); err == nil {
				greyscale = settings.GreyscaleMode
			}
		} else {
			app.log.Debug("Settings unavailable for status", logfields.Error(err))
		}

		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), state, greyscale)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStatus(state, greyscale, 60))
		return nil
	},
}

// statusJSON is the --json shape of the status command.
type statusJSON struct {
	domain.TimerState
	Phase          domain.Phase `json:"phase"`
	BlockingActive bool         `json:"blockingActive"`
	GreyscaleMode  bool         `json:"greyscaleMode"`
	Clock          string       `json:"clock"`
}

// outputStatusJSON writes the status in JSON format
func outputStatusJSON(w io.Writer, state domain.TimerState, greyscale bool) error {
	out := statusJSON{
		TimerState:     state,
		Phase:          state.Phase(),
		BlockingActive: state.BlockingActive(),
		GreyscaleMode:  greyscale,
		Clock:          formatClock(state.TimeRemaining),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
