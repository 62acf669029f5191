package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/adapters/tray"
	"github.com/xvierd/focusguard/internal/adapters/tui"
	"github.com/xvierd/focusguard/internal/logfields"
)

// popupCmd opens the interactive timer view.
var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Open the interactive timer",
	Long: `Open the timer popup: start, pause and reset the countdown and toggle
greyscale mode. The daemon must be running.`,
	RunE: runPopup,
}

// trayCmd shows the countdown in the system tray.
var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Show the timer in the system tray",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := setupSignalHandler(cmd.Context())
		defer stop()
		return tray.New(app.client, tray.WithLogger(app.log)).Run(ctx)
	},
}

// runPopup launches the bubbletea popup against the daemon.
func runPopup(cmd *cobra.Command, args []string) error {
	ctx, stop := setupSignalHandler(cmd.Context())
	defer stop()

	if err := app.client.Ping(ctx); err != nil {
		return daemonError(err)
	}

	greyscale := false
	if err := openStore(ctx); err != nil {
		app.log.Debug("Settings unavailable for popup", logfields.Error(err))
	} else if settings, err := app.settings.Load(ctx); err == nil {
		greyscale = settings.GreyscaleMode
	}
	return tui.Run(ctx, app.client, greyscale)
}
