package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusguard/internal/daemon"
)

var (
	listenAddr string
	proxyAddr  string
)

// daemonCmd runs the background process the popup and browser bridge talk to.
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the FocusGuard daemon",
	Long: `Run the timer, the navigation blocker and the greyscale applier in the
foreground. The HTTP API listens on daemon.listen; with --proxy (or
daemon.proxy_listen) a blocking forward proxy is started as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := setupSignalHandler(cmd.Context())
		defer stop()

		if listenAddr != "" {
			app.config.Daemon.Listen = listenAddr
		}
		if proxyAddr != "" {
			app.config.Daemon.ProxyListen = proxyAddr
		}

		if err := openStore(ctx); err != nil {
			return err
		}

		opts := daemon.Options{
			Config:  app.config,
			Store:   app.store,
			Watcher: app.watcher,
			Logger:  app.log,
		}
		if app.bus != nil {
			opts.Remote = app.bus
		}

		d, err := daemon.New(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to start daemon: %w", err)
		}
		defer func() { _ = d.Close() }()

		return d.Run(ctx)
	},
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "HTTP API address (overrides daemon.listen)")
	daemonCmd.Flags().StringVar(&proxyAddr, "proxy", "", "Blocking proxy address (overrides daemon.proxy_listen)")
}
