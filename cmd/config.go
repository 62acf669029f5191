package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xvierd/focusguard/internal/config"
)

// configKeys are the keys "config set" accepts, with the kind of value each
// takes.
var configKeys = map[string]string{
	"daemon.listen":           "string",
	"daemon.proxy_listen":     "string",
	"daemon.base_url":         "string",
	"daemon.shutdown_timeout": "duration",
	"store.backend":           "string",
	"store.data_dir":          "string",
	"nats.url":                "string",
	"nats.bucket":             "string",
	"nats.subject":            "string",
	"notifications.enabled":   "bool",
	"notifications.sound":     "bool",
	"mcp.enabled":             "bool",
	"log.level":               "string",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the daemon configuration",
	Long:  `Print the effective configuration (file, .env and FOCUSGUARD_* variables combined).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		printConfig(cmd, path, app.config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		if err := setConfigValue(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

// setConfigValue writes key to the file at path, then reloads the file so an
// invalid result is reported and rolled back.
func setConfigValue(path, key, raw string) error {
	kind, ok := configKeys[key]
	if !ok {
		known := make([]string, 0, len(configKeys))
		for k := range configKeys {
			known = append(known, k)
		}
		sort.Strings(known)
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(known, ", "))
	}

	var value any = raw
	switch kind {
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		value = b
	case "duration":
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s expects a duration like 5s: %w", key, err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	previous := v.Get(key)
	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if _, err := config.LoadFrom(path); err != nil {
		v.Set(key, previous)
		_ = v.WriteConfigAs(path)
		return fmt.Errorf("rejected %s: %w", key, err)
	}
	return nil
}

func printConfig(cmd *cobra.Command, path string, cfg *config.Config) {
	out := cmd.OutOrStdout()
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	proxy := cfg.Daemon.ProxyListen
	if proxy == "" {
		proxy = "disabled"
	}

	fmt.Fprintf(out, "Config file:     %s\n\n", path)
	fmt.Fprintf(out, "  Daemon:        %s (%s)\n", cfg.Daemon.Listen, cfg.DaemonURL())
	fmt.Fprintf(out, "  Proxy:         %s\n", proxy)
	fmt.Fprintf(out, "  Store:         %s in %s\n", cfg.Store.Backend, cfg.Store.DataDir)
	if cfg.Store.Backend == config.BackendNATS {
		fmt.Fprintf(out, "  NATS:          %s bucket=%s subject=%s\n", cfg.NATS.URL, cfg.NATS.Bucket, cfg.NATS.Subject)
	}
	fmt.Fprintf(out, "  Notifications: %s (sound %s)\n", onOff(cfg.Notifications.Enabled), onOff(cfg.Notifications.Sound))
	fmt.Fprintf(out, "  MCP:           %s\n", onOff(cfg.MCP.Enabled))
	fmt.Fprintf(out, "  Log level:     %s\n", cfg.Log.Level)
}
