// Package config provides configuration management for focusguard.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendYAML   = "yaml"
	BackendNATS   = "nats"
)

const defaultDataDir = "~/.focusguard"

// Config holds all configuration for focusguard.
type Config struct {
	Daemon        DaemonConfig       `mapstructure:"daemon"`
	Store         StoreConfig        `mapstructure:"store"`
	NATS          NATSConfig         `mapstructure:"nats"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Log           LogConfig          `mapstructure:"log"`
}

// DaemonConfig holds the background process settings.
type DaemonConfig struct {
	Listen          string   `mapstructure:"listen"`
	ProxyListen     string   `mapstructure:"proxy_listen"`
	BaseURL         string   `mapstructure:"base_url"`
	ShutdownTimeout Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects where settings and statistics live.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
}

// NATSConfig holds the JetStream key-value settings used by the nats backend.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Bucket  string `mapstructure:"bucket"`
	Subject string `mapstructure:"subject"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			Listen:          "127.0.0.1:7420",
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Store: StoreConfig{
			Backend: BackendSQLite,
			DataDir: defaultDataDir,
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Bucket:  "focusguard",
			Subject: "focusguard.events",
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from the default config file, creating it on
// first use.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath. A .env file in the
// working directory and FOCUSGUARD_* environment variables override the file.
func LoadFrom(configPath string) (*Config, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	_ = godotenv.Load()

	v := newViper(configPath)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Store.DataDir = dataDir
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	v.Set("daemon.listen", cfg.Daemon.Listen)
	v.Set("daemon.proxy_listen", cfg.Daemon.ProxyListen)
	v.Set("daemon.base_url", cfg.Daemon.BaseURL)
	v.Set("daemon.shutdown_timeout", cfg.Daemon.ShutdownTimeout.String())
	v.Set("store.backend", cfg.Store.Backend)
	v.Set("store.data_dir", cfg.Store.DataDir)
	v.Set("nats.url", cfg.NATS.URL)
	v.Set("nats.bucket", cfg.NATS.Bucket)
	v.Set("nats.subject", cfg.NATS.Subject)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("log.level", cfg.Log.Level)

	return v.WriteConfigAs(configPath)
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendYAML, BackendNATS:
	default:
		return fmt.Errorf("unknown store backend %q (want sqlite, yaml or nats)", c.Store.Backend)
	}
	if c.Daemon.Listen == "" {
		return fmt.Errorf("daemon.listen must not be empty")
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".focusguard", "config.toml"), nil
}

// GetDBPath returns the path to the SQLite database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Store.DataDir, "focusguard.db")
}

// GetYAMLPath returns the path to the YAML store file.
func GetYAMLPath(cfg *Config) string {
	return filepath.Join(cfg.Store.DataDir, "focusguard.yaml")
}

// DaemonURL is the base URL clients use to reach the daemon.
func (c *Config) DaemonURL() string {
	if c.Daemon.BaseURL != "" {
		return strings.TrimSuffix(c.Daemon.BaseURL, "/")
	}
	host, port, err := net.SplitHostPort(c.Daemon.Listen)
	if err != nil {
		return "http://" + c.Daemon.Listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// BlockedPageURL is where blocked navigations are sent.
func (c *Config) BlockedPageURL() string {
	return c.DaemonURL() + "/blocked"
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("FOCUSGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("daemon.listen", d.Daemon.Listen)
	v.SetDefault("daemon.proxy_listen", d.Daemon.ProxyListen)
	v.SetDefault("daemon.base_url", d.Daemon.BaseURL)
	v.SetDefault("daemon.shutdown_timeout", d.Daemon.ShutdownTimeout.String())
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.data_dir", d.Store.DataDir)
	v.SetDefault("nats.url", d.NATS.URL)
	v.SetDefault("nats.bucket", d.NATS.Bucket)
	v.SetDefault("nats.subject", d.NATS.Subject)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("log.level", d.Log.Level)
}

// expandHome resolves a leading "~" in dir.
func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}
