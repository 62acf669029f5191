package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xvierd/focusguard/internal/config"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.SaveTo(path, config.DefaultConfig()); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	return path
}

func TestSetConfigValue(t *testing.T) {
	t.Run("string value", func(t *testing.T) {
		path := writeTestConfig(t)
		if err := setConfigValue(path, "log.level", "debug"); err != nil {
			t.Fatalf("setConfigValue() error: %v", err)
		}
		cfg, err := config.LoadFrom(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
		}
	})

	t.Run("bool value", func(t *testing.T) {
		path := writeTestConfig(t)
		if err := setConfigValue(path, "mcp.enabled", "false"); err != nil {
			t.Fatalf("setConfigValue() error: %v", err)
		}
		cfg, err := config.LoadFrom(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.MCP.Enabled {
			t.Error("mcp.enabled should be false")
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		err := setConfigValue(writeTestConfig(t), "daemon.colour", "blue")
		if err == nil || !strings.Contains(err.Error(), "unknown key") {
			t.Errorf("expected unknown key error, got %v", err)
		}
	})

	t.Run("bad bool", func(t *testing.T) {
		if err := setConfigValue(writeTestConfig(t), "notifications.sound", "loud"); err == nil {
			t.Error("expected an error for a non-bool value")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		if err := setConfigValue(writeTestConfig(t), "daemon.shutdown_timeout", "soon"); err == nil {
			t.Error("expected an error for a non-duration value")
		}
	})

	t.Run("invalid result is rolled back", func(t *testing.T) {
		path := writeTestConfig(t)
		if err := setConfigValue(path, "store.backend", "postgres"); err == nil {
			t.Fatal("expected the backend to be rejected")
		}
		cfg, err := config.LoadFrom(path)
		if err != nil {
			t.Fatalf("config should still load after rollback: %v", err)
		}
		if cfg.Store.Backend != config.BackendSQLite {
			t.Errorf("store.backend = %q, want %q", cfg.Store.Backend, config.BackendSQLite)
		}
	})
}
