package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xvierd/focusguard/internal/adapters/client"
	"github.com/xvierd/focusguard/internal/adapters/natsbus"
	"github.com/xvierd/focusguard/internal/adapters/storage"
	"github.com/xvierd/focusguard/internal/config"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/ports"
	"github.com/xvierd/focusguard/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	log      *slog.Logger
	client   *client.Client
	store    ports.KeyValueStore
	watcher  ports.ChangeWatcher
	bus      *natsbus.Client
	settings *services.SettingsService
	stats    *services.StatsTracker
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices loads configuration, sets up logging and creates the
// daemon client. The store is opened on demand by openStore.
func initializeServices() error {
	var err error
	if configPath != "" {
		app.config, err = config.LoadFrom(configPath)
	} else {
		app.config, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.log = newLogger(app.config.Log.Level, verbose)
	slog.SetDefault(app.log)

	base := daemonURL
	if base == "" {
		base = app.config.DaemonURL()
	}
	app.client = client.New(base)
	return nil
}

func newLogger(level string, debug bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openStore opens the configured backend and the services that read it
// directly. Calling it again is a no-op.
func openStore(ctx context.Context) error {
	if app.store != nil {
		return nil
	}

	cfg := app.config
	switch cfg.Store.Backend {
	case config.BackendYAML:
		yamlStore, err := storage.NewYAML(config.GetYAMLPath(cfg))
		if err != nil {
			return fmt.Errorf("failed to open YAML store: %w", err)
		}
		app.store, app.watcher = yamlStore, yamlStore

	case config.BackendNATS:
		bus, err := natsbus.Connect(ctx, natsbus.Config{
			URL:     cfg.NATS.URL,
			Bucket:  cfg.NATS.Bucket,
			Subject: cfg.NATS.Subject,
		})
		if err != nil {
			return err
		}
		app.store, app.watcher, app.bus = bus, bus, bus

	default:
		path := config.GetDBPath(cfg)
		if err := os.MkdirAll(getDir(path), 0750); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		sqliteStore, err := storage.New(path)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		app.store = sqliteStore
	}
	app.log.Debug("Store opened", logfields.Backend(cfg.Store.Backend))

	app.settings = services.NewSettingsService(app.store)
	if _, err := app.settings.Initialize(ctx); err != nil {
		return err
	}

	// Stats changes made from the CLI reach other processes only over NATS.
	var broadcaster ports.Broadcaster
	if app.bus != nil {
		broadcaster = app.bus
	}
	app.stats = services.NewStatsTracker(app.store, broadcaster, services.WithStatsLogger(app.log))
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.store != nil {
		err := app.store.Close()
		app.store, app.watcher, app.bus = nil, nil, nil
		return err
	}
	return nil
}

// setupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
