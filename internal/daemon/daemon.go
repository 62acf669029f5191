// Package daemon wires the timer, blocker, greyscale applier and statistics
// behind the HTTP API and the optional blocking proxy.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/xvierd/focusguard/internal/adapters/broadcast"
	"github.com/xvierd/focusguard/internal/adapters/httpapi"
	"github.com/xvierd/focusguard/internal/adapters/notification"
	"github.com/xvierd/focusguard/internal/adapters/pages"
	"github.com/xvierd/focusguard/internal/adapters/proxy"
	"github.com/xvierd/focusguard/internal/adapters/ticker"
	"github.com/xvierd/focusguard/internal/config"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/metrics"
	"github.com/xvierd/focusguard/internal/ports"
	"github.com/xvierd/focusguard/internal/services"
	"golang.org/x/sync/errgroup"
)

// Options are the collaborators a Daemon is built from. Only Config and
// Store are required.
type Options struct {
	Config *config.Config
	Store  ports.KeyValueStore

	// Watcher reports store changes made by other processes.
	Watcher ports.ChangeWatcher
	// Remote receives broadcasts in addition to the local event stream.
	Remote ports.Broadcaster

	// Ticks defaults to a gocron scheduler.
	Ticks ports.TickSource
	// Notifier defaults to desktop notifications per Config.Notifications.
	Notifier ports.Notifier
	// Registry defaults to a fresh Prometheus registry.
	Registry *prom.Registry
	Logger   *slog.Logger
}

// Daemon is one assembled focusguard background process.
type Daemon struct {
	cfg     *config.Config
	log     *slog.Logger
	watcher ports.ChangeWatcher
	closers []func() error

	Coordinator *services.Coordinator
	Blocker     *services.Blocker
	Greyscale   *services.GreyscaleApplier
	Stats       *services.StatsTracker
	Settings    *services.SettingsService
	Router      *services.Router
	Pages       *pages.Registry
	Events      *broadcast.Hub
	HTTP        *httpapi.Server
	Proxy       *proxy.Proxy
}

// New assembles a daemon and seeds default settings into the store.
func New(ctx context.Context, opts Options) (*Daemon, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	d := &Daemon{cfg: cfg, log: log, watcher: opts.Watcher}

	d.Settings = services.NewSettingsService(opts.Store)
	seeded, err := d.Settings.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	if seeded {
		log.Info("Default settings written")
	}

	reg := opts.Registry
	if reg == nil {
		reg = prom.NewRegistry()
	}
	rec := metrics.NewPrometheusRecorder(reg)

	ticks := opts.Ticks
	if ticks == nil {
		sched, err := ticker.NewScheduler()
		if err != nil {
			return nil, err
		}
		ticks = sched
		d.closers = append(d.closers, sched.Shutdown)
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notification.New(&cfg.Notifications)
	}

	d.Events = broadcast.NewHub()
	var broadcaster ports.Broadcaster = d.Events
	if opts.Remote != nil {
		broadcaster = broadcast.Fanout{d.Events, opts.Remote}
	}

	d.Stats = services.NewStatsTracker(opts.Store, broadcaster,
		services.WithStatsMetrics(rec),
		services.WithStatsLogger(log))

	d.Coordinator = services.NewCoordinator(opts.Store, ticks, d.Stats,
		services.WithNotifier(notifier),
		services.WithMetrics(rec),
		services.WithLogger(log))

	d.Pages = pages.NewRegistry()
	d.Pages.OnChange = rec.SetConnectedPages

	d.Blocker = services.NewBlocker(opts.Store, d.Coordinator, d.Stats, cfg.BlockedPageURL(),
		services.WithRedirector(d.Pages),
		services.WithBlockerNotifier(notifier),
		services.WithBlockerMetrics(rec),
		services.WithBlockerLogger(log))

	d.Greyscale = services.NewGreyscaleApplier(opts.Store, d.Pages,
		services.WithGreyscaleMetrics(rec),
		services.WithGreyscaleLogger(log))

	d.Router = services.NewRouter(d.Coordinator, d.Greyscale, log)

	d.HTTP = httpapi.NewServer(cfg.Daemon.Listen, httpapi.Deps{
		Messages:  d.Router,
		Navigator: d.Blocker,
		Pages:     d.Pages,
		Loader:    d.Greyscale,
		Events:    d.Events,
		Metrics:   metrics.HTTPHandler(reg),
		Logger:    log,
	})

	if cfg.Daemon.ProxyListen != "" {
		d.Proxy = proxy.New(d.Blocker, proxy.WithLogger(log))
	}
	return d, nil
}

// Run listens on the configured address and serves until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.cfg.Daemon.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.cfg.Daemon.Listen, err)
	}
	return d.Serve(ctx, ln)
}

// Serve runs every component on ln until ctx is cancelled or one of them
// fails.
func (d *Daemon) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.Coordinator.Run(gctx) })
	g.Go(func() error {
		return d.HTTP.Serve(gctx, ln, time.Duration(d.cfg.Daemon.ShutdownTimeout))
	})
	if d.Proxy != nil {
		g.Go(func() error { return d.Proxy.ListenAndServe(gctx, d.cfg.Daemon.ProxyListen) })
	}
	if d.watcher != nil {
		g.Go(func() error {
			err := d.watcher.Watch(gctx, func(key string) { d.onStoreChange(gctx, key) })
			if err != nil {
				// The daemon still works without live reload.
				d.log.Warn("Store watcher stopped", logfields.Error(err))
			}
			return nil
		})
	}

	d.log.Info("FocusGuard daemon started",
		logfields.Addr(ln.Addr().String()),
		logfields.Backend(d.cfg.Store.Backend))
	return g.Wait()
}

// onStoreChange reloads durations when they (or an unknown key) changed.
func (d *Daemon) onStoreChange(ctx context.Context, key string) {
	if key == "" || key == domain.KeyStats {
		// Stats written by another process, such as a CLI reset. Only local
		// subscribers are told; the writer already published remotely.
		ev := domain.Event{Action: domain.ActionStatsUpdated, At: time.Now()}
		if err := d.Events.Broadcast(ctx, ev); err != nil {
			d.log.Debug("Stats refresh not broadcast", logfields.Error(err))
		}
	}
	switch key {
	case "", domain.KeyFocusDuration, domain.KeyBreakDuration:
	default:
		return
	}
	if err := d.Coordinator.ReloadSettings(ctx); err != nil {
		d.log.Debug("Settings reload skipped", logfields.Key(key), logfields.Error(err))
		return
	}
	d.log.Info("Settings reloaded", logfields.Key(key))
}

// Close releases resources the daemon created itself.
func (d *Daemon) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}
