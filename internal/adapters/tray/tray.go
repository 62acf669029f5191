// Package tray shows the countdown in the system tray with start, stop and
// reset entries.
package tray

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/systray"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/ports"
)

const (
	defaultRefresh = time.Second
	requestTimeout = 3 * time.Second
)

// Option configures a Manager.
type Option func(*Manager)

// WithRefresh sets how often the tray polls the daemon.
func WithRefresh(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.refresh = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager owns the tray icon and its menu.
type Manager struct {
	handler ports.MessageHandler
	refresh time.Duration
	log     *slog.Logger

	status  *systray.MenuItem
	start   *systray.MenuItem
	stop    *systray.MenuItem
	reset   *systray.MenuItem
	quit    *systray.MenuItem
	last    View
	hasLast bool
}

// New creates a tray manager that drives the timer through handler.
func New(handler ports.MessageHandler, opts ...Option) *Manager {
	m := &Manager{
		handler: handler,
		refresh: defaultRefresh,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run blocks until the user picks Quit or ctx is cancelled. It must be
// called from the main goroutine.
func (m *Manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	systray.Run(func() { m.onReady(ctx, cancel) }, cancel)
	return nil
}

func (m *Manager) onReady(ctx context.Context, cancel context.CancelFunc) {
	systray.SetTitle("🛡️")
	systray.SetTooltip("FocusGuard")

	m.status = systray.AddMenuItem("Connecting...", "")
	m.status.Disable()
	systray.AddSeparator()
	m.start = systray.AddMenuItem("Start focus", "Start the focus timer")
	m.stop = systray.AddMenuItem("Stop", "Pause the timer")
	m.reset = systray.AddMenuItem("Reset", "Reset to a full focus session")
	systray.AddSeparator()
	m.quit = systray.AddMenuItem("Quit", "Close the tray")

	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	go m.loop(ctx, cancel)
}

func (m *Manager) loop(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(m.refresh)
	defer ticker.Stop()

	m.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		case <-m.start.ClickedCh:
			m.send(ctx, domain.ActionStartTimer)
		case <-m.stop.ClickedCh:
			m.send(ctx, domain.ActionStopTimer)
		case <-m.reset.ClickedCh:
			m.send(ctx, domain.ActionResetTimer)
		case <-m.quit.ClickedCh:
			cancel()
			return
		}
	}
}

func (m *Manager) send(ctx context.Context, action domain.Action) {
	rctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	resp := m.handler.Handle(rctx, domain.Message{Action: action})
	if !resp.Success {
		m.log.Debug("Tray action rejected", logfields.Action(string(action)))
	}
	m.poll(ctx)
}

func (m *Manager) poll(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	resp := m.handler.Handle(rctx, domain.Message{Action: domain.ActionGetTimerState})
	m.apply(Render(resp.State))
}

func (m *Manager) apply(v View) {
	if m.hasLast && v == m.last {
		return
	}
	m.last, m.hasLast = v, true

	systray.SetTitle(v.Title)
	systray.SetTooltip(v.Tooltip)
	m.status.SetTitle(v.Status)
	setEnabled(m.start, v.CanStart)
	setEnabled(m.stop, v.CanStop)
	setEnabled(m.reset, v.CanReset)
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

// View is what the tray shows for one timer state.
type View struct {
	Title    string
	Tooltip  string
	Status   string
	CanStart bool
	CanStop  bool
	CanReset bool
}

// Render maps a timer state to tray labels. A nil state means the daemon
// could not be reached.
func Render(s *domain.TimerState) View {
	if s == nil {
		return View{
			Title:   "🛡️ --:--",
			Tooltip: "FocusGuard: daemon unreachable",
			Status:  "Daemon unreachable",
		}
	}

	clock := fmt.Sprintf("%02d:%02d", max(s.TimeRemaining, 0)/60, max(s.TimeRemaining, 0)%60)
	v := View{
		CanStart: !s.IsRunning,
		CanStop:  s.IsRunning,
		CanReset: true,
	}
	switch s.Phase() {
	case domain.PhaseFocusing:
		v.Title = "🎯 " + clock
		v.Status = "Focusing, sites blocked"
	case domain.PhaseOnBreak:
		v.Title = "☕ " + clock
		v.Status = "On break"
	default:
		v.Title = "🛡️"
		v.Status = "Idle, " + clock + " left"
	}
	v.Tooltip = "FocusGuard: " + v.Status
	return v
}
