package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/metrics"
	"github.com/xvierd/focusguard/internal/ports"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// noticeBacklog bounds the notifications waiting for delivery.
const noticeBacklog = 16

// pomodoroRecorder receives completed focus sessions.
type pomodoroRecorder interface {
	RecordPomodoroCompleted(ctx context.Context, focusSeconds int) error
}

// Coordinator owns the timer state. All state changes happen on the
// goroutine running Run; the exported methods post requests to it and wait
// for the answer.
type Coordinator struct {
	store    ports.KeyValueStore
	ticks    ports.TickSource
	stats    pomodoroRecorder
	notifier ports.Notifier
	metrics  metrics.Recorder
	log      *slog.Logger
	now      func() time.Time

	events  chan func(ctx context.Context)
	notices chan domain.Notification
	done    chan struct{}

	// owned by the loop
	state      domain.TimerState
	generation uint64
	cancelTick chan struct{}
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithClock overrides the clock used for log and event timestamps.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func WithNotifier(n ports.Notifier) CoordinatorOption {
	return func(c *Coordinator) { c.notifier = n }
}

func WithMetrics(m metrics.Recorder) CoordinatorOption {
	return func(c *Coordinator) { c.metrics = m }
}

func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.log = l }
}

// NewCoordinator creates a coordinator. It does nothing until Run is called.
func NewCoordinator(store ports.KeyValueStore, ticks ports.TickSource, stats pomodoroRecorder, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:   store,
		ticks:   ticks,
		stats:   stats,
		metrics: metrics.NoopRecorder{},
		log:     slog.Default(),
		now:     time.Now,
		events:  make(chan func(ctx context.Context)),
		notices: make(chan domain.Notification, noticeBacklog),
		done:    make(chan struct{}),
		state:   domain.NewTimerState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loads the stored durations and processes requests until ctx is
// cancelled. It must be called exactly once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)

	if c.notifier != nil {
		go c.deliverNotices(ctx)
	}
	c.loadDurations(ctx)
	c.state.TimeRemaining = c.state.FocusDuration
	c.log.Info("Timer coordinator ready",
		logfields.Remaining(c.state.TimeRemaining),
		slog.Int("break_s", c.state.BreakDuration))

	for {
		select {
		case <-ctx.Done():
			c.stopTicking()
			return nil
		case fn := <-c.events:
			fn(ctx)
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (c *Coordinator) do(ctx context.Context, fn func(ctx context.Context)) error {
	finished := make(chan struct{})
	req := func(loopCtx context.Context) {
		defer close(finished)
		fn(loopCtx)
	}

	select {
	case c.events <- req:
	case <-c.done:
		return domain.ErrCoordinatorStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// A queued request always runs, so only the loop can end the wait.
	select {
	case <-finished:
		return nil
	case <-c.done:
		return domain.ErrCoordinatorStopped
	}
}

// Start begins a focus countdown. It reports false when one is already
// running.
func (c *Coordinator) Start(ctx context.Context) (bool, error) {
	var started bool
	err := c.do(ctx, func(context.Context) { started = c.start() })
	return started, err
}

// Stop halts the countdown, keeping the remaining time. It always succeeds.
func (c *Coordinator) Stop(ctx context.Context) (bool, error) {
	err := c.do(ctx, func(context.Context) { c.stop() })
	return err == nil, err
}

// Reset stops the countdown and rewinds to a full focus phase. It returns
// the new remaining time in seconds.
func (c *Coordinator) Reset(ctx context.Context) (int, error) {
	var remaining int
	err := c.do(ctx, func(context.Context) {
		c.stop()
		c.state.Reset()
		remaining = c.state.TimeRemaining
		c.log.Info("Timer reset", logfields.Remaining(remaining))
	})
	return remaining, err
}

// State returns a snapshot of the timer.
func (c *Coordinator) State(ctx context.Context) (domain.TimerState, error) {
	var state domain.TimerState
	err := c.do(ctx, func(context.Context) { state = c.state })
	return state, err
}

// BlockingActive reports whether a focus countdown is running.
func (c *Coordinator) BlockingActive(ctx context.Context) (bool, error) {
	var active bool
	err := c.do(ctx, func(context.Context) { active = c.state.BlockingActive() })
	return active, err
}

// ReloadSettings re-reads the durations. The remaining time of the current
// countdown is not changed; new durations apply from the next phase or
// reset.
func (c *Coordinator) ReloadSettings(ctx context.Context) error {
	return c.do(ctx, func(ctx context.Context) { c.loadDurations(ctx) })
}

func (c *Coordinator) start() bool {
	from := c.state.Phase()
	if !c.state.Start() {
		return false
	}
	c.startTicking()
	c.transitioned(from)
	c.notify(domain.FocusStartedNotification())
	c.log.Info("Focus session started", logfields.Remaining(c.state.TimeRemaining))
	return true
}

func (c *Coordinator) stop() {
	from := c.state.Phase()
	wasRunning := c.state.Stop()
	c.stopTicking()
	if !wasRunning {
		return
	}
	c.transitioned(from)
	c.notify(domain.TimerStoppedNotification())
	c.log.Info("Timer stopped", logfields.Remaining(c.state.TimeRemaining))
}

func (c *Coordinator) handleTick(ctx context.Context, gen uint64) {
	if gen != c.generation || !c.state.IsRunning {
		return
	}

	from := c.state.Phase()
	switch c.state.Tick() {
	case domain.TransitionFocusComplete:
		c.transitioned(from)
		if err := c.stats.RecordPomodoroCompleted(ctx, c.state.FocusDuration); err != nil {
			c.log.Warn("Failed to record completed session", logfields.Error(err))
		}
		c.notify(domain.FocusCompleteNotification())
		c.log.Info("Focus session complete", logfields.Remaining(c.state.TimeRemaining))

	case domain.TransitionBreakComplete:
		c.stopTicking()
		c.transitioned(from)
		c.notify(domain.BreakOverNotification())
		c.log.Info("Break over")
	}
}

// startTicking replaces any running countdown with a new generation.
func (c *Coordinator) startTicking() {
	c.stopTicking()

	c.generation++
	gen := c.generation
	cancel := make(chan struct{})
	c.cancelTick = cancel

	err := c.ticks.Start(TickInterval, func() {
		select {
		case c.events <- func(ctx context.Context) { c.handleTick(ctx, gen) }:
		case <-cancel:
		case <-c.done:
		}
	})
	if err != nil {
		c.log.Error("Failed to schedule countdown", logfields.Error(err))
	}
}

func (c *Coordinator) stopTicking() {
	if c.cancelTick == nil {
		return
	}
	close(c.cancelTick)
	c.cancelTick = nil
	if err := c.ticks.Stop(); err != nil {
		c.log.Debug("Failed to cancel countdown", logfields.Error(err))
	}
}

func (c *Coordinator) loadDurations(ctx context.Context) {
	focus := c.readMinutes(ctx, domain.KeyFocusDuration, domain.DefaultFocusMinutes)
	brk := c.readMinutes(ctx, domain.KeyBreakDuration, domain.DefaultBreakMinutes)
	c.state.SetDurations(focus*60, brk*60)
}

// readMinutes treats unreadable, absent and zero values alike.
func (c *Coordinator) readMinutes(ctx context.Context, key string, fallback int) int {
	var minutes int
	if err := c.store.Get(ctx, key, &minutes); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Debug("Using default duration", logfields.Key(key), logfields.Error(err))
		}
		return fallback
	}
	if minutes <= 0 {
		return fallback
	}
	return minutes
}

func (c *Coordinator) transitioned(from domain.Phase) {
	to := c.state.Phase()
	c.metrics.IncTransition(string(from), string(to))
	c.metrics.SetTimerRunning(c.state.IsRunning)
	c.log.Debug("Timer phase changed", logfields.Phase(string(to)), slog.Time("at", c.now()))
}

// notify queues n for delivery off the loop. A full backlog drops n.
func (c *Coordinator) notify(n domain.Notification) {
	if c.notifier == nil {
		return
	}
	select {
	case c.notices <- n:
	default:
		c.log.Debug("Notification dropped", slog.String("title", n.Title), slog.String("reason", "backlog full"))
	}
}

// deliverNotices sends queued notifications in order until ctx is done.
func (c *Coordinator) deliverNotices(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-c.notices:
			if err := c.notifier.Notify(ctx, n); err != nil {
				c.log.Debug("Notification dropped", slog.String("title", n.Title), logfields.Error(err))
			}
		}
	}
}
