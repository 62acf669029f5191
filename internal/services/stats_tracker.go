package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/metrics"
	"github.com/xvierd/focusguard/internal/ports"
)

// StatsTracker maintains the persisted usage counters.
type StatsTracker struct {
	store       ports.KeyValueStore
	broadcaster ports.Broadcaster
	now         func() time.Time
	metrics     metrics.Recorder
	log         *slog.Logger

	// serializes read-modify-write cycles on the stats key
	mu sync.Mutex
}

// StatsOption configures a StatsTracker.
type StatsOption func(*StatsTracker)

// WithStatsClock overrides the clock used for streak dates.
func WithStatsClock(now func() time.Time) StatsOption {
	return func(t *StatsTracker) { t.now = now }
}

func WithStatsMetrics(m metrics.Recorder) StatsOption {
	return func(t *StatsTracker) { t.metrics = m }
}

func WithStatsLogger(l *slog.Logger) StatsOption {
	return func(t *StatsTracker) { t.log = l }
}

// NewStatsTracker creates a tracker. broadcaster may be nil.
func NewStatsTracker(store ports.KeyValueStore, broadcaster ports.Broadcaster, opts ...StatsOption) *StatsTracker {
	t := &StatsTracker{
		store:       store,
		broadcaster: broadcaster,
		now:         time.Now,
		metrics:     metrics.NoopRecorder{},
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load returns the stored counters, or zero counters when none are stored.
func (t *StatsTracker) Load(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	if err := t.store.Get(ctx, domain.KeyStats, &stats); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Stats{}, nil
		}
		return domain.Stats{}, fmt.Errorf("failed to load stats: %w", err)
	}
	return stats, nil
}

// RecordPomodoroCompleted counts a finished focus session lasting
// focusSeconds.
func (t *StatsTracker) RecordPomodoroCompleted(ctx context.Context, focusSeconds int) error {
	now := t.now()
	if err := t.update(ctx, func(s *domain.Stats) { s.RecordPomodoro(now, focusSeconds) }); err != nil {
		return err
	}
	t.metrics.IncPomodoroCompleted()
	return nil
}

// RecordBlockedAttempt counts a blocked navigation.
func (t *StatsTracker) RecordBlockedAttempt(ctx context.Context) error {
	now := t.now()
	if err := t.update(ctx, func(s *domain.Stats) { s.RecordBlock(now) }); err != nil {
		return err
	}
	t.metrics.IncBlockedAttempt()
	return nil
}

// Reset zeroes the counters. Settings and the blocklist are untouched.
func (t *StatsTracker) Reset(ctx context.Context) error {
	return t.update(ctx, func(s *domain.Stats) { s.Reset() })
}

func (t *StatsTracker) update(ctx context.Context, mutate func(*domain.Stats)) error {
	t.mu.Lock()
	stats, err := t.Load(ctx)
	if err != nil {
		// unreadable stats start over rather than blocking every future update
		t.log.Warn("Stats unreadable, starting from zero", logfields.Error(err))
		stats = domain.Stats{}
	}
	mutate(&stats)
	err = t.store.Set(ctx, domain.KeyStats, stats)
	t.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	t.broadcast(ctx)
	return nil
}

func (t *StatsTracker) broadcast(ctx context.Context) {
	if t.broadcaster == nil {
		return
	}
	ev := domain.Event{Action: domain.ActionStatsUpdated, At: t.now()}
	if err := t.broadcaster.Broadcast(ctx, ev); err != nil {
		t.log.Debug("No listener for stats update", logfields.Error(err))
	}
}
