package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xvierd/focusguard/internal/adapters/storage"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.KeyValueStore, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { store.Close() }
}

// fixedClock returns a clock frozen at the given local date.
func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.Local) }
}

// fakeTicks is a TickSource fired by hand.
type fakeTicks struct {
	mu     sync.Mutex
	fn     func()
	starts int
	stops  int
}

func (f *fakeTicks) Start(interval time.Duration, fn func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	f.starts++
	return nil
}

func (f *fakeTicks) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = nil
	f.stops++
	return nil
}

func (f *fakeTicks) current() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn
}

func (f *fakeTicks) active() bool {
	return f.current() != nil
}

// fire delivers n ticks, stopping early when the schedule is cancelled.
func (f *fakeTicks) fire(n int) {
	for i := 0; i < n; i++ {
		fn := f.current()
		if fn == nil {
			return
		}
		fn()
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) Notify(ctx context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, n.Title)
	return nil
}

func (r *recordingNotifier) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

// await returns the titles once at least n have arrived, or whatever
// arrived within a second.
func (r *recordingNotifier) await(n int) []string {
	deadline := time.Now().Add(time.Second)
	for {
		titles := r.all()
		if len(titles) >= n || time.Now().After(deadline) {
			return titles
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingBroadcaster) Broadcast(ctx context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type sentCommand struct {
	pageID string
	cmd    domain.PageCommand
}

// fakePages is a PageHost with a fixed page list.
type fakePages struct {
	mu      sync.Mutex
	pages   []domain.Page
	failing map[string]error
	sent    []sentCommand
}

func (f *fakePages) Pages(ctx context.Context) ([]domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Page(nil), f.pages...), nil
}

func (f *fakePages) Send(ctx context.Context, pageID string, cmd domain.PageCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing[pageID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentCommand{pageID, cmd})
	return nil
}

type redirect struct {
	tabID int
	url   string
}

type fakeRedirector struct {
	mu        sync.Mutex
	redirects []redirect
}

func (f *fakeRedirector) RedirectTab(ctx context.Context, tabID int, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redirects = append(f.redirects, redirect{tabID, url})
	return nil
}

// gate is a fixed blockingGate.
type gate bool

func (g gate) BlockingActive(context.Context) (bool, error) { return bool(g), nil }

// runCoordinator starts c.Run and stops it when the test ends.
func runCoordinator(t *testing.T, c *Coordinator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}
