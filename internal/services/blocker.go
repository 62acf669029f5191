package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/metrics"
	"github.com/xvierd/focusguard/internal/ports"
)

type blockingGate interface {
	BlockingActive(ctx context.Context) (bool, error)
}

type blockRecorder interface {
	RecordBlockedAttempt(ctx context.Context) error
}

// Blocker checks outbound navigations against the blocklist while a focus
// session runs.
type Blocker struct {
	store       ports.KeyValueStore
	gate        blockingGate
	stats       blockRecorder
	blockedPage string

	redirector ports.Redirector
	notifier   ports.Notifier
	metrics    metrics.Recorder
	log        *slog.Logger
}

// BlockerOption configures a Blocker.
type BlockerOption func(*Blocker)

// WithRedirector lets the blocker send connected tabs to the blocked page.
func WithRedirector(r ports.Redirector) BlockerOption {
	return func(b *Blocker) { b.redirector = r }
}

func WithBlockerNotifier(n ports.Notifier) BlockerOption {
	return func(b *Blocker) { b.notifier = n }
}

func WithBlockerMetrics(m metrics.Recorder) BlockerOption {
	return func(b *Blocker) { b.metrics = m }
}

func WithBlockerLogger(l *slog.Logger) BlockerOption {
	return func(b *Blocker) { b.log = l }
}

// NewBlocker creates a blocker that redirects to blockedPage.
func NewBlocker(store ports.KeyValueStore, gate blockingGate, stats blockRecorder, blockedPage string, opts ...BlockerOption) *Blocker {
	b := &Blocker{
		store:       store,
		gate:        gate,
		stats:       stats,
		blockedPage: blockedPage,
		metrics:     metrics.NoopRecorder{},
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnNavigate handles a navigation reported by the browser bridge. Only
// top-level frames are checked and unparseable URLs are let through.
func (b *Blocker) OnNavigate(ctx context.Context, ev domain.NavigationEvent) (domain.Decision, error) {
	if ev.FrameID != 0 {
		return domain.Decision{}, nil
	}
	host, err := domain.HostFromURL(ev.URL)
	if err != nil {
		b.log.Debug("Ignoring navigation", logfields.URL(ev.URL), logfields.Error(err))
		return domain.Decision{}, nil
	}
	return b.evaluate(ctx, host, &ev.TabID)
}

// OnRequestHost handles a top-level document request seen by the proxy.
// host may carry a port. A block is counted and notified like a browser
// navigation.
func (b *Blocker) OnRequestHost(ctx context.Context, host string) (domain.Decision, error) {
	return b.evaluate(ctx, proxyHost(host), nil)
}

// Check reports whether requests to host are refused right now. Nothing is
// counted, notified or redirected. The proxy uses it for subresources and
// CONNECT tunnels, which are not navigations.
func (b *Blocker) Check(ctx context.Context, host string) (domain.Decision, error) {
	d, _, err := b.decide(ctx, proxyHost(host))
	return d, err
}

// BlockedPageURL returns the blocked page address for host.
func (b *Blocker) BlockedPageURL(host string) string {
	return b.blockedPage + "?host=" + url.QueryEscape(host)
}

func proxyHost(host string) string {
	if u, err := url.Parse("//" + host); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	return domain.NormalizeHost(host)
}

func (b *Blocker) evaluate(ctx context.Context, host string, tabID *int) (domain.Decision, error) {
	decision, active, err := b.decide(ctx, host)
	if err != nil || !active {
		return decision, err
	}
	if !decision.Blocked {
		b.metrics.IncNavigation(metrics.ResultAllowed)
		return decision, nil
	}

	b.metrics.IncNavigation(metrics.ResultBlocked)
	b.log.Info("Blocked navigation", logfields.Host(host), logfields.Site(decision.Site))

	if tabID != nil && b.redirector != nil {
		if err := b.redirector.RedirectTab(ctx, *tabID, decision.RedirectURL); err != nil && !errors.Is(err, domain.ErrPageGone) {
			b.log.Debug("Tab redirect failed", logfields.TabID(*tabID), logfields.Error(err))
		}
	}
	if err := b.stats.RecordBlockedAttempt(ctx); err != nil {
		b.log.Warn("Failed to record blocked attempt", logfields.Error(err))
	}
	if b.notifier != nil {
		if err := b.notifier.Notify(ctx, domain.SiteBlockedNotification(host)); err != nil {
			b.log.Debug("Notification dropped", logfields.Error(err))
		}
	}
	return decision, nil
}

// decide matches host against the blocklist. It has no side effects; active
// reports whether a focus session was running.
func (b *Blocker) decide(ctx context.Context, host string) (d domain.Decision, active bool, err error) {
	active, err = b.gate.BlockingActive(ctx)
	if err != nil {
		return domain.Decision{}, false, fmt.Errorf("failed to read timer state: %w", err)
	}
	if !active {
		return domain.Decision{Host: host}, false, nil
	}

	site, ok := b.blocklist(ctx).Match(host)
	if !ok {
		return domain.Decision{Host: host}, true, nil
	}
	return domain.Decision{
		Blocked:     true,
		Host:        host,
		Site:        site,
		RedirectURL: b.BlockedPageURL(host),
	}, true, nil
}

// blocklist reads the stored sites. Storage failures yield an empty list.
func (b *Blocker) blocklist(ctx context.Context) domain.Blocklist {
	var sites domain.Blocklist
	if err := b.store.Get(ctx, domain.KeyBlockedSites, &sites); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			b.log.Debug("Blocklist unreadable", logfields.Error(err))
		}
		return nil
	}
	return sites
}
