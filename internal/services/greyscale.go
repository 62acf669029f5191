package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/metrics"
	"github.com/xvierd/focusguard/internal/ports"
)

// GreyscaleApplier pushes the greyscale filter to connected pages.
type GreyscaleApplier struct {
	store   ports.KeyValueStore
	pages   ports.PageHost
	metrics metrics.Recorder
	log     *slog.Logger
}

// GreyscaleOption configures a GreyscaleApplier.
type GreyscaleOption func(*GreyscaleApplier)

func WithGreyscaleMetrics(m metrics.Recorder) GreyscaleOption {
	return func(g *GreyscaleApplier) { g.metrics = m }
}

func WithGreyscaleLogger(l *slog.Logger) GreyscaleOption {
	return func(g *GreyscaleApplier) { g.log = l }
}

func NewGreyscaleApplier(store ports.KeyValueStore, pages ports.PageHost, opts ...GreyscaleOption) *GreyscaleApplier {
	g := &GreyscaleApplier{
		store:   store,
		pages:   pages,
		metrics: metrics.NoopRecorder{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Toggle persists the flag and sends it to every open page. Per-page
// failures are reported in the outcomes, never as an error.
func (g *GreyscaleApplier) Toggle(ctx context.Context, enabled bool) ([]domain.InjectOutcome, error) {
	if err := g.store.Set(ctx, domain.KeyGreyscaleMode, enabled); err != nil {
		return nil, fmt.Errorf("failed to save greyscale mode: %w", err)
	}

	pages, err := g.pages.Pages(ctx)
	if err != nil {
		g.log.Debug("No pages to update", logfields.Error(err))
		return nil, nil
	}

	outcomes := make([]domain.InjectOutcome, 0, len(pages))
	for _, p := range pages {
		outcomes = append(outcomes, g.apply(ctx, p, enabled))
	}
	g.log.Info("Greyscale toggled",
		slog.Bool("enabled", enabled),
		slog.Int("pages", len(pages)),
		slog.Int("applied", len(domain.AppliedOutcomes(outcomes))))
	return outcomes, nil
}

// OnPageLoaded applies greyscale to a freshly loaded page when the stored
// flag is on.
func (g *GreyscaleApplier) OnPageLoaded(ctx context.Context, page domain.Page) domain.InjectOutcome {
	var enabled bool
	if err := g.store.Get(ctx, domain.KeyGreyscaleMode, &enabled); err != nil || !enabled {
		return domain.InjectOutcome{PageID: page.ID, URL: page.URL, Skipped: true}
	}
	return g.apply(ctx, page, true)
}

func (g *GreyscaleApplier) apply(ctx context.Context, page domain.Page, enabled bool) domain.InjectOutcome {
	out := domain.InjectOutcome{PageID: page.ID, URL: page.URL}
	if page.Restricted() {
		out.Skipped = true
		out.Err = domain.ErrRestrictedPage
		g.metrics.IncInjection(metrics.ResultSkipped)
		return out
	}

	out.Err = g.pages.Send(ctx, page.ID, domain.GreyscaleCommand(enabled))
	if out.Err != nil {
		g.metrics.IncInjection(metrics.ResultFailed)
		if !errors.Is(out.Err, domain.ErrPageGone) {
			g.log.Debug("Greyscale not applied", logfields.PageID(page.ID), logfields.Error(out.Err))
		}
		return out
	}
	g.metrics.IncInjection(metrics.ResultApplied)
	return out
}
