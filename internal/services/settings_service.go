package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

// SettingsService implements the popup's edits of the persisted settings.
// Validation happens here, before anything reaches the store.
type SettingsService struct {
	store ports.KeyValueStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store ports.KeyValueStore) *SettingsService {
	return &SettingsService{store: store}
}

// Initialize writes the default settings and empty stats when nothing has
// been stored yet. Existing values are kept.
func (s *SettingsService) Initialize(ctx context.Context) (bool, error) {
	var focus int
	err := s.store.Get(ctx, domain.KeyFocusDuration, &focus)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("failed to read settings: %w", err)
	}

	defaults := domain.DefaultSettings()
	if err := s.save(ctx, defaults); err != nil {
		return false, err
	}
	if err := s.store.Set(ctx, domain.KeyStats, domain.Stats{}); err != nil {
		return false, fmt.Errorf("failed to save stats: %w", err)
	}
	return true, nil
}

// Load returns the settings, substituting defaults for absent or unreadable
// keys.
func (s *SettingsService) Load(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	var minutes int
	if err := s.store.Get(ctx, domain.KeyFocusDuration, &minutes); err == nil && minutes > 0 {
		settings.FocusDuration = minutes
	}
	minutes = 0
	if err := s.store.Get(ctx, domain.KeyBreakDuration, &minutes); err == nil && minutes > 0 {
		settings.BreakDuration = minutes
	}

	var sites domain.Blocklist
	if err := s.store.Get(ctx, domain.KeyBlockedSites, &sites); err == nil && sites != nil {
		settings.BlockedSites = sites
	}

	var greyscale bool
	if err := s.store.Get(ctx, domain.KeyGreyscaleMode, &greyscale); err == nil {
		settings.GreyscaleMode = greyscale
	}
	return settings, nil
}

// AddSite normalizes raw and appends it to the blocklist.
func (s *SettingsService) AddSite(ctx context.Context, raw string) (string, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return "", err
	}

	sites, site, err := settings.BlockedSites.Add(raw)
	if err != nil {
		return site, err
	}
	if err := s.store.Set(ctx, domain.KeyBlockedSites, sites); err != nil {
		return "", fmt.Errorf("failed to save blocklist: %w", err)
	}
	return site, nil
}

// SiteNotFoundError is returned by RemoveSite with the closest entries.
type SiteNotFoundError struct {
	Site        string
	Suggestions []string
}

func (e *SiteNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %s", domain.ErrSiteNotFound, e.Site)
	}
	return fmt.Sprintf("%s: %s (did you mean %s?)", domain.ErrSiteNotFound, e.Site, e.Suggestions[0])
}

func (e *SiteNotFoundError) Unwrap() error { return domain.ErrSiteNotFound }

// RemoveSite removes an exact blocklist entry.
func (s *SettingsService) RemoveSite(ctx context.Context, site string) error {
	settings, err := s.Load(ctx)
	if err != nil {
		return err
	}

	sites, err := settings.BlockedSites.Remove(site)
	if errors.Is(err, domain.ErrSiteNotFound) {
		return &SiteNotFoundError{Site: site, Suggestions: Suggest(settings.BlockedSites, site)}
	}
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, domain.KeyBlockedSites, sites); err != nil {
		return fmt.Errorf("failed to save blocklist: %w", err)
	}
	return nil
}

// Suggest returns the blocklist entries closest to query, best first.
func Suggest(sites domain.Blocklist, query string) []string {
	matches := fuzzy.Find(query, sites)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}

// UpdateDurations validates and stores the focus and break minutes.
func (s *SettingsService) UpdateDurations(ctx context.Context, focusMinutes, breakMinutes int) error {
	if err := domain.ValidateDurations(focusMinutes, breakMinutes); err != nil {
		return err
	}
	if err := s.store.Set(ctx, domain.KeyFocusDuration, focusMinutes); err != nil {
		return fmt.Errorf("failed to save focus duration: %w", err)
	}
	if err := s.store.Set(ctx, domain.KeyBreakDuration, breakMinutes); err != nil {
		return fmt.Errorf("failed to save break duration: %w", err)
	}
	return nil
}

// SetGreyscale stores the greyscale flag.
func (s *SettingsService) SetGreyscale(ctx context.Context, enabled bool) error {
	if err := s.store.Set(ctx, domain.KeyGreyscaleMode, enabled); err != nil {
		return fmt.Errorf("failed to save greyscale mode: %w", err)
	}
	return nil
}

func (s *SettingsService) save(ctx context.Context, settings domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{domain.KeyFocusDuration, settings.FocusDuration},
		{domain.KeyBreakDuration, settings.BreakDuration},
		{domain.KeyBlockedSites, settings.BlockedSites},
		{domain.KeyGreyscaleMode, settings.GreyscaleMode},
	}
	for _, v := range values {
		if err := s.store.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("failed to save %s: %w", v.key, err)
		}
	}
	return nil
}
