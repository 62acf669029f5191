package services

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/focusguard/internal/domain"
)

func TestSettingsService_Initialize(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewSettingsService(store)

	wrote, err := svc.Initialize(ctx)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !wrote {
		t.Error("Initialize() on an empty store should write defaults")
	}

	var stats domain.Stats
	if err := store.Get(ctx, domain.KeyStats, &stats); err != nil {
		t.Errorf("stats not initialized: %v", err)
	}

	if err := svc.UpdateDurations(ctx, 45, 15); err != nil {
		t.Fatalf("UpdateDurations() error = %v", err)
	}
	wrote, err = svc.Initialize(ctx)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if wrote {
		t.Error("Initialize() should keep existing settings")
	}

	settings, _ := svc.Load(ctx)
	if settings.FocusDuration != 45 {
		t.Errorf("FocusDuration = %d, want 45", settings.FocusDuration)
	}
}

func TestSettingsService_LoadDefaults(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	settings, err := NewSettingsService(store).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.FocusDuration != 25 || settings.BreakDuration != 5 {
		t.Errorf("durations = %d/%d, want 25/5", settings.FocusDuration, settings.BreakDuration)
	}
	if settings.BlockedSites == nil || len(settings.BlockedSites) != 0 {
		t.Errorf("BlockedSites = %#v, want empty list", settings.BlockedSites)
	}
	if settings.GreyscaleMode {
		t.Error("GreyscaleMode should default to off")
	}
}

func TestSettingsService_AddSite(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewSettingsService(store)

	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "https://www.Reddit.com/", want: "reddit.com"},
		{raw: "  twitter.com  ", want: "twitter.com"},
		{raw: "http://reddit.com", want: "reddit.com", wantErr: domain.ErrSiteExists},
		{raw: "https://www.", wantErr: domain.ErrEmptySite},
		{raw: "   ", wantErr: domain.ErrEmptySite},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := svc.AddSite(ctx, tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddSite(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AddSite(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}

	settings, _ := svc.Load(ctx)
	want := []string{"reddit.com", "twitter.com"}
	if len(settings.BlockedSites) != len(want) {
		t.Fatalf("BlockedSites = %v, want %v", settings.BlockedSites, want)
	}
	for i := range want {
		if settings.BlockedSites[i] != want[i] {
			t.Errorf("BlockedSites[%d] = %q, want %q", i, settings.BlockedSites[i], want[i])
		}
	}
}

func TestSettingsService_RemoveSite(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewSettingsService(store)

	svc.AddSite(ctx, "reddit.com")
	svc.AddSite(ctx, "youtube.com")

	err := svc.RemoveSite(ctx, "redit")
	var notFound *SiteNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("RemoveSite() error = %v, want SiteNotFoundError", err)
	}
	if !errors.Is(err, domain.ErrSiteNotFound) {
		t.Error("SiteNotFoundError should unwrap to ErrSiteNotFound")
	}
	if len(notFound.Suggestions) == 0 || notFound.Suggestions[0] != "reddit.com" {
		t.Errorf("Suggestions = %v, want reddit.com first", notFound.Suggestions)
	}

	if err := svc.RemoveSite(ctx, "reddit.com"); err != nil {
		t.Fatalf("RemoveSite() error = %v", err)
	}
	settings, _ := svc.Load(ctx)
	if len(settings.BlockedSites) != 1 || settings.BlockedSites[0] != "youtube.com" {
		t.Errorf("BlockedSites = %v, want [youtube.com]", settings.BlockedSites)
	}
}

func TestSettingsService_UpdateDurations(t *testing.T) {
	tests := []struct {
		name    string
		focus   int
		brk     int
		wantErr bool
	}{
		{name: "bounds low", focus: 1, brk: 1},
		{name: "bounds high", focus: 60, brk: 30},
		{name: "focus zero", focus: 0, brk: 5, wantErr: true},
		{name: "focus too long", focus: 61, brk: 5, wantErr: true},
		{name: "break zero", focus: 25, brk: 0, wantErr: true},
		{name: "break too long", focus: 25, brk: 31, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := setupTestStorage(t)
			defer cleanup()
			ctx := context.Background()
			svc := NewSettingsService(store)

			err := svc.UpdateDurations(ctx, tt.focus, tt.brk)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UpdateDurations() error = %v, wantErr %v", err, tt.wantErr)
			}

			var focus int
			getErr := store.Get(ctx, domain.KeyFocusDuration, &focus)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidDuration) {
					t.Errorf("error = %v, want ErrInvalidDuration", err)
				}
				if !errors.Is(getErr, domain.ErrNotFound) {
					t.Errorf("invalid durations must not be stored, got %d", focus)
				}
				return
			}
			if focus != tt.focus {
				t.Errorf("stored focus = %d, want %d", focus, tt.focus)
			}
		})
	}
}

func TestSettingsService_SetGreyscale(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	svc := NewSettingsService(store)

	if err := svc.SetGreyscale(ctx, true); err != nil {
		t.Fatalf("SetGreyscale() error = %v", err)
	}
	settings, _ := svc.Load(ctx)
	if !settings.GreyscaleMode {
		t.Error("GreyscaleMode = false after SetGreyscale(true)")
	}
}

func TestSuggest(t *testing.T) {
	sites := domain.Blocklist{"facebook.com", "reddit.com", "news.ycombinator.com"}

	got := Suggest(sites, "fb")
	if len(got) == 0 || got[0] != "facebook.com" {
		t.Errorf("Suggest(fb) = %v, want facebook.com first", got)
	}
	if got := Suggest(sites, "zzz"); len(got) != 0 {
		t.Errorf("Suggest(zzz) = %v, want none", got)
	}
}
