package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

func TestNewMemory(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	if storage == nil {
		t.Error("NewMemory() returned nil storage")
	}
}

// exerciseStore runs the shared key-value behaviour against any backend.
func exerciseStore(t *testing.T, store ports.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		var minutes int
		err := store.Get(ctx, domain.KeyFocusDuration, &minutes)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("scalar round trip", func(t *testing.T) {
		if err := store.Set(ctx, domain.KeyFocusDuration, 45); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		var minutes int
		if err := store.Get(ctx, domain.KeyFocusDuration, &minutes); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if minutes != 45 {
			t.Errorf("Get() = %d, want 45", minutes)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := store.Set(ctx, domain.KeyGreyscaleMode, true); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := store.Set(ctx, domain.KeyGreyscaleMode, false); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		enabled := true
		if err := store.Get(ctx, domain.KeyGreyscaleMode, &enabled); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if enabled {
			t.Error("Get() = true after overwrite with false")
		}
	})

	t.Run("structured values", func(t *testing.T) {
		sites := domain.Blocklist{"reddit.com", "news.ycombinator.com"}
		if err := store.Set(ctx, domain.KeyBlockedSites, sites); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		stats := domain.Stats{FocusTime: 50, CompletedPomodoros: 2, Streak: 1, LastActiveDate: "2024-03-10"}
		if err := store.Set(ctx, domain.KeyStats, stats); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		var gotSites domain.Blocklist
		if err := store.Get(ctx, domain.KeyBlockedSites, &gotSites); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(gotSites) != 2 || gotSites[1] != "news.ycombinator.com" {
			t.Errorf("blockedSites = %v", gotSites)
		}

		var gotStats domain.Stats
		if err := store.Get(ctx, domain.KeyStats, &gotStats); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if gotStats != stats {
			t.Errorf("stats = %+v, want %+v", gotStats, stats)
		}
	})
}

func TestSQLiteStorage(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	exerciseStore(t, store)
}

func TestSQLiteStorage_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "focusguard.db")

	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.Set(ctx, domain.KeyBreakDuration, 10); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	_ = store.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	var minutes int
	if err := reopened.Get(ctx, domain.KeyBreakDuration, &minutes); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if minutes != 10 {
		t.Errorf("Get() = %d, want 10", minutes)
	}
}
