package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focusguard/internal/domain"
)

func TestRouter_Handle(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ticks := &fakeTicks{}
	tracker := NewStatsTracker(store, nil)
	coordinator := NewCoordinator(store, ticks, tracker)
	pages := &fakePages{pages: []domain.Page{{ID: "p1", URL: "https://example.com"}}}
	router := NewRouter(coordinator, NewGreyscaleApplier(store, pages), nil)
	runCoordinator(t, coordinator)

	resp := router.Handle(ctx, domain.Message{Action: domain.ActionGetTimerState})
	require.NotNil(t, resp.State)
	assert.Equal(t, 1500, resp.State.TimeRemaining)
	assert.False(t, resp.State.IsRunning)

	resp = router.Handle(ctx, domain.Message{Action: domain.ActionStartTimer})
	assert.True(t, resp.Success)
	resp = router.Handle(ctx, domain.Message{Action: domain.ActionStartTimer})
	assert.False(t, resp.Success, "second start is rejected")

	ticks.fire(10)
	resp = router.Handle(ctx, domain.Message{Action: domain.ActionStopTimer})
	assert.True(t, resp.Success)
	resp = router.Handle(ctx, domain.Message{Action: domain.ActionStopTimer})
	assert.True(t, resp.Success, "stop is idempotent")

	resp = router.Handle(ctx, domain.Message{Action: domain.ActionGetTimerState})
	require.NotNil(t, resp.State)
	assert.Equal(t, 1490, resp.State.TimeRemaining)

	require.NoError(t, NewSettingsService(store).UpdateDurations(ctx, 50, 10))
	resp = router.Handle(ctx, domain.Message{Action: domain.ActionUpdateSettings})
	assert.True(t, resp.Success)

	resp = router.Handle(ctx, domain.Message{Action: domain.ActionResetTimer})
	assert.True(t, resp.Success)
	require.NotNil(t, resp.TimeRemaining)
	assert.Equal(t, 3000, *resp.TimeRemaining)

	resp = router.Handle(ctx, domain.Message{Action: domain.ActionToggleGreyscale, Enabled: true})
	assert.True(t, resp.Success)
	require.Len(t, pages.sent, 1)
	assert.Equal(t, domain.GreyscaleCommand(true), pages.sent[0].cmd)

	resp = router.Handle(ctx, domain.Message{Action: "launchRockets"})
	assert.False(t, resp.Success)
	assert.Nil(t, resp.State)
	assert.Nil(t, resp.TimeRemaining)
}

func TestRouter_StoppedCoordinator(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	coordinator := NewCoordinator(store, &fakeTicks{}, NewStatsTracker(store, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		coordinator.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	router := NewRouter(coordinator, NewGreyscaleApplier(store, &fakePages{}), nil)
	resp := router.Handle(context.Background(), domain.Message{Action: domain.ActionStartTimer})
	assert.False(t, resp.Success)
}
