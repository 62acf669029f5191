package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xvierd/focusguard/internal/domain"
)

func TestRender(t *testing.T) {
	focusing := domain.NewTimerState()
	focusing.IsRunning = true
	focusing.TimeRemaining = 1499

	onBreak := domain.NewTimerState()
	onBreak.IsRunning = true
	onBreak.IsBreak = true
	onBreak.TimeRemaining = 61

	paused := domain.NewTimerState()
	paused.TimeRemaining = 600

	tests := []struct {
		name  string
		state *domain.TimerState
		want  View
	}{
		{
			name:  "unreachable",
			state: nil,
			want: View{
				Title:   "🛡️ --:--",
				Tooltip: "FocusGuard: daemon unreachable",
				Status:  "Daemon unreachable",
			},
		},
		{
			name:  "focusing",
			state: &focusing,
			want: View{
				Title:    "🎯 24:59",
				Tooltip:  "FocusGuard: Focusing, sites blocked",
				Status:   "Focusing, sites blocked",
				CanStop:  true,
				CanReset: true,
			},
		},
		{
			name:  "on break",
			state: &onBreak,
			want: View{
				Title:    "☕ 01:01",
				Tooltip:  "FocusGuard: On break",
				Status:   "On break",
				CanStop:  true,
				CanReset: true,
			},
		},
		{
			name:  "paused",
			state: &paused,
			want: View{
				Title:    "🛡️",
				Tooltip:  "FocusGuard: Idle, 10:00 left",
				Status:   "Idle, 10:00 left",
				CanStart: true,
				CanReset: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.state))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	m := New(nil, WithRefresh(0))
	assert.Equal(t, defaultRefresh, m.refresh)
	assert.NotNil(t, m.log)

	m = New(nil, WithRefresh(5e9), WithLogger(nil))
	assert.Equal(t, int64(5e9), int64(m.refresh))
	assert.NotNil(t, m.log)
}
