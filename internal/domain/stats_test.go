package domain

import (
	"testing"
	"time"
)

func TestStats_Streak(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		lastActive string
		streak     int
		wantStreak int
	}{
		{name: "first event ever", lastActive: "", streak: 0, wantStreak: 1},
		{name: "active yesterday", lastActive: "2024-03-09", streak: 4, wantStreak: 5},
		{name: "gap of two days", lastActive: "2024-03-08", streak: 4, wantStreak: 1},
		{name: "already active today", lastActive: "2024-03-10", streak: 4, wantStreak: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{LastActiveDate: tt.lastActive, Streak: tt.streak}
			s.RecordBlock(now)
			if s.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", s.Streak, tt.wantStreak)
			}
			if s.LastActiveDate != "2024-03-10" {
				t.Errorf("LastActiveDate = %q, want 2024-03-10", s.LastActiveDate)
			}
		})
	}
}

func TestStats_StreakAcrossMonth(t *testing.T) {
	s := Stats{LastActiveDate: "2024-02-29", Streak: 2}
	s.RecordBlock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))
	if s.Streak != 3 {
		t.Errorf("Streak = %d, want 3", s.Streak)
	}
}

func TestStats_RecordPomodoro(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.Local)
	var s Stats
	s.RecordPomodoro(now, 1500)
	s.RecordPomodoro(now, 90)

	if s.CompletedPomodoros != 2 {
		t.Errorf("CompletedPomodoros = %d, want 2", s.CompletedPomodoros)
	}
	if s.FocusTime != 26 {
		t.Errorf("FocusTime = %d, want 26 (floored minutes)", s.FocusTime)
	}
	if s.Streak != 1 {
		t.Errorf("Streak = %d, want 1", s.Streak)
	}
}

func TestStats_Reset(t *testing.T) {
	s := Stats{FocusTime: 50, CompletedPomodoros: 2, BlockedAttempts: 7, Streak: 3, LastActiveDate: "2024-03-10"}
	s.Reset()
	if s != (Stats{}) {
		t.Errorf("Reset() left %+v", s)
	}
}
