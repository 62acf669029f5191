package domain

import "time"

// DateLayout is the calendar-date format of Stats.LastActiveDate.
const DateLayout = "2006-01-02"

// Stats are the cumulative usage counters. FocusTime is in minutes.
type Stats struct {
	FocusTime          int    `json:"focusTime"`
	CompletedPomodoros int    `json:"completedPomodoros"`
	BlockedAttempts    int    `json:"blockedAttempts"`
	Streak             int    `json:"streak"`
	LastActiveDate     string `json:"lastActiveDate,omitempty"`
}

// touch updates the streak for an event happening at now. Only the first
// event of a calendar day changes the streak.
func (s *Stats) touch(now time.Time) {
	today := now.Format(DateLayout)
	if s.LastActiveDate == today {
		return
	}

	yesterday := now.AddDate(0, 0, -1).Format(DateLayout)
	if s.LastActiveDate == yesterday {
		s.Streak++
	} else {
		s.Streak = 1
	}
	s.LastActiveDate = today
}

// RecordPomodoro counts a completed focus session of focusSeconds.
func (s *Stats) RecordPomodoro(now time.Time, focusSeconds int) {
	s.touch(now)
	s.CompletedPomodoros++
	s.FocusTime += focusSeconds / 60
}

// RecordBlock counts a blocked navigation attempt.
func (s *Stats) RecordBlock(now time.Time) {
	s.touch(now)
	s.BlockedAttempts++
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	*s = Stats{}
}
