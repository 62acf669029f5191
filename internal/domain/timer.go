package domain

// Default durations applied when no settings have been stored.
const (
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5
)

// Phase is the derived state of the timer.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseFocusing Phase = "focusing"
	PhaseOnBreak  Phase = "on_break"
)

// Label returns a human-readable label for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseFocusing:
		return "Focus"
	case PhaseOnBreak:
		return "Break"
	default:
		return "Idle"
	}
}

// Transition is the result of a countdown reaching zero.
type Transition string

const (
	TransitionNone          Transition = ""
	TransitionFocusComplete Transition = "focus_complete"
	TransitionBreakComplete Transition = "break_complete"
)

// TimerState is the in-memory state of the countdown. All durations are in
// seconds. The JSON shape is the getTimerState response.
type TimerState struct {
	IsRunning     bool `json:"isRunning"`
	IsBreak       bool `json:"isBreak"`
	TimeRemaining int  `json:"timeRemaining"`
	FocusDuration int  `json:"focusDuration"`
	BreakDuration int  `json:"breakDuration"`
}

// NewTimerState returns an idle timer with the default durations.
func NewTimerState() TimerState {
	return TimerState{
		TimeRemaining: DefaultFocusMinutes * 60,
		FocusDuration: DefaultFocusMinutes * 60,
		BreakDuration: DefaultBreakMinutes * 60,
	}
}

// Phase derives the current phase from the running and break flags.
func (s TimerState) Phase() Phase {
	switch {
	case s.IsRunning && !s.IsBreak:
		return PhaseFocusing
	case s.IsRunning && s.IsBreak:
		return PhaseOnBreak
	default:
		return PhaseIdle
	}
}

// BlockingActive reports whether navigation blocking applies.
func (s TimerState) BlockingActive() bool {
	return s.Phase() == PhaseFocusing
}

// Progress returns the elapsed fraction of the current phase in [0, 1].
func (s TimerState) Progress() float64 {
	total := s.FocusDuration
	if s.IsBreak {
		total = s.BreakDuration
	}
	if total <= 0 {
		return 0
	}
	p := float64(total-s.TimeRemaining) / float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Start begins a focus countdown. It returns false when already running.
// A paused countdown resumes with its remaining time; an exhausted one is
// refilled with the focus duration.
func (s *TimerState) Start() bool {
	if s.IsRunning {
		return false
	}
	s.IsRunning = true
	s.IsBreak = false
	if s.TimeRemaining == 0 {
		s.TimeRemaining = s.FocusDuration
	}
	return true
}

// Stop halts the countdown and keeps the remaining time. It returns whether
// a countdown was actually running.
func (s *TimerState) Stop() bool {
	wasRunning := s.IsRunning
	s.IsRunning = false
	return wasRunning
}

// Reset stops the countdown and rewinds to a fresh focus phase.
func (s *TimerState) Reset() {
	s.Stop()
	s.TimeRemaining = s.FocusDuration
	s.IsBreak = false
}

// SetDurations replaces the configured durations (in seconds). The
// remaining time of a countdown in progress is left alone.
func (s *TimerState) SetDurations(focusSeconds, breakSeconds int) {
	s.FocusDuration = focusSeconds
	s.BreakDuration = breakSeconds
}

// Tick advances a running countdown by one second and applies the phase
// change when it reaches zero.
func (s *TimerState) Tick() Transition {
	if !s.IsRunning {
		return TransitionNone
	}
	if s.TimeRemaining > 0 {
		s.TimeRemaining--
	}
	if s.TimeRemaining > 0 {
		return TransitionNone
	}

	if !s.IsBreak {
		s.IsBreak = true
		s.TimeRemaining = s.BreakDuration
		return TransitionFocusComplete
	}

	s.IsRunning = false
	s.IsBreak = false
	s.TimeRemaining = s.FocusDuration
	return TransitionBreakComplete
}
