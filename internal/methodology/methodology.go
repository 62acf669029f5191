// Package methodology maps each named rhythm to the focus and break
// durations it stands for. The CLI uses it for "settings set --preset" and
// to name the rhythm the stored durations match.
package methodology

import "github.com/xvierd/focusguard/internal/domain"

// Mode defines the durations and wording of one methodology.
type Mode interface {
	// Name returns the methodology identifier.
	Name() domain.Methodology

	// FocusMinutes is the focus period length.
	FocusMinutes() int

	// BreakMinutes is the break length.
	BreakMinutes() int

	// Summary is a one-line description for help output.
	Summary() string
}

// ForMethodology returns the Mode implementation for the given methodology.
func ForMethodology(m domain.Methodology) Mode {
	switch m {
	case domain.MethodologyDeepWork:
		return &deepWorkMode{}
	case domain.MethodologyMakeTime:
		return &makeTimeMode{}
	default:
		return &pomodoroMode{}
	}
}

// Match returns the mode whose durations equal focus and brk.
func Match(focus, brk int) (Mode, bool) {
	for _, m := range domain.ValidMethodologies {
		mode := ForMethodology(m)
		if mode.FocusMinutes() == focus && mode.BreakMinutes() == brk {
			return mode, true
		}
	}
	return nil, false
}

// --- Pomodoro Mode ---

type pomodoroMode struct{}

func (p *pomodoroMode) Name() domain.Methodology { return domain.MethodologyPomodoro }
func (p *pomodoroMode) FocusMinutes() int        { return domain.DefaultFocusMinutes }
func (p *pomodoroMode) BreakMinutes() int        { return domain.DefaultBreakMinutes }
func (p *pomodoroMode) Summary() string          { return "short sprints with frequent breaks" }

// --- Deep Work Mode ---

type deepWorkMode struct{}

func (d *deepWorkMode) Name() domain.Methodology { return domain.MethodologyDeepWork }
func (d *deepWorkMode) FocusMinutes() int        { return 50 }
func (d *deepWorkMode) BreakMinutes() int        { return 10 }
func (d *deepWorkMode) Summary() string          { return "long uninterrupted blocks" }

// --- Make Time Mode ---

type makeTimeMode struct{}

func (mt *makeTimeMode) Name() domain.Methodology { return domain.MethodologyMakeTime }
func (mt *makeTimeMode) FocusMinutes() int        { return domain.MaxFocusMinutes }
func (mt *makeTimeMode) BreakMinutes() int        { return 15 }
func (mt *makeTimeMode) Summary() string          { return "one highlight per day, then a real rest" }
