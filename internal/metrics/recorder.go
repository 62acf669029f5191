// Package metrics exposes observability hooks for the daemon.
package metrics

// Result labels for navigation checks and page injections.
const (
	ResultAllowed = "allowed"
	ResultBlocked = "blocked"
	ResultApplied = "applied"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// Recorder defines observability hooks for the timer, blocker and greyscale
// fan-out. All methods must be safe to call on a NoopRecorder so metrics stay
// optional.
type Recorder interface {
	IncPomodoroCompleted()
	IncBlockedAttempt()
	IncNavigation(result string)
	IncInjection(result string)
	IncTransition(from, to string)
	SetTimerRunning(running bool)
	SetConnectedPages(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPomodoroCompleted()        {}
func (NoopRecorder) IncBlockedAttempt()           {}
func (NoopRecorder) IncNavigation(string)         {}
func (NoopRecorder) IncInjection(string)          {}
func (NoopRecorder) IncTransition(string, string) {}
func (NoopRecorder) SetTimerRunning(bool)         {}
func (NoopRecorder) SetConnectedPages(int)        {}
