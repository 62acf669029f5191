package ports

import "time"

// TickSource drives the countdown.
// This is a driven port (implemented by infrastructure).
type TickSource interface {
	// Start calls fn every interval, replacing any previous schedule.
	Start(interval time.Duration, fn func()) error

	// Stop cancels the current schedule. Stopping an idle source is a no-op.
	Stop() error
}
