package ports

import (
	"context"

	"github.com/xvierd/focusguard/internal/domain"
)

// Notifier raises desktop notifications.
// This is a driven port (implemented by infrastructure).
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// Broadcaster delivers events to every listener, such as open popups.
// This is a driven port (implemented by infrastructure).
type Broadcaster interface {
	// Broadcast never waits for slow listeners.
	Broadcast(ctx context.Context, ev domain.Event) error
}
