// Package notification provides desktop notification utilities.
package notification

import (
	"context"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/focusguard/internal/config"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg *config.NotificationConfig

	// overridable in tests
	notify func(title, message string) error
	alert  func(title, message string) error
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
	}
}

// Notify displays a desktop notification if enabled. Loud notifications
// also play the alert sound when sound is enabled.
func (n *Notifier) Notify(ctx context.Context, msg domain.Notification) error {
	if !n.IsEnabled() {
		return nil
	}
	if msg.Loud && n.cfg.Sound {
		return n.alert(msg.Title, msg.Message)
	}
	return n.notify(msg.Title, msg.Message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
