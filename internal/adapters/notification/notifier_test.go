package notification

import (
	"context"
	"testing"

	"github.com/xvierd/focusguard/internal/config"
	"github.com/xvierd/focusguard/internal/domain"
)

type call struct {
	kind, title, message string
}

func newRecording(cfg *config.NotificationConfig) (*Notifier, *[]call) {
	calls := &[]call{}
	n := New(cfg)
	n.notify = func(title, message string) error {
		*calls = append(*calls, call{"notify", title, message})
		return nil
	}
	n.alert = func(title, message string) error {
		*calls = append(*calls, call{"alert", title, message})
		return nil
	}
	return n, calls
}

func TestNotifier_Notify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		cfg      *config.NotificationConfig
		msg      domain.Notification
		wantKind string
	}{
		{name: "nil config", cfg: nil, msg: domain.TimerStoppedNotification()},
		{name: "disabled", cfg: &config.NotificationConfig{Enabled: false}, msg: domain.TimerStoppedNotification()},
		{name: "quiet", cfg: &config.NotificationConfig{Enabled: true, Sound: true}, msg: domain.FocusStartedNotification(), wantKind: "notify"},
		{name: "loud with sound", cfg: &config.NotificationConfig{Enabled: true, Sound: true}, msg: domain.BreakOverNotification(), wantKind: "alert"},
		{name: "loud without sound", cfg: &config.NotificationConfig{Enabled: true}, msg: domain.FocusCompleteNotification(), wantKind: "notify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, calls := newRecording(tt.cfg)
			if err := n.Notify(ctx, tt.msg); err != nil {
				t.Fatalf("Notify() error = %v", err)
			}
			if tt.wantKind == "" {
				if len(*calls) != 0 {
					t.Errorf("calls = %v, want none", *calls)
				}
				return
			}
			if len(*calls) != 1 || (*calls)[0].kind != tt.wantKind || (*calls)[0].title != tt.msg.Title {
				t.Errorf("calls = %v, want one %s for %q", *calls, tt.wantKind, tt.msg.Title)
			}
		})
	}
}

func TestNotifier_IsEnabled(t *testing.T) {
	if New(nil).IsEnabled() {
		t.Error("IsEnabled() with nil config = true")
	}
	if !New(&config.NotificationConfig{Enabled: true}).IsEnabled() {
		t.Error("IsEnabled() with enabled config = false")
	}
}
