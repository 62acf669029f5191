package domain

import "fmt"

// Notification is a desktop alert raised by the daemon.
type Notification struct {
	Title   string
	Message string
	// Loud notifications may also play a sound.
	Loud bool
}

func FocusStartedNotification() Notification {
	return Notification{Title: "Focus Session Started", Message: "Stay focused! Distractions are now blocked."}
}

func TimerStoppedNotification() Notification {
	return Notification{Title: "Timer Stopped", Message: "Focus session paused."}
}

func FocusCompleteNotification() Notification {
	return Notification{Title: "🎉 Focus Session Complete!", Message: "Great work! Time for a break.", Loud: true}
}

func BreakOverNotification() Notification {
	return Notification{Title: "Break Over", Message: "Ready to focus again?", Loud: true}
}

func SiteBlockedNotification(host string) Notification {
	return Notification{
		Title:   "🛡️ Site Blocked",
		Message: fmt.Sprintf("Stay focused! %s is blocked during focus time.", host),
	}
}
