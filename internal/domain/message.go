package domain

import (
	"encoding/json"
	"time"
)

// Action names a message of the request/response protocol.
type Action string

const (
	ActionStartTimer      Action = "startTimer"
	ActionStopTimer       Action = "stopTimer"
	ActionResetTimer      Action = "resetTimer"
	ActionGetTimerState   Action = "getTimerState"
	ActionToggleGreyscale Action = "toggleGreyscale"
	ActionUpdateSettings  Action = "updateSettings"

	// ActionStatsUpdated is broadcast, never requested.
	ActionStatsUpdated Action = "statsUpdated"
)

// Message is a request sent to the daemon.
type Message struct {
	Action  Action `json:"action"`
	Enabled bool   `json:"enabled,omitempty"`
}

// Response answers a Message. For getTimerState the full timer state is
// returned instead of the success envelope.
type Response struct {
	Success       bool        `json:"success"`
	TimeRemaining *int        `json:"timeRemaining,omitempty"`
	State         *TimerState `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.State != nil {
		return json.Marshal(r.State)
	}
	type envelope Response
	return json.Marshal(envelope(r))
}

// Event is pushed to every listener of the daemon.
type Event struct {
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}
