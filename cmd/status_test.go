package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xvierd/focusguard/internal/domain"
)

func TestStatusCmd(t *testing.T) {
	if statusCmd.Use != "status" {
		t.Errorf("statusCmd.Use = %q, want %q", statusCmd.Use, "status")
	}
}

func TestOutputStatusJSON(t *testing.T) {
	tests := []struct {
		name      string
		state     domain.TimerState
		greyscale bool
		phase     domain.Phase
		blocking  bool
		clock     string
	}{
		{
			name:  "idle",
			state: domain.NewTimerState(),
			phase: domain.PhaseIdle,
			clock: "25:00",
		},
		{
			name: "focusing with greyscale",
			state: domain.TimerState{
				IsRunning: true, TimeRemaining: 754,
				FocusDuration: 1500, BreakDuration: 300,
			},
			greyscale: true,
			phase:     domain.PhaseFocusing,
			blocking:  true,
			clock:     "12:34",
		},
		{
			name: "on break",
			state: domain.TimerState{
				IsRunning: true, IsBreak: true, TimeRemaining: 60,
				FocusDuration: 1500, BreakDuration: 300,
			},
			phase: domain.PhaseOnBreak,
			clock: "01:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := outputStatusJSON(&buf, tt.state, tt.greyscale); err != nil {
				t.Fatalf("outputStatusJSON() error: %v", err)
			}

			var got map[string]any
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
			}

			if got["phase"] != string(tt.phase) {
				t.Errorf("phase = %v, want %v", got["phase"], tt.phase)
			}
			if got["blockingActive"] != tt.blocking {
				t.Errorf("blockingActive = %v, want %v", got["blockingActive"], tt.blocking)
			}
			if got["greyscaleMode"] != tt.greyscale {
				t.Errorf("greyscaleMode = %v, want %v", got["greyscaleMode"], tt.greyscale)
			}
			if got["clock"] != tt.clock {
				t.Errorf("clock = %v, want %v", got["clock"], tt.clock)
			}
			// The message protocol field names are kept.
			for _, key := range []string{"isRunning", "isBreak", "timeRemaining", "focusDuration", "breakDuration"} {
				if _, ok := got[key]; !ok {
					t.Errorf("missing %q in %s", key, buf.String())
				}
			}
		})
	}
}

func TestOutputStatusJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	if err := outputStatusJSON(&buf, domain.NewTimerState(), false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"isRunning\"") {
		t.Errorf("expected indented output, got %s", buf.String())
	}
}
