package domain

import (
	"errors"
	"testing"
)

func TestValidateDurations(t *testing.T) {
	tests := []struct {
		name    string
		focus   int
		brk     int
		wantErr bool
	}{
		{name: "defaults", focus: 25, brk: 5},
		{name: "lower bounds", focus: 1, brk: 1},
		{name: "upper bounds", focus: 60, brk: 30},
		{name: "focus too long", focus: 61, brk: 5, wantErr: true},
		{name: "focus zero", focus: 0, brk: 5, wantErr: true},
		{name: "break too long", focus: 25, brk: 31, wantErr: true},
		{name: "break negative", focus: 25, brk: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDurations(tt.focus, tt.brk)
			if tt.wantErr && !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("ValidateDurations() error = %v, want ErrInvalidDuration", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateDurations() unexpected error = %v", err)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.FocusDuration != 25 || s.BreakDuration != 5 {
		t.Errorf("durations = %d/%d, want 25/5", s.FocusDuration, s.BreakDuration)
	}
	if s.BlockedSites == nil || len(s.BlockedSites) != 0 {
		t.Errorf("BlockedSites = %v, want empty non-nil list", s.BlockedSites)
	}
	if s.GreyscaleMode {
		t.Error("GreyscaleMode = true, want false")
	}
}

func TestValidateMethodology(t *testing.T) {
	tests := []struct {
		in      string
		want    Methodology
		wantErr bool
	}{
		{"pomodoro", MethodologyPomodoro, false},
		{"Deep-Work", MethodologyDeepWork, false},
		{"make time", MethodologyMakeTime, false},
		{"kanban", "", true},
	}
	for _, tt := range tests {
		got, err := ValidateMethodology(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMethodology(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateMethodology(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Methodology("x").Label(); got != "Custom" {
		t.Errorf("Label() = %q, want Custom", got)
	}
}
