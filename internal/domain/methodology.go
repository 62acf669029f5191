package domain

import (
	"fmt"
	"strings"
)

// Methodology names a focus/break rhythm the user can switch to in one step.
type Methodology string

const (
	MethodologyPomodoro Methodology = "pomodoro"
	MethodologyDeepWork Methodology = "deepwork"
	MethodologyMakeTime Methodology = "maketime"
)

// ValidMethodologies lists the presets in the order help output shows them.
var ValidMethodologies = []Methodology{
	MethodologyPomodoro,
	MethodologyDeepWork,
	MethodologyMakeTime,
}

var methodologyLabels = map[Methodology]string{
	MethodologyPomodoro: "Pomodoro",
	MethodologyDeepWork: "Deep Work",
	MethodologyMakeTime: "Make Time",
}

// ValidateMethodology parses a preset name. Case, spaces and dashes are
// ignored so "Deep-Work" is accepted.
func ValidateMethodology(s string) (Methodology, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	m := Methodology(key)
	if _, ok := methodologyLabels[m]; !ok {
		return "", fmt.Errorf("invalid preset %q: must be one of pomodoro, deepwork, maketime", s)
	}
	return m, nil
}

// Label returns a human-readable label, "Custom" for unknown values.
func (m Methodology) Label() string {
	if label, ok := methodologyLabels[m]; ok {
		return label
	}
	return "Custom"
}
