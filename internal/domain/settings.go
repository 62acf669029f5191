package domain

// Keys under which values are persisted.
const (
	KeyFocusDuration = "focusDuration"
	KeyBreakDuration = "breakDuration"
	KeyBlockedSites  = "blockedSites"
	KeyGreyscaleMode = "greyscaleMode"
	KeyStats         = "stats"
)

// Bounds accepted from the popup, in minutes.
const (
	MinFocusMinutes = 1
	MaxFocusMinutes = 60
	MinBreakMinutes = 1
	MaxBreakMinutes = 30
)

// Settings are the user preferences. Durations are in minutes.
type Settings struct {
	FocusDuration int       `json:"focusDuration" yaml:"focusDuration"`
	BreakDuration int       `json:"breakDuration" yaml:"breakDuration"`
	BlockedSites  Blocklist `json:"blockedSites" yaml:"blockedSites"`
	GreyscaleMode bool      `json:"greyscaleMode" yaml:"greyscaleMode"`
}

// DefaultSettings returns the settings written on first start.
func DefaultSettings() Settings {
	return Settings{
		FocusDuration: DefaultFocusMinutes,
		BreakDuration: DefaultBreakMinutes,
		BlockedSites:  Blocklist{},
	}
}

// ValidateDurations checks focus and break minutes against the popup bounds.
func ValidateDurations(focusMinutes, breakMinutes int) error {
	if focusMinutes < MinFocusMinutes || focusMinutes > MaxFocusMinutes {
		return ErrInvalidDuration
	}
	if breakMinutes < MinBreakMinutes || breakMinutes > MaxBreakMinutes {
		return ErrInvalidDuration
	}
	return nil
}
