package domain

// NavigationEvent is an outbound navigation reported by the browser bridge.
// FrameID 0 is the top-level frame.
type NavigationEvent struct {
	TabID   int    `json:"tabId"`
	FrameID int    `json:"frameId"`
	URL     string `json:"url"`
}

// Decision is the outcome of checking a navigation against the blocklist.
type Decision struct {
	Blocked     bool   `json:"blocked"`
	Host        string `json:"host,omitempty"`
	Site        string `json:"site,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}
