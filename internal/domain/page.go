package domain

import "strings"

// Page is one connected content script.
type Page struct {
	ID    string `json:"id"`
	TabID int    `json:"tabId"`
	URL   string `json:"url"`
}

var restrictedPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"edge://",
	"about:",
	"moz-extension://",
	"devtools://",
}

// Restricted reports whether scripts cannot run on the page.
func (p Page) Restricted() bool {
	if p.URL == "" {
		return true
	}
	u := strings.ToLower(p.URL)
	for _, prefix := range restrictedPrefixes {
		if strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return false
}

// Page command types understood by content scripts.
const (
	CommandApplyGreyscale = "applyGreyscale"
	CommandRedirect       = "redirect"
)

// PageCommand is delivered to a content script.
type PageCommand struct {
	Type    string `json:"action"`
	Enabled bool   `json:"enabled"`
	URL     string `json:"url,omitempty"`
}

// GreyscaleCommand applies or removes the greyscale filter.
func GreyscaleCommand(enabled bool) PageCommand {
	return PageCommand{Type: CommandApplyGreyscale, Enabled: enabled}
}

// RedirectCommand sends the page to url.
func RedirectCommand(url string) PageCommand {
	return PageCommand{Type: CommandRedirect, URL: url}
}

// InjectOutcome is the per-page result of a greyscale fan-out.
type InjectOutcome struct {
	PageID  string `json:"pageId"`
	URL     string `json:"url"`
	Skipped bool   `json:"skipped"`
	Err     error  `json:"-"`
}

// Applied reports whether the page received the command.
func (o InjectOutcome) Applied() bool {
	return !o.Skipped && o.Err == nil
}

// AppliedOutcomes filters outcomes down to the pages that were updated.
func AppliedOutcomes(outcomes []InjectOutcome) []InjectOutcome {
	applied := make([]InjectOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Applied() {
			applied = append(applied, o)
		}
	}
	return applied
}
