// Package logfields holds the canonical slog attribute names used across
// focusguard.
package logfields

import "log/slog"

const (
	KeyAction    = "action"
	KeyPhase     = "phase"
	KeyRemaining = "remaining_s"
	KeyHost      = "host"
	KeySite      = "site"
	KeyPageID    = "page_id"
	KeyTabID     = "tab_id"
	KeyURL       = "url"
	KeyKey       = "key"
	KeyBackend   = "backend"
	KeyAddr      = "addr"
	KeyPath      = "path"
	KeyMethod    = "method"
	KeyError     = "error"
)

func Action(a string) slog.Attr  { return slog.String(KeyAction, a) }
func Phase(p string) slog.Attr   { return slog.String(KeyPhase, p) }
func Remaining(s int) slog.Attr  { return slog.Int(KeyRemaining, s) }
func Host(h string) slog.Attr    { return slog.String(KeyHost, h) }
func Site(s string) slog.Attr    { return slog.String(KeySite, s) }
func PageID(id string) slog.Attr { return slog.String(KeyPageID, id) }
func TabID(id int) slog.Attr     { return slog.Int(KeyTabID, id) }
func URL(u string) slog.Attr     { return slog.String(KeyURL, u) }
func Key(k string) slog.Attr     { return slog.String(KeyKey, k) }
func Backend(b string) slog.Attr { return slog.String(KeyBackend, b) }
func Addr(a string) slog.Attr    { return slog.String(KeyAddr, a) }
func Path(p string) slog.Attr    { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr  { return slog.String(KeyMethod, m) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
