// Package domain contains the core entities of focusguard: the timer state
// machine, persisted settings, usage statistics and the blocklist.
package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a key has never been written.
	ErrNotFound = errors.New("key not found")

	ErrEmptySite    = errors.New("site cannot be empty")
	ErrSiteExists   = errors.New("site is already blocked")
	ErrSiteNotFound = errors.New("site is not in the blocklist")

	// ErrInvalidDuration carries the message shown to the user verbatim.
	ErrInvalidDuration = errors.New("please enter valid durations (Focus: 1-60 min, Break: 1-30 min)")

	ErrRestrictedPage = errors.New("page does not accept scripts")
	ErrPageGone       = errors.New("page is no longer connected")

	ErrCoordinatorStopped = errors.New("timer coordinator is not running")
)
