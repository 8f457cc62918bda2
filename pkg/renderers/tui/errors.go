package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoBinder is returned when a console is built without a binder.
	ErrNoBinder = errors.New("tui: binder is required")
)
