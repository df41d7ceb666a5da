// Package backend abstracts the terminal under the widget runtime so
// the same tree can run against a real tty or an in-memory screen in
// tests.
package backend

import "github.com/odvcencio/pinscroll/pkg/ui/terminal"

// Backend is what the runtime needs from a terminal: a cell grid to
// write into and a stream of input events.
type Backend interface {
	// Init enters the alternate screen and raw mode.
	Init() error

	// Fini restores the terminal.
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent writes one cell. comb holds combining runes, nil for
	// plain characters.
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show pushes pending cell writes to the terminal.
	Show()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks for the next input event, nil on shutdown.
	PollEvent() terminal.Event

	// PostEvent injects an event into the input queue.
	PostEvent(ev terminal.Event) error
}
