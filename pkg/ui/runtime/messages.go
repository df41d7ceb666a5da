package runtime

import (
	"time"

	"github.com/odvcencio/pinscroll/pkg/ui/terminal"
)

// Message is an event flowing into the widget tree: terminal input,
// frame ticks, or anything posted from a background goroutine.
type Message interface {
	isMessage()
}

// KeyMsg is a keyboard input event.
type KeyMsg struct {
	Key   terminal.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyMsg) isMessage() {}

// ResizeMsg indicates the terminal size changed.
type ResizeMsg struct {
	Width  int
	Height int
}

func (ResizeMsg) isMessage() {}

// MouseMsg is a mouse input event in screen cells.
type MouseMsg struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseMsg) isMessage() {}

// MouseButton identifies which mouse button was involved.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction identifies what happened with the mouse.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)

// TickMsg fires once per frame while the app runs. Animations step
// off the carried time rather than the wall clock, which keeps them
// deterministic under test.
type TickMsg struct {
	Time time.Time
}

func (TickMsg) isMessage() {}
