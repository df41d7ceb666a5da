package runtime

// Command represents an action/intent emitted by widgets.
// Commands bubble up from widgets to the app for handling.
type Command interface {
	isCommand()
}

// Quit signals the application should exit.
type Quit struct{}

func (Quit) isCommand() {}

// Refresh requests a screen redraw.
type Refresh struct{}

func (Refresh) isCommand() {}

// FocusNext requests focus move to the next focusable widget.
type FocusNext struct{}

func (FocusNext) isCommand() {}

// FocusPrev requests focus move to the previous focusable widget.
type FocusPrev struct{}

func (FocusPrev) isCommand() {}

// JumpToBottom indicates the floating jump control was activated.
type JumpToBottom struct{}

func (JumpToBottom) isCommand() {}

// AppendEntry requests a new entry be appended to the feed.
type AppendEntry struct {
	Count int // Number of entries to append at once (0 means 1)
}

func (AppendEntry) isCommand() {}

// RemoveEntry requests an entry be removed from the feed.
// A zero ID means the most recent entry.
type RemoveEntry struct {
	ID int64
}

func (RemoveEntry) isCommand() {}

// ReplaceEntry requests the most recent entry's content be swapped.
type ReplaceEntry struct{}

func (ReplaceEntry) isCommand() {}
