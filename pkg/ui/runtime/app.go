package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/odvcencio/pinscroll/pkg/ui/backend"
	"github.com/odvcencio/pinscroll/pkg/ui/terminal"
	"github.com/odvcencio/pinscroll/pkg/ui/theme"
)

// UpdateFunc handles one message. Return true to request a render.
type UpdateFunc func(app *App, msg Message) bool

// CommandHandler handles commands that bubble past the runtime.
// Return true to request a render.
type CommandHandler func(cmd Command) bool

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Widget
	Theme          *theme.Theme
	Update         UpdateFunc
	CommandHandler CommandHandler
	MessageBuffer  int
	TickRate       time.Duration
}

// App drives a widget tree: it polls the backend for input, feeds
// messages and frame ticks through the update function, and flushes
// dirty cells back out.
type App struct {
	backend        backend.Backend
	screen         *Screen
	root           Widget
	theme          *theme.Theme
	update         UpdateFunc
	commandHandler CommandHandler
	messages       chan Message
	tickRate       time.Duration

	running bool
	dirty   bool
	flushMu sync.Mutex
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	buffered := cfg.MessageBuffer
	if buffered <= 0 {
		buffered = 128
	}
	return &App{
		backend:        cfg.Backend,
		root:           cfg.Root,
		theme:          cfg.Theme,
		update:         cfg.Update,
		commandHandler: cfg.CommandHandler,
		messages:       make(chan Message, buffered),
		tickRate:       cfg.TickRate,
	}
}

// Screen returns the active screen, nil before Run.
func (a *App) Screen() *Screen {
	return a.screen
}

// SetRoot swaps the root widget.
func (a *App) SetRoot(root Widget) {
	a.root = root
	if a.screen != nil {
		a.screen.SetRoot(root)
		a.dirty = true
	}
}

// Post queues a message for the event loop. Messages are dropped when
// the queue is full rather than blocking the sender.
func (a *App) Post(msg Message) {
	select {
	case a.messages <- msg:
	default:
	}
}

// Run starts the event loop and blocks until a Quit command or context
// cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("backend is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	if a.theme == nil {
		a.theme = theme.DefaultTheme()
	}
	if a.update == nil {
		a.update = DefaultUpdate
	}

	w, h := a.backend.Size()
	a.screen = NewScreen(w, h, a.theme)
	a.screen.SetRoot(a.root)

	a.running = true
	a.dirty = true

	go a.pollEvents()

	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for a.running {
		select {
		case <-ctx.Done():
			a.running = false
		case msg := <-a.messages:
			a.dispatch(msg)
		case now := <-ticks:
			a.dispatch(TickMsg{Time: now})
		}

		if a.dirty {
			a.flush()
			a.dirty = false
		}
	}

	return ctx.Err()
}

func (a *App) dispatch(msg Message) {
	if a.update(a, msg) {
		a.dirty = true
	}
}

// DefaultUpdate routes messages into the widget tree and runs any
// commands the tree emits. Custom update functions usually end by
// delegating here.
func DefaultUpdate(app *App, msg Message) bool {
	if app == nil || app.screen == nil {
		return false
	}

	if m, ok := msg.(ResizeMsg); ok {
		app.screen.Resize(m.Width, m.Height)
		return true
	}

	result := app.screen.HandleMessage(msg)
	dirty := result.Handled
	for _, cmd := range result.Commands {
		if app.handleCommand(cmd) {
			dirty = true
		}
	}
	return dirty
}

func (a *App) handleCommand(cmd Command) bool {
	switch cmd.(type) {
	case Quit:
		a.running = false
		return false
	case Refresh:
		if a.screen != nil {
			a.screen.Buffer().MarkAllDirty()
		}
		return true
	default:
		if a.commandHandler != nil {
			return a.commandHandler(cmd)
		}
		return false
	}
}

// pollEvents translates backend input into messages on its own
// goroutine. It exits when the backend is finalized and PollEvent
// returns nil.
func (a *App) pollEvents() {
	for a.running {
		switch e := a.backend.PollEvent().(type) {
		case nil:
			continue
		case terminal.KeyEvent:
			a.Post(KeyMsg{Key: e.Key, Rune: e.Rune, Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift})
		case terminal.ResizeEvent:
			a.Post(ResizeMsg{Width: e.Width, Height: e.Height})
		case terminal.MouseEvent:
			a.Post(MouseMsg{
				X:      e.X,
				Y:      e.Y,
				Button: MouseButton(e.Button),
				Action: MouseAction(e.Action),
				Alt:    e.Alt,
				Ctrl:   e.Ctrl,
				Shift:  e.Shift,
			})
		}
	}
}

// flush renders the tree and pushes changed cells to the backend.
// When most of the screen changed, a straight sweep beats walking the
// dirty set cell by cell.
func (a *App) flush() {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	if a.screen == nil {
		return
	}

	a.screen.Render()
	buf := a.screen.Buffer()

	if buf.IsDirty() {
		w, h := buf.Size()
		if buf.DirtyCount() > w*h/2 {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					cell := buf.Get(x, y)
					a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
				}
			}
		} else {
			buf.ForEachDirtyCell(func(x, y int, cell Cell) {
				a.backend.SetContent(x, y, cell.Rune, nil, cell.Style)
			})
		}
		buf.ClearDirty()
	}

	a.backend.Show()
}
