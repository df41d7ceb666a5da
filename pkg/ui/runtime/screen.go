package runtime

import "github.com/odvcencio/pinscroll/pkg/ui/theme"

// Screen owns the widget tree, its focus scope, and the render buffer.
type Screen struct {
	width, height int
	root          Widget
	focus         *FocusScope
	buffer        *Buffer
	theme         *theme.Theme
}

// NewScreen creates a new screen with the given dimensions.
func NewScreen(w, h int, th *theme.Theme) *Screen {
	if th == nil {
		th = theme.DefaultTheme()
	}
	return &Screen{
		width:  w,
		height: h,
		focus:  NewFocusScope(),
		buffer: NewBuffer(w, h),
		theme:  th,
	}
}

// Size returns the screen dimensions.
func (s *Screen) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the screen dimensions and re-lays-out the tree.
func (s *Screen) Resize(w, h int) {
	s.width = w
	s.height = h
	s.buffer.Resize(w, h)

	if s.root != nil {
		s.root.Layout(Rect{0, 0, w, h})
	}
}

// Buffer returns the screen's render buffer.
func (s *Screen) Buffer() *Buffer {
	return s.buffer
}

// Theme returns the current theme.
func (s *Screen) Theme() *theme.Theme {
	return s.theme
}

// SetTheme changes the theme.
func (s *Screen) SetTheme(th *theme.Theme) {
	s.theme = th
}

// SetRoot replaces the widget tree and lays it out to the full screen.
func (s *Screen) SetRoot(root Widget) {
	s.root = root
	if root != nil {
		root.Layout(Rect{0, 0, s.width, s.height})
	}
}

// Root returns the root widget.
func (s *Screen) Root() Widget {
	return s.root
}

// FocusScope returns the screen's focus scope.
func (s *Screen) FocusScope() *FocusScope {
	return s.focus
}

// Render draws the widget tree to the buffer.
func (s *Screen) Render() {
	s.buffer.Clear()

	if s.root == nil {
		return
	}

	s.root.Render(RenderContext{
		Buffer:  s.buffer,
		Theme:   s.theme,
		Focused: true,
		Bounds:  Rect{0, 0, s.width, s.height},
	})
}

// HandleMessage dispatches a message to the widget tree. Focus
// commands are consumed here; everything else rides along in the
// result for the app to handle.
func (s *Screen) HandleMessage(msg Message) HandleResult {
	if s.root == nil {
		return Unhandled()
	}

	result := s.root.HandleMessage(msg)
	for _, cmd := range result.Commands {
		switch cmd.(type) {
		case FocusNext:
			s.focus.FocusNext()
		case FocusPrev:
			s.focus.FocusPrev()
		}
	}
	return result
}

// RenderContext provides context to widgets during rendering.
type RenderContext struct {
	Buffer  *Buffer
	Theme   *theme.Theme
	Focused bool // Whether the tree currently receives input
	Bounds  Rect // Widget's allocated bounds
}

// Sub creates a new context for a child widget with adjusted bounds.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	return RenderContext{
		Buffer:  ctx.Buffer,
		Theme:   ctx.Theme,
		Focused: ctx.Focused,
		Bounds:  bounds,
	}
}
