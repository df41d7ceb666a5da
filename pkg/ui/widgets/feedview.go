package widgets

import (
	"github.com/odvcencio/pinscroll/pkg/ui/anchor"
	"github.com/odvcencio/pinscroll/pkg/ui/runtime"
	"github.com/odvcencio/pinscroll/pkg/ui/terminal"
)

const jumpLabel = " ↓ bottom "

// FeedView is the bottom-anchored scroll container. It renders, top to
// bottom: a spacer that keeps sparse content pinned to the bottom edge,
// the entries in append order, and a floating jump-to-bottom control
// overlaid at the bottom-right. It implements anchor.Viewport, and all
// scroll bookkeeping lives in the embedded coordinator.
type FeedView struct {
	FocusableBase
	cfg   anchor.Config
	coord *anchor.Coordinator

	entries []*Entry
	nextID  int64

	scrollTop int
	scratch   *runtime.Buffer
	jumpRect  runtime.Rect
	jumpHover bool
}

// NewFeedView creates a feed with the given animation timings.
func NewFeedView(cfg anchor.Config) *FeedView {
	f := &FeedView{cfg: cfg}
	f.coord = anchor.NewCoordinator(f, cfg)
	return f
}

// Coordinator exposes the coordination engine, mainly for the demo
// shell and tests.
func (f *FeedView) Coordinator() *anchor.Coordinator {
	return f.coord
}

// ApplyTimings updates animation timings for future batches and
// entries.
func (f *FeedView) ApplyTimings(cfg anchor.Config) {
	f.cfg = cfg
	f.coord.SetTimings(cfg)
}

// Viewport implementation.

// ViewHeight returns the visible height of the feed.
func (f *FeedView) ViewHeight() int {
	return f.Bounds().Height
}

// ContentHeight returns the spacer plus the rows entries currently
// occupy. Allocated heights, not measured ones: the scroll offset must
// map onto what is actually rendered.
func (f *FeedView) ContentHeight() int {
	total := f.coord.Spacer()
	for _, e := range f.entries {
		total += e.Height()
	}
	return total
}

// ScrollTop returns the current scroll offset.
func (f *FeedView) ScrollTop() int {
	return f.scrollTop
}

// SetScrollTop sets the scroll offset, clamped to the content.
func (f *FeedView) SetScrollTop(rows int) {
	max := f.ContentHeight() - f.ViewHeight()
	if max < 0 {
		max = 0
	}
	if rows < 0 {
		rows = 0
	}
	if rows > max {
		rows = max
	}
	if rows != f.scrollTop {
		f.scrollTop = rows
		f.Invalidate()
	}
}

// Entry management.

// Append adds content as a new entry at the bottom and returns its id.
// If the feed already has a width the expand handshake starts
// immediately.
func (f *FeedView) Append(content runtime.Widget) int64 {
	f.nextID++
	e := NewEntry(f.nextID, content, f.coord, f.cfg.Entry)
	f.entries = append(f.entries, e)
	if w := f.contentWidth(); w > 0 {
		e.SetWidth(w)
	}
	f.Invalidate()
	return e.ID()
}

// Remove unmounts the entry with the given id. Unknown ids are a no-op.
func (f *FeedView) Remove(id int64) {
	for i, e := range f.entries {
		if e.ID() == id {
			e.Unmount()
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			f.coord.Refresh()
			f.clampScroll()
			f.Invalidate()
			return
		}
	}
}

// RemoveLast unmounts the most recent entry.
func (f *FeedView) RemoveLast() {
	if len(f.entries) == 0 {
		return
	}
	f.Remove(f.entries[len(f.entries)-1].ID())
}

// ReplaceLast swaps the most recent entry's content in place. The new
// height is applied immediately and reported without re-entering the
// gate.
func (f *FeedView) ReplaceLast(content runtime.Widget) {
	if len(f.entries) == 0 {
		return
	}
	f.entries[len(f.entries)-1].SetContent(content)
	f.coord.Refresh()
	f.clampScroll()
	f.Invalidate()
}

// Len returns the number of entries.
func (f *FeedView) Len() int {
	return len(f.entries)
}

// Widget implementation.

// Measure wants all the space it can get.
func (f *FeedView) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.MaxSize()
}

// Layout assigns bounds, propagates the content width to entries (which
// triggers the expand handshake for freshly appended ones), and
// recomputes the derived layout values.
func (f *FeedView) Layout(bounds runtime.Rect) {
	f.Base.Layout(bounds)
	if w := f.contentWidth(); w > 0 {
		for _, e := range f.entries {
			e.SetWidth(w)
		}
	}
	f.coord.Refresh()
	f.clampScroll()
}

// HandleMessage routes frame ticks to the coordinator and entries, and
// scroll input to the viewport.
func (f *FeedView) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.TickMsg:
		changed := f.coord.Tick(m.Time)
		for _, e := range f.entries {
			if e.Tick(m.Time) {
				changed = true
			}
		}
		if !changed {
			return runtime.Unhandled()
		}
		f.coord.Refresh()
		f.clampScroll()
		f.Invalidate()
		return runtime.Handled()

	case runtime.MouseMsg:
		return f.handleMouse(m)

	case runtime.KeyMsg:
		return f.handleKey(m)
	}
	return runtime.Unhandled()
}

func (f *FeedView) handleMouse(m runtime.MouseMsg) runtime.HandleResult {
	if !f.Bounds().Contains(m.X, m.Y) {
		return runtime.Unhandled()
	}

	switch {
	case m.Button == runtime.MouseWheelUp:
		f.userScroll(-3)
		return runtime.Handled()
	case m.Button == runtime.MouseWheelDown:
		f.userScroll(3)
		return runtime.Handled()
	case m.Button == runtime.MouseLeft && m.Action == runtime.MousePress:
		if f.jumpRect.Contains(m.X, m.Y) {
			f.coord.Jump()
			f.Invalidate()
			return runtime.Handled()
		}
		// A press inside the feed is a user gesture; it cancels any
		// smooth scroll the same way a wheel tick does.
		f.coord.CancelUserScroll()
		return runtime.Handled()
	case m.Action == runtime.MouseMove:
		hover := f.jumpRect.Contains(m.X, m.Y)
		if hover != f.jumpHover {
			f.jumpHover = hover
			f.Invalidate()
			return runtime.Handled()
		}
	}
	return runtime.Unhandled()
}

func (f *FeedView) handleKey(m runtime.KeyMsg) runtime.HandleResult {
	page := f.ViewHeight() - 1
	if page < 1 {
		page = 1
	}

	switch m.Key {
	case terminal.KeyUp:
		f.userScroll(-1)
	case terminal.KeyDown:
		f.userScroll(1)
	case terminal.KeyPageUp:
		f.userScroll(-page)
	case terminal.KeyPageDown:
		f.userScroll(page)
	case terminal.KeyHome:
		f.coord.CancelUserScroll()
		f.SetScrollTop(0)
	case terminal.KeyEnd:
		f.coord.Jump()
		f.Invalidate()
	case terminal.KeyTab:
		// Hand focus to a neighboring widget in the scope.
		if m.Shift {
			return runtime.WithCommand(runtime.FocusPrev{})
		}
		return runtime.WithCommand(runtime.FocusNext{})
	default:
		return runtime.Unhandled()
	}
	return runtime.Handled()
}

// userScroll applies a user-originated scroll step: it cancels an
// in-flight smooth scroll (unless the pre-scroll suppresses that) and
// moves the offset.
func (f *FeedView) userScroll(delta int) {
	f.coord.CancelUserScroll()
	f.SetScrollTop(f.scrollTop + delta)
	f.coord.Refresh()
	f.Invalidate()
}

// Render draws the spacer, the visible slice of each entry, the
// scrollbar, and the floating jump control.
func (f *FeedView) Render(ctx runtime.RenderContext) {
	bounds := f.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	th := ctx.Theme

	ctx.Buffer.Fill(bounds, ' ', th.Background)

	w := f.contentWidth()
	y := bounds.Y - f.scrollTop

	// Spacer region above the entries.
	spacer := f.coord.Spacer()
	if spacer > 0 {
		spacerRect := runtime.Rect{X: bounds.X, Y: y, Width: w, Height: spacer}
		if vis := spacerRect.Intersection(bounds); vis.Height > 0 {
			ctx.Buffer.Fill(vis, ' ', th.SurfaceDim)
		}
	}
	y += spacer

	for _, e := range f.entries {
		h := e.Height()
		if h <= 0 {
			continue
		}
		rect := runtime.Rect{X: bounds.X, Y: y, Width: w, Height: h}
		y += h

		vis := rect.Intersection(bounds)
		if vis.Height <= 0 {
			continue
		}
		if vis == rect {
			e.Layout(rect)
			e.Render(ctx.Sub(rect))
			continue
		}
		f.renderClipped(ctx, e, rect, vis)
	}

	f.renderScrollbar(ctx)
	f.renderJump(ctx)
	f.ClearInvalidation()
}

// renderClipped renders a partially visible entry through a scratch
// buffer and blits only the rows inside the viewport.
func (f *FeedView) renderClipped(ctx runtime.RenderContext, e *Entry, rect, vis runtime.Rect) {
	if f.scratch == nil {
		f.scratch = runtime.NewBuffer(rect.Width, rect.Height)
	} else {
		f.scratch.Resize(rect.Width, rect.Height)
	}
	f.scratch.Fill(runtime.Rect{Width: rect.Width, Height: rect.Height}, ' ', ctx.Theme.Background)

	local := runtime.Rect{Width: rect.Width, Height: rect.Height}
	e.Layout(local)
	e.Render(runtime.RenderContext{
		Buffer:  f.scratch,
		Theme:   ctx.Theme,
		Focused: ctx.Focused,
		Bounds:  local,
	})

	for row := 0; row < vis.Height; row++ {
		srcY := vis.Y - rect.Y + row
		for col := 0; col < vis.Width; col++ {
			cell := f.scratch.Get(col, srcY)
			ctx.Buffer.Set(vis.X+col, vis.Y+row, cell.Rune, cell.Style)
		}
	}
}

func (f *FeedView) renderScrollbar(ctx runtime.RenderContext) {
	bounds := f.Bounds()
	content := f.ContentHeight()
	if !f.coord.Scrollable() || content <= bounds.Height {
		return
	}
	th := ctx.Theme
	x := bounds.X + bounds.Width - 1

	thumbH := bounds.Height * bounds.Height / content
	if thumbH < 1 {
		thumbH = 1
	}
	maxTop := content - bounds.Height
	thumbY := 0
	if maxTop > 0 {
		thumbY = f.scrollTop * (bounds.Height - thumbH) / maxTop
	}

	for row := 0; row < bounds.Height; row++ {
		if row >= thumbY && row < thumbY+thumbH {
			ctx.Buffer.Set(x, bounds.Y+row, '█', th.ScrollThumb)
		} else {
			ctx.Buffer.Set(x, bounds.Y+row, '░', th.Scrollbar)
		}
	}
}

// renderJump overlays the jump control at the bottom-right. The rect is
// recomputed from live geometry every render; when hidden it is zeroed
// so stale hit tests cannot trigger a jump.
func (f *FeedView) renderJump(ctx runtime.RenderContext) {
	if !f.coord.JumpVisible() {
		f.jumpRect = runtime.ZeroRect
		f.jumpHover = false
		return
	}
	bounds := f.Bounds()
	labelW := len([]rune(jumpLabel))
	x := bounds.X + bounds.Width - 1 - labelW - 1
	yPos := bounds.Y + bounds.Height - 2
	if x < bounds.X || yPos < bounds.Y {
		f.jumpRect = runtime.ZeroRect
		return
	}

	style := ctx.Theme.JumpButton
	if f.jumpHover {
		style = ctx.Theme.JumpHover
	}
	ctx.Buffer.SetString(x, yPos, jumpLabel, style)
	f.jumpRect = runtime.Rect{X: x, Y: yPos, Width: labelW, Height: 1}
}

func (f *FeedView) contentWidth() int {
	w := f.Bounds().Width - 1
	if w < 0 {
		w = 0
	}
	return w
}

func (f *FeedView) clampScroll() {
	f.SetScrollTop(f.scrollTop)
}

var _ runtime.Widget = (*FeedView)(nil)
var _ anchor.Viewport = (*FeedView)(nil)
