package widgets

import (
	"time"

	"github.com/odvcencio/pinscroll/pkg/ui/anchor"
	"github.com/odvcencio/pinscroll/pkg/ui/runtime"
)

// Entry wraps one unit of feed content and animates its allocated
// height from zero to the content's natural height. It owns no shared
// state: it measures its content, reports through the lifecycle
// channel, waits on the gate, and drives its own height transition on
// frame ticks.
type Entry struct {
	Base
	id       int64
	content  runtime.Widget
	lc       anchor.Lifecycle
	duration time.Duration
	easing   anchor.EasingFunc

	width     int
	measured  int
	shown     float64
	mounted   bool
	released  bool
	animating bool
	settled   bool
	unmounted bool
	animStart time.Time
}

// NewEntry creates an entry for the given content. The lifecycle is the
// coordinator's channel; duration is the height transition length.
func NewEntry(id int64, content runtime.Widget, lc anchor.Lifecycle, duration time.Duration) *Entry {
	return &Entry{
		id:       id,
		content:  content,
		lc:       lc,
		duration: duration,
		easing:   anchor.EaseSmoothstep,
	}
}

// ID returns the entry's stable identity.
func (e *Entry) ID() int64 {
	return e.id
}

// Content returns the wrapped content widget.
func (e *Entry) Content() runtime.Widget {
	return e.content
}

// Animating reports whether the height transition is in flight.
func (e *Entry) Animating() bool {
	return e.animating
}

// MeasuredHeight returns the content's natural height at the current
// width.
func (e *Entry) MeasuredHeight() int {
	return e.measured
}

// Height returns the rows the entry currently occupies: zero until the
// gate releases it, the eased value while expanding, and the measured
// height once settled.
func (e *Entry) Height() int {
	switch {
	case e == nil || e.unmounted || !e.mounted:
		return 0
	case e.settled:
		return e.measured
	case !e.released:
		return 0
	default:
		return int(e.shown + 0.5)
	}
}

// SetWidth gives the entry its layout width. The first call measures
// the content and begins the expand handshake: height is registered
// synchronously (so the coordinator's pre-scroll sees the final
// occupied size up front), then the entry waits on the gate. Later
// width changes re-measure; a settled entry applies the new height
// immediately and reports it without re-entering the gate.
func (e *Entry) SetWidth(w int) {
	if e == nil || e.unmounted || w <= 0 || e.lc == nil || e.content == nil {
		return
	}
	if e.mounted && w == e.width {
		return
	}
	e.width = w
	h := e.content.Measure(runtime.TightWidth(w)).Height
	if h < 1 {
		h = 1
	}

	switch {
	case !e.mounted:
		e.mounted = true
		e.measured = h
		e.lc.BeginExpand(e.id, h)
		e.lc.WaitToAnimate(func() {
			if e.unmounted {
				return
			}
			e.released = true
			e.animating = true
			e.animStart = time.Time{}
		})
	case e.settled:
		if h != e.measured {
			e.measured = h
			e.shown = float64(h)
			e.lc.ReportHeight(e.id, h)
		}
	default:
		// Still gated or mid-transition: retarget the animation and
		// overwrite the registered height.
		e.measured = h
		e.lc.BeginExpand(e.id, h)
	}
}

// SetContent swaps the wrapped content in place and re-measures at the
// current width.
func (e *Entry) SetContent(content runtime.Widget) {
	if e == nil || e.unmounted || content == nil {
		return
	}
	e.content = content
	if !e.mounted || e.width <= 0 {
		return
	}
	h := content.Measure(runtime.TightWidth(e.width)).Height
	if h < 1 {
		h = 1
	}
	if e.settled {
		if h != e.measured {
			e.measured = h
			e.shown = float64(h)
			e.lc.ReportHeight(e.id, h)
		}
		return
	}
	e.measured = h
	e.lc.BeginExpand(e.id, h)
}

// Tick advances the height transition. Returns true when the allocated
// height changed this frame.
func (e *Entry) Tick(now time.Time) bool {
	if e == nil || !e.animating || e.unmounted {
		return false
	}
	if e.animStart.IsZero() {
		e.animStart = now
	}

	t := 1.0
	if e.duration > 0 {
		t = float64(now.Sub(e.animStart)) / float64(e.duration)
	}
	if t >= 1.0 {
		e.shown = float64(e.measured)
		e.animating = false
		e.settled = true
		e.lc.EndExpand(e.id)
		return true
	}

	before := e.Height()
	e.shown = e.easing(t) * float64(e.measured)
	return e.Height() != before
}

// Unmount removes the entry from coordinator tracking. Idempotent.
func (e *Entry) Unmount() {
	if e == nil || e.unmounted {
		return
	}
	e.unmounted = true
	e.animating = false
	if e.mounted && e.lc != nil {
		e.lc.Unmount(e.id)
	}
}

// Measure returns the entry's current allocated size.
func (e *Entry) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: e.width, Height: e.Height()})
}

// Layout stores bounds and forwards them to the content.
func (e *Entry) Layout(bounds runtime.Rect) {
	e.Base.Layout(bounds)
	if e.content != nil {
		e.content.Layout(bounds)
	}
}

// Render draws the content clipped to the entry's allocated bounds.
func (e *Entry) Render(ctx runtime.RenderContext) {
	if e == nil || e.content == nil || e.unmounted {
		return
	}
	bounds := e.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	e.content.Render(ctx.Sub(bounds))
	e.ClearInvalidation()
}
