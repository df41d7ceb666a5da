package anchor

import "time"

// Viewport is the geometry surface the coordinator scrolls. The feed
// widget implements it; heights and offsets are in terminal rows.
type Viewport interface {
	// ViewHeight returns the visible height of the scroll region.
	ViewHeight() int

	// ContentHeight returns the total content height, spacer included.
	ContentHeight() int

	// ScrollTop returns the current scroll offset from the top.
	ScrollTop() int

	// SetScrollTop sets the scroll offset. Implementations clamp.
	SetScrollTop(rows int)
}

// Lifecycle is the channel entries use to report measurement and
// animation progress to the coordinator.
type Lifecycle interface {
	// BeginExpand registers (or overwrites) an entry's measured height
	// and marks it animating. The first call while no batch is active
	// opens a batch: the gate closes and a pre-scroll starts.
	BeginExpand(id int64, height int)

	// EndExpand marks an entry's expand transition finished. When the
	// last animating entry reports in, the batch closes.
	EndExpand(id int64)

	// ReportHeight updates a tracked entry's height after an external
	// reflow, without re-entering the gate. Stale animating membership
	// is cleared.
	ReportHeight(id int64, height int)

	// Unmount removes an entry from tracking entirely. Unknown ids are
	// a no-op.
	Unmount(id int64)

	// WaitToAnimate runs fn once the gate is open: immediately if it
	// already is, otherwise when the current batch's pre-scroll lands.
	WaitToAnimate(fn func())
}

// Phase is the coordinator's batch state.
type Phase int

const (
	// PhaseIdle means no batch is active.
	PhaseIdle Phase = iota
	// PhasePreScrolling means the gate is closed and the viewport is
	// smooth-scrolling to the bottom ahead of entry animations.
	PhasePreScrolling
	// PhasePinned means entries are expanding and every tick forces the
	// viewport back to the bottom.
	PhasePinned
	// PhaseSettling means the batch finished and a final settle scroll
	// is correcting residual drift.
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreScrolling:
		return "pre-scrolling"
	case PhasePinned:
		return "pinned"
	case PhaseSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// Config holds the coordinator's animation timings and the bottom
// threshold. Durations of zero complete in a single tick.
type Config struct {
	// PreScroll is the duration of the batch-opening scroll to bottom.
	PreScroll time.Duration
	// Settle is the duration of the drift-correcting scroll after a
	// batch closes.
	Settle time.Duration
	// Jump is the duration of the jump-control scroll.
	Jump time.Duration
	// Entry is the duration of an entry's height expansion. The
	// coordinator does not use it directly; the feed hands it to
	// entries so all timings travel together.
	Entry time.Duration
	// Fallback bounds how long a batch may stay pinned with no entry
	// reporting completion before it is force-closed.
	Fallback time.Duration
	// Epsilon is the near-bottom threshold in rows. Offsets are whole
	// rows, so zero is exact; a row or two forgives scrollbar rounding.
	Epsilon int
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		PreScroll: 260 * time.Millisecond,
		Settle:    320 * time.Millisecond,
		Jump:      520 * time.Millisecond,
		Entry:     200 * time.Millisecond,
		Fallback:  1200 * time.Millisecond,
		Epsilon:   0,
	}
}

// Coordinator owns the feed's layout bookkeeping: the per-entry height
// map, the animating set, the batch state machine, the spacer and
// scrollable derivations, the pin loop, and jump-control visibility.
// It mutates state only from lifecycle callbacks and Tick; there is no
// locking because the UI loop is the sole caller.
type Coordinator struct {
	vp  Viewport
	cfg Config

	gate      *Gate
	heights   map[int64]int
	animating map[int64]struct{}

	phase         Phase
	scroller      *Scroller
	pendingSettle bool
	fallbackAt    time.Time

	spacer     int
	scrollable bool
}

// NewCoordinator creates a coordinator over the given viewport. The
// spacer starts derived, not zero: an empty feed pads the full view.
func NewCoordinator(vp Viewport, cfg Config) *Coordinator {
	c := &Coordinator{
		vp:        vp,
		cfg:       cfg,
		gate:      NewGate(),
		heights:   make(map[int64]int),
		animating: make(map[int64]struct{}),
		phase:     PhaseIdle,
	}
	c.recompute()
	return c
}

// SetTimings replaces the animation timings. Takes effect on the next
// batch; an in-flight scroll keeps its original duration.
func (c *Coordinator) SetTimings(cfg Config) {
	c.cfg = cfg
}

// Config returns the current timings.
func (c *Coordinator) Config() Config {
	return c.cfg
}

// Phase returns the current batch phase.
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Spacer returns the derived top padding in rows.
func (c *Coordinator) Spacer() int {
	return c.spacer
}

// Scrollable reports whether entries fill or exceed the viewport.
func (c *Coordinator) Scrollable() bool {
	return c.scrollable
}

// EntryHeight returns an entry's last recorded height.
func (c *Coordinator) EntryHeight(id int64) (int, bool) {
	h, ok := c.heights[id]
	return h, ok
}

// BeginExpand implements Lifecycle.
func (c *Coordinator) BeginExpand(id int64, height int) {
	if height < 0 {
		height = 0
	}
	c.heights[id] = height
	c.animating[id] = struct{}{}
	c.recompute()

	switch c.phase {
	case PhaseIdle, PhaseSettling:
		c.openBatch()
	case PhasePreScrolling, PhasePinned:
		// Already batching; the entry just joins the tracked set.
	}
}

// EndExpand implements Lifecycle.
func (c *Coordinator) EndExpand(id int64) {
	delete(c.animating, id)
	c.recompute()
	if c.batchActive() && len(c.animating) == 0 {
		c.closeBatch()
	}
}

// ReportHeight implements Lifecycle.
func (c *Coordinator) ReportHeight(id int64, height int) {
	if _, ok := c.heights[id]; !ok {
		return
	}
	if height < 0 {
		height = 0
	}
	c.heights[id] = height
	delete(c.animating, id)
	c.recompute()
	if c.batchActive() && len(c.animating) == 0 {
		c.closeBatch()
	}
}

// Unmount implements Lifecycle.
func (c *Coordinator) Unmount(id int64) {
	delete(c.heights, id)
	delete(c.animating, id)
	c.recompute()
	if c.batchActive() && len(c.animating) == 0 {
		c.closeBatch()
	}
}

// WaitToAnimate implements Lifecycle.
func (c *Coordinator) WaitToAnimate(fn func()) {
	c.gate.Wait(fn)
}

// Tick advances the scroll animation, enforces the pin while entries
// expand, and fires the fallback when a batch has stalled. It returns
// true when anything moved, which the feed uses to mark itself dirty.
func (c *Coordinator) Tick(now time.Time) bool {
	changed := false

	if c.scroller.Active() {
		if c.scroller.Step(now) {
			c.scroller = nil
		}
		changed = true
	}

	if c.pendingSettle {
		c.pendingSettle = false
		c.scroller = NewScroller(c.vp, c.cfg.Settle, EaseSmoothstep, nil)
		changed = true
	}

	// The settling phase ends when its scroll is no longer running,
	// however that happened: landed, cancelled by a user gesture, or
	// replaced by a jump. Tying the transition to the scroller's own
	// completion callback would strand the phase on the other two.
	if c.phase == PhaseSettling && !c.pendingSettle && !c.scroller.Active() {
		c.phase = PhaseIdle
		changed = true
	}

	if c.phase == PhasePinned {
		if c.pinToBottom() {
			changed = true
		}
		if !c.fallbackAt.IsZero() && !now.Before(c.fallbackAt) {
			// No entry ever reported completion; force the batch shut
			// so the viewport is never stuck pinned.
			c.animating = make(map[int64]struct{})
			c.closeBatch()
			changed = true
		}
	}

	return changed
}

// Jump starts the long smooth scroll to the bottom, independent of any
// batch. A no-op while a batch's pre-scroll holds the gate closed.
func (c *Coordinator) Jump() {
	if c.phase == PhasePreScrolling {
		return
	}
	c.scroller = NewScroller(c.vp, c.cfg.Jump, EaseSmoothstep, nil)
}

// CancelUserScroll cancels any in-flight smooth scroll in response to a
// user gesture. Cancellation is suppressed while the batch pre-scroll
// holds the gate closed: that scroll must land deterministically before
// entries are released, or the height bookkeeping breaks.
func (c *Coordinator) CancelUserScroll() {
	if c.phase == PhasePreScrolling {
		return
	}
	c.scroller.Cancel()
}

// Refresh recomputes the derived layout values. The feed calls this on
// resize and after mutating entry order.
func (c *Coordinator) Refresh() {
	c.recompute()
}

// AtBottom reports whether the viewport is within epsilon of the
// bottom.
func (c *Coordinator) AtBottom() bool {
	if c.vp == nil || c.vp.ViewHeight() <= 0 {
		return true
	}
	return maxScrollTop(c.vp)-c.vp.ScrollTop() <= c.cfg.Epsilon
}

// JumpVisible reports whether the floating jump control should show:
// only when the content scrolls, the viewport is away from the bottom,
// and no batch or pin is running (during those the position is forced
// to the bottom and the control would flicker).
func (c *Coordinator) JumpVisible() bool {
	if !c.scrollable || c.phase != PhaseIdle {
		return false
	}
	return !c.AtBottom()
}

// ScrollToBottom snaps the viewport to the bottom instantly.
func (c *Coordinator) ScrollToBottom() {
	if c.vp == nil || c.vp.ViewHeight() <= 0 {
		return
	}
	c.vp.SetScrollTop(maxScrollTop(c.vp))
}

func (c *Coordinator) batchActive() bool {
	return c.phase == PhasePreScrolling || c.phase == PhasePinned
}

// openBatch starts a batch: gate shut, pre-scroll to the bottom, then
// pin and release. With no usable viewport the batch degrades to an
// immediate release so entries are never stranded behind the gate.
func (c *Coordinator) openBatch() {
	c.pendingSettle = false
	if c.vp == nil || c.vp.ViewHeight() <= 0 {
		// No usable viewport: skip the batch entirely and release
		// entries immediately so nothing is stranded behind the gate.
		c.phase = PhaseIdle
		c.fallbackAt = time.Time{}
		c.gate.Open()
		return
	}

	c.phase = PhasePreScrolling
	c.gate.Close()
	c.scroller = NewScroller(c.vp, c.cfg.PreScroll, EaseSmoothstep, func(now time.Time) {
		c.phase = PhasePinned
		c.fallbackAt = now.Add(c.cfg.Fallback)
		c.gate.Open()
	})
}

// closeBatch ends the batch: fallback disarmed, pin stopped (the pin
// only runs in PhasePinned), spacer recomputed, and a settle scroll
// scheduled for the next tick.
func (c *Coordinator) closeBatch() {
	if c.phase == PhasePreScrolling {
		// The batch died before its pre-scroll landed (every animating
		// entry unmounted). Drop the scroll and release any waiters;
		// the gate must never stay shut outside a batch.
		c.scroller.Cancel()
		c.gate.Open()
	}
	c.fallbackAt = time.Time{}
	c.phase = PhaseSettling
	c.recompute()
	c.pendingSettle = true
}

// pinToBottom forces the viewport to the bottom, defeating scroll drift
// from content growing underneath. Returns true if the offset moved.
func (c *Coordinator) pinToBottom() bool {
	if c.vp == nil || c.vp.ViewHeight() <= 0 {
		return false
	}
	want := maxScrollTop(c.vp)
	if c.vp.ScrollTop() == want {
		return false
	}
	c.vp.SetScrollTop(want)
	return true
}

// recompute derives the spacer and scrollability from the height map:
// spacer = max(0, viewHeight - total), scrollable when the remainder is
// within epsilon. Heights are whole rows, so epsilon defaults to zero.
func (c *Coordinator) recompute() {
	if c.vp == nil {
		c.spacer = 0
		c.scrollable = false
		return
	}
	viewHeight := c.vp.ViewHeight()
	if viewHeight <= 0 {
		c.spacer = 0
		c.scrollable = false
		return
	}

	total := 0
	for _, h := range c.heights {
		total += h
	}
	raw := viewHeight - total
	if raw > 0 {
		c.spacer = raw
	} else {
		c.spacer = 0
	}
	c.scrollable = raw <= c.cfg.Epsilon
}

var _ Lifecycle = (*Coordinator)(nil)
