package anchor

import (
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		PreScroll: 80 * time.Millisecond,
		Settle:    60 * time.Millisecond,
		Jump:      100 * time.Millisecond,
		Entry:     50 * time.Millisecond,
		Fallback:  500 * time.Millisecond,
		Epsilon:   0,
	}
}

// tick advances the coordinator by n frames of dt and returns the final
// time.
func tick(c *Coordinator, from time.Time, n int, dt time.Duration) time.Time {
	now := from
	for i := 0; i < n; i++ {
		now = now.Add(dt)
		c.Tick(now)
	}
	return now
}

// runBatch drives a coordinator from PreScrolling all the way back to
// Idle, calling EndExpand for the given ids once the gate opens.
func runBatch(t *testing.T, c *Coordinator, from time.Time, ids ...int64) time.Time {
	t.Helper()
	now := tick(c, from, 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase after pre-scroll = %v, want pinned", c.Phase())
	}
	for _, id := range ids {
		c.EndExpand(id)
	}
	if c.Phase() != PhaseSettling {
		t.Fatalf("phase after all entries ended = %v, want settling", c.Phase())
	}
	now = tick(c, now, 10, 16*time.Millisecond)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after settle = %v, want idle", c.Phase())
	}
	return now
}

func TestSpacerInvariant(t *testing.T) {
	tests := []struct {
		name       string
		view       int
		heights    []int
		spacer     int
		scrollable bool
	}{
		{"empty", 400, nil, 400, false},
		{"single_small", 400, []int{100}, 300, false},
		{"exact_fill", 400, []int{400}, 0, true},
		{"overflow", 400, []int{150, 150, 150}, 0, true},
		{"two_small", 400, []int{50, 100}, 250, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := &fakeViewport{view: tt.view, content: tt.view}
			c := NewCoordinator(vp, testConfig())
			for i, h := range tt.heights {
				c.BeginExpand(int64(i+1), h)
			}
			if c.Spacer() != tt.spacer {
				t.Errorf("spacer = %d, want %d", c.Spacer(), tt.spacer)
			}
			if c.Scrollable() != tt.scrollable {
				t.Errorf("scrollable = %v, want %v", c.Scrollable(), tt.scrollable)
			}
		})
	}
}

func TestBatchLifecycle(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	if c.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %v, want idle", c.Phase())
	}

	c.BeginExpand(1, 150)
	if c.Phase() != PhasePreScrolling {
		t.Fatalf("phase after first begin = %v, want pre-scrolling", c.Phase())
	}
	if c.gate.IsOpen() {
		t.Fatal("gate should close when the batch opens")
	}

	released := false
	c.WaitToAnimate(func() { released = true })
	if released {
		t.Fatal("waiter released while the gate is closed")
	}

	now := tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase after pre-scroll = %v, want pinned", c.Phase())
	}
	if !released {
		t.Fatal("waiter not released when the gate opened")
	}
	if c.fallbackAt.IsZero() {
		t.Fatal("fallback timer not armed on pin")
	}

	c.EndExpand(1)
	if c.Phase() != PhaseSettling {
		t.Fatalf("phase after last end = %v, want settling", c.Phase())
	}
	if !c.fallbackAt.IsZero() {
		t.Fatal("fallback timer not disarmed on batch close")
	}

	tick(c, now, 10, 16*time.Millisecond)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after settle = %v, want idle", c.Phase())
	}
}

func TestGateReleaseOrdering(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	var events []string
	begin := func(id int64, h int) {
		c.BeginExpand(id, h)
		events = append(events, "begin")
		c.WaitToAnimate(func() { events = append(events, "animate") })
	}
	begin(1, 150)
	begin(2, 150)
	begin(3, 150)

	tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)

	want := []string{"begin", "begin", "begin", "animate", "animate", "animate"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestBatchSingularity(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	// Entries arriving in quick succession join the batch already in
	// flight instead of each triggering a pre-scroll.
	c.BeginExpand(1, 150)
	now := tick(c, time.Unix(100, 0), 2, 16*time.Millisecond)
	c.BeginExpand(2, 150)
	c.BeginExpand(3, 150)
	if c.Phase() != PhasePreScrolling {
		t.Fatalf("phase = %v, want pre-scrolling (no restart)", c.Phase())
	}

	now = tick(c, now, 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned", c.Phase())
	}

	// A begin while pinned joins the set without closing the gate.
	c.BeginExpand(4, 150)
	if !c.gate.IsOpen() {
		t.Fatal("gate closed by a begin during the pinned phase")
	}
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned", c.Phase())
	}

	for id := int64(1); id <= 4; id++ {
		c.EndExpand(id)
	}
	if c.Phase() != PhaseSettling {
		t.Fatalf("phase = %v, want settling after one cycle", c.Phase())
	}
	tick(c, now, 10, 16*time.Millisecond)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", c.Phase())
	}
}

func TestFallbackForceClosesStalledBatch(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	cfg := testConfig()
	c := NewCoordinator(vp, cfg)

	c.BeginExpand(1, 150)
	now := tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned", c.Phase())
	}

	// Entry never reports completion; the fallback must force the
	// batch shut after the bounded wait.
	c.Tick(now.Add(cfg.Fallback + time.Millisecond))
	if c.Phase() != PhaseSettling {
		t.Fatalf("phase = %v, want settling after fallback", c.Phase())
	}
	if len(c.animating) != 0 {
		t.Errorf("animating set not cleared by fallback")
	}

	tick(c, now.Add(cfg.Fallback), 10, 16*time.Millisecond)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", c.Phase())
	}
}

func TestUnmountIdempotent(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	// Unknown id is a no-op.
	c.Unmount(99)
	if c.Spacer() != 400 {
		t.Errorf("spacer = %d, want 400", c.Spacer())
	}

	c.BeginExpand(1, 150)
	runBatch(t, c, time.Unix(100, 0), 1)

	c.Unmount(1)
	if c.Spacer() != 400 {
		t.Errorf("spacer after unmount = %d, want 400", c.Spacer())
	}
	c.Unmount(1)
	if _, ok := c.EntryHeight(1); ok {
		t.Error("entry still tracked after unmount")
	}
}

func TestUnmountOfLastAnimatingEntryClosesBatch(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 150)
	tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned", c.Phase())
	}

	c.Unmount(1)
	if c.Phase() != PhaseSettling {
		t.Fatalf("phase = %v, want settling after last entry unmounted", c.Phase())
	}
}

func TestReportHeightAfterSettle(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 150)
	runBatch(t, c, time.Unix(100, 0), 1)
	if c.Spacer() != 250 {
		t.Fatalf("spacer = %d, want 250", c.Spacer())
	}

	// External reflow changes the entry's height; bookkeeping updates
	// without a new batch.
	c.ReportHeight(1, 220)
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle (no batch re-opened)", c.Phase())
	}
	if h, _ := c.EntryHeight(1); h != 220 {
		t.Errorf("height = %d, want 220", h)
	}
	if c.Spacer() != 180 {
		t.Errorf("spacer = %d, want 180", c.Spacer())
	}

	// Unknown id is ignored.
	c.ReportHeight(42, 10)
	if _, ok := c.EntryHeight(42); ok {
		t.Error("report for unknown id created a tracked entry")
	}
}

func TestJumpVisibility(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 10}
	c := NewCoordinator(vp, testConfig())

	// Not scrollable: never visible.
	c.BeginExpand(1, 4)
	runBatch(t, c, time.Unix(100, 0), 1)
	if c.JumpVisible() {
		t.Error("jump visible while content fits the viewport")
	}

	// Make the content scroll and move away from the bottom.
	c.BeginExpand(2, 20)
	now := runBatch(t, c, time.Unix(200, 0), 2)
	vp.content = 24
	vp.SetScrollTop(vp.content) // clamps to bottom
	if c.JumpVisible() {
		t.Error("jump visible while at the bottom")
	}
	vp.SetScrollTop(0)
	if !c.JumpVisible() {
		t.Error("jump hidden while scrolled away from the bottom")
	}

	// Suppressed for the whole batch: pre-scroll, pin, settle.
	c.BeginExpand(3, 5)
	if c.JumpVisible() {
		t.Error("jump visible during pre-scroll")
	}
	now = tick(c, now, 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned", c.Phase())
	}
	vp.SetScrollTop(0)
	if c.JumpVisible() {
		t.Error("jump visible while pinned")
	}
	c.EndExpand(3)
	vp.SetScrollTop(0)
	if c.JumpVisible() {
		t.Error("jump visible while settling")
	}
}

func TestCancelSuppressedDuringPreScroll(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 50}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 8)
	if c.Phase() != PhasePreScrolling {
		t.Fatalf("phase = %v, want pre-scrolling", c.Phase())
	}

	// A user gesture mid pre-scroll must not cancel it; the scroll has
	// to land before entries are released.
	c.CancelUserScroll()
	if !c.scroller.Active() {
		t.Fatal("pre-scroll cancelled during the closed-gate phase")
	}

	tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned (pre-scroll completed)", c.Phase())
	}
}

func TestCancelStopsJumpScroll(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 100}
	c := NewCoordinator(vp, testConfig())

	c.Jump()
	now := time.Unix(100, 0)
	c.Tick(now)
	c.Tick(now.Add(16 * time.Millisecond))
	top := vp.top

	c.CancelUserScroll()
	c.Tick(now.Add(32 * time.Millisecond))
	c.Tick(now.Add(48 * time.Millisecond))
	if vp.top != top {
		t.Errorf("viewport moved after cancel: %d -> %d", top, vp.top)
	}

	// Cancelling again with nothing in flight is a no-op.
	c.CancelUserScroll()
}

func TestCancelDuringSettleStillReachesIdle(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 10}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 12)
	now := tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned", c.Phase())
	}
	c.EndExpand(1)
	now = tick(c, now, 1, 16*time.Millisecond) // settle scroll starts

	// A user gesture cancels the settle scroll mid-flight. The phase
	// must still drain back to idle.
	c.CancelUserScroll()
	tick(c, now, 5, 16*time.Millisecond)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v after cancelled settle, want idle", c.Phase())
	}

	vp.content = 22
	vp.SetScrollTop(0)
	if !c.JumpVisible() {
		t.Error("jump hidden on an idle, scrollable feed away from the bottom")
	}
}

func TestJumpDuringSettleStillReachesIdle(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 30}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 12)
	now := tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	c.EndExpand(1)
	now = tick(c, now, 1, 16*time.Millisecond) // settle scroll starts

	// A jump replaces the settle scroll. When it lands the batch is
	// over all the same.
	c.Jump()
	tick(c, now, 10, 16*time.Millisecond)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v after jump replaced the settle, want idle", c.Phase())
	}
	if !c.AtBottom() {
		t.Errorf("not at bottom after jump: top = %d of %d", vp.top, vp.content)
	}
}

func TestUnmountDuringPreScrollReopensGate(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 150)
	tick(c, time.Unix(100, 0), 2, 16*time.Millisecond)
	if c.Phase() != PhasePreScrolling {
		t.Fatalf("phase = %v, want pre-scrolling", c.Phase())
	}

	// The only animating entry unmounts before the pre-scroll lands.
	// The batch dies; the gate must reopen and the scroll must stop.
	c.Unmount(1)
	if !c.gate.IsOpen() {
		t.Fatal("gate still closed after the batch died mid pre-scroll")
	}
	if c.scroller.Active() {
		t.Error("pre-scroll still running after the batch died")
	}

	released := false
	c.WaitToAnimate(func() { released = true })
	if !released {
		t.Error("waiter stranded after the batch died")
	}

	tick(c, time.Unix(101, 0), 10, 16*time.Millisecond)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", c.Phase())
	}
}

func TestBeginExpandDuringSettlingReopensBatch(t *testing.T) {
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 150)
	now := tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	c.EndExpand(1)
	if c.Phase() != PhaseSettling {
		t.Fatalf("phase = %v, want settling", c.Phase())
	}

	c.BeginExpand(2, 150)
	if c.Phase() != PhasePreScrolling {
		t.Fatalf("phase = %v, want pre-scrolling (fresh batch)", c.Phase())
	}
	if c.gate.IsOpen() {
		t.Fatal("gate open at the start of the fresh batch")
	}

	runBatch(t, c, now, 2)
}

func TestScenarioThreeEntriesFillViewport(t *testing.T) {
	// Container 400 rows; three 150-row entries land in one batch.
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	for id := int64(1); id <= 3; id++ {
		c.BeginExpand(id, 150)
	}
	now := tick(c, time.Unix(100, 0), 10, 16*time.Millisecond)
	if c.Phase() != PhasePinned {
		t.Fatalf("phase = %v, want pinned", c.Phase())
	}

	// Entries expand: content grows past the viewport. The pin loop
	// must hold the bottom.
	vp.content = 450
	c.Tick(now.Add(16 * time.Millisecond))
	if vp.top != 50 {
		t.Errorf("pinned offset = %d, want 50", vp.top)
	}

	for id := int64(1); id <= 3; id++ {
		c.EndExpand(id)
	}
	tick(c, now, 10, 16*time.Millisecond)

	if c.Spacer() != 0 {
		t.Errorf("spacer = %d, want 0", c.Spacer())
	}
	if !c.Scrollable() {
		t.Error("scrollable = false, want true")
	}
	if !c.AtBottom() {
		t.Errorf("not at bottom: top = %d of %d", vp.top, vp.content)
	}
}

func TestScenarioSingleSmallEntry(t *testing.T) {
	// Container 400 rows; one 100-row entry.
	vp := &fakeViewport{view: 400, content: 400}
	c := NewCoordinator(vp, testConfig())

	c.BeginExpand(1, 100)
	runBatch(t, c, time.Unix(100, 0), 1)

	if c.Spacer() != 300 {
		t.Errorf("spacer = %d, want 300", c.Spacer())
	}
	if c.Scrollable() {
		t.Error("scrollable = true, want false")
	}
	if c.JumpVisible() {
		t.Error("jump visible for non-scrollable content")
	}
}

func TestNoViewportDegradesToNoops(t *testing.T) {
	c := NewCoordinator(nil, testConfig())

	released := false
	c.BeginExpand(1, 100)
	c.WaitToAnimate(func() { released = true })
	if !released {
		t.Error("entry stranded behind the gate with no viewport")
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle (no batch without a viewport)", c.Phase())
	}

	// Nothing here may panic.
	c.Tick(time.Unix(100, 0))
	c.Jump()
	c.Tick(time.Unix(101, 0))
	c.CancelUserScroll()
	c.ScrollToBottom()
	c.EndExpand(1)

	if c.Spacer() != 0 || c.Scrollable() {
		t.Errorf("spacer = %d scrollable = %v, want 0 false", c.Spacer(), c.Scrollable())
	}
}

func TestZeroHeightViewportDegradesToNoops(t *testing.T) {
	vp := &fakeViewport{view: 0, content: 0}
	c := NewCoordinator(vp, testConfig())

	released := false
	c.BeginExpand(1, 100)
	c.WaitToAnimate(func() { released = true })
	if !released {
		t.Error("entry stranded behind the gate with a zero-height viewport")
	}
	if c.JumpVisible() {
		t.Error("jump visible with a zero-height viewport")
	}
}
