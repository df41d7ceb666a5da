package anchor

import (
	"testing"
	"time"
)

// fakeViewport is a controllable Viewport for coordinator and scroller
// tests. Heights are rows, like the real feed.
type fakeViewport struct {
	view    int
	content int
	top     int
}

func (v *fakeViewport) ViewHeight() int    { return v.view }
func (v *fakeViewport) ContentHeight() int { return v.content }
func (v *fakeViewport) ScrollTop() int     { return v.top }

func (v *fakeViewport) SetScrollTop(rows int) {
	max := v.content - v.view
	if max < 0 {
		max = 0
	}
	if rows < 0 {
		rows = 0
	}
	if rows > max {
		rows = max
	}
	v.top = rows
}

func TestScrollerReachesBottom(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 50}
	doneCount := 0
	s := NewScroller(vp, 100*time.Millisecond, EaseSmoothstep, func(time.Time) { doneCount++ })

	t0 := time.Unix(100, 0)
	if s.Step(t0) {
		t.Fatal("scroller finished on the first step")
	}
	if s.Step(t0.Add(50 * time.Millisecond)) {
		t.Fatal("scroller finished at the midpoint")
	}
	if vp.top <= 0 || vp.top >= 40 {
		t.Errorf("midpoint offset = %d, want strictly between 0 and 40", vp.top)
	}

	if !s.Step(t0.Add(100 * time.Millisecond)) {
		t.Fatal("scroller should finish at the deadline")
	}
	if vp.top != 40 {
		t.Errorf("final offset = %d, want 40", vp.top)
	}
	if doneCount != 1 {
		t.Errorf("completion fired %d times, want 1", doneCount)
	}

	// Stepping a finished scroller stays finished and fires nothing.
	if !s.Step(t0.Add(200 * time.Millisecond)) {
		t.Error("finished scroller should report done")
	}
	if doneCount != 1 {
		t.Errorf("completion fired %d times after extra step, want 1", doneCount)
	}
}

func TestScrollerRetargetsGrowingContent(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 30}
	s := NewScroller(vp, 100*time.Millisecond, EaseLinear, nil)

	t0 := time.Unix(100, 0)
	s.Step(t0)
	s.Step(t0.Add(50 * time.Millisecond))

	// Content grows mid-flight; the bottom target moves with it.
	vp.content = 60
	s.Step(t0.Add(100 * time.Millisecond))
	if vp.top != 50 {
		t.Errorf("final offset = %d, want 50 (new bottom)", vp.top)
	}
}

func TestScrollerCancelIsIdempotent(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 50}
	fired := false
	s := NewScroller(vp, 100*time.Millisecond, nil, func(time.Time) { fired = true })

	t0 := time.Unix(100, 0)
	s.Step(t0)
	s.Cancel()
	s.Cancel()

	if s.Active() {
		t.Error("cancelled scroller still active")
	}
	if !s.Step(t0.Add(200 * time.Millisecond)) {
		t.Error("cancelled scroller should report done from Step")
	}
	if fired {
		t.Error("completion callback fired for a cancelled scroll")
	}

	top := vp.top
	s.Step(t0.Add(300 * time.Millisecond))
	if vp.top != top {
		t.Error("cancelled scroller kept moving the viewport")
	}
}

func TestScrollerCancelAfterCompletion(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 50}
	s := NewScroller(vp, 0, nil, nil)

	s.Step(time.Unix(100, 0))
	s.Cancel() // harmless no-op
	if vp.top != 40 {
		t.Errorf("offset = %d, want 40", vp.top)
	}
}

func TestScrollerZeroDurationCompletesImmediately(t *testing.T) {
	vp := &fakeViewport{view: 10, content: 50}
	done := false
	s := NewScroller(vp, 0, nil, func(time.Time) { done = true })

	if !s.Step(time.Unix(100, 0)) {
		t.Fatal("zero-duration scroll should finish on the first step")
	}
	if vp.top != 40 || !done {
		t.Errorf("top = %d done = %v, want 40 true", vp.top, done)
	}
}

func TestScrollerNilViewportIsNoop(t *testing.T) {
	s := NewScroller(nil, time.Second, nil, nil)
	if !s.Step(time.Unix(100, 0)) {
		t.Error("scroller without a viewport should finish immediately")
	}
}

func TestNilScrollerIsSafe(t *testing.T) {
	var s *Scroller
	if !s.Step(time.Now()) {
		t.Error("nil scroller Step should report done")
	}
	s.Cancel()
	if s.Active() {
		t.Error("nil scroller should not be active")
	}
}
