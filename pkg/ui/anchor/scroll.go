package anchor

import (
	"math"
	"time"
)

// EasingFunc maps animation progress in [0,1] to an eased value in [0,1].
type EasingFunc func(t float64) float64

// Common easing functions.
var (
	// EaseLinear applies no easing.
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	// EaseSmoothstep is a smooth S-curve, the default for scrolls.
	EaseSmoothstep EasingFunc = func(t float64) float64 {
		return t * t * (3.0 - 2.0*t)
	}

	// EaseOutCubic decelerates toward the end.
	EaseOutCubic EasingFunc = func(t float64) float64 {
		u := t - 1.0
		return u*u*u + 1.0
	}
)

// Scroller drives one eased smooth-scroll toward the bottom of a
// viewport. The bottom target is recomputed every step so content that
// grows mid-flight is still reached. A Scroller is advanced by the
// coordinator's tick; it holds no goroutine or timer of its own.
type Scroller struct {
	vp       Viewport
	duration time.Duration
	easing   EasingFunc
	onDone   func(now time.Time)

	startedAt time.Time
	from      float64
	cancelled bool
	done      bool
}

// NewScroller creates a scroller toward the viewport bottom. The start
// offset is sampled lazily on the first Step so a scroller created in a
// lifecycle callback begins from wherever the viewport is on the next
// frame. onDone may be nil; it fires exactly once, and never after a
// cancel.
func NewScroller(vp Viewport, duration time.Duration, easing EasingFunc, onDone func(now time.Time)) *Scroller {
	if easing == nil {
		easing = EaseSmoothstep
	}
	return &Scroller{
		vp:       vp,
		duration: duration,
		easing:   easing,
		onDone:   onDone,
	}
}

// Step advances the scroll to the given frame time. It returns true
// when the scroller is finished (completed or cancelled) and should be
// discarded.
func (s *Scroller) Step(now time.Time) bool {
	if s == nil || s.done || s.cancelled {
		return true
	}
	if s.vp == nil || s.vp.ViewHeight() <= 0 {
		s.done = true
		return true
	}
	if s.startedAt.IsZero() {
		s.startedAt = now
		s.from = float64(s.vp.ScrollTop())
	}

	target := float64(maxScrollTop(s.vp))

	t := 1.0
	if s.duration > 0 {
		t = float64(now.Sub(s.startedAt)) / float64(s.duration)
	}
	if t >= 1.0 {
		s.vp.SetScrollTop(int(math.Round(target)))
		s.done = true
		if s.onDone != nil {
			s.onDone(now)
		}
		return true
	}

	pos := s.from + (target-s.from)*s.easing(t)
	s.vp.SetScrollTop(int(math.Round(pos)))
	return false
}

// Cancel stops the scroll in place. Cancelling twice, or cancelling
// after completion, is a harmless no-op; the completion callback does
// not fire for a cancelled scroll.
func (s *Scroller) Cancel() {
	if s == nil || s.done || s.cancelled {
		return
	}
	s.cancelled = true
}

// Active reports whether the scroller still wants Step calls.
func (s *Scroller) Active() bool {
	return s != nil && !s.done && !s.cancelled
}

// maxScrollTop returns the largest valid scroll offset for a viewport.
func maxScrollTop(vp Viewport) int {
	m := vp.ContentHeight() - vp.ViewHeight()
	if m < 0 {
		return 0
	}
	return m
}
