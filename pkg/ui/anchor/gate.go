// Package anchor implements the bottom-anchored viewport coordination
// engine: the animation gate, the eased scroll stepper, and the
// coordinator that tracks entry heights, batches expansions behind a
// pre-scroll, pins the viewport while entries grow, and derives the
// spacer and jump-control visibility.
//
// Everything in this package is single-threaded: it must only be
// touched from the UI event loop (message and tick handlers).
package anchor

// Gate is a single-slot broadcast primitive. Entries wait on the gate
// before starting their expand transition; the coordinator closes it
// while the pre-scroll is in flight and opens it once the viewport is
// pinned at the bottom.
type Gate struct {
	open    bool
	waiters []func()
}

// NewGate creates a gate in the open state.
func NewGate() *Gate {
	return &Gate{open: true}
}

// IsOpen reports whether the gate is open.
func (g *Gate) IsOpen() bool {
	return g.open
}

// Close puts the gate in the closed state. Callbacks registered after
// this point are queued until the next Open.
func (g *Gate) Close() {
	g.open = false
}

// Open releases every queued waiter and leaves the gate open.
// The waiter slice is swapped out before any callback runs, so a
// callback that registers a new waiter observes the gate as open and
// runs immediately rather than being stranded in the old queue.
func (g *Gate) Open() {
	g.open = true
	waiters := g.waiters
	g.waiters = nil
	for _, fn := range waiters {
		fn()
	}
}

// Wait runs fn immediately if the gate is open, otherwise queues it
// until the next Open. Any number of callers may be queued.
func (g *Gate) Wait(fn func()) {
	if fn == nil {
		return
	}
	if g.open {
		fn()
		return
	}
	g.waiters = append(g.waiters, fn)
}

// Pending returns the number of queued waiters.
func (g *Gate) Pending() int {
	return len(g.waiters)
}
