// Package watch delivers filesystem change notifications to glob
// subscribers. The demo uses it to hot-reload animation timings when
// the config file is saved.
package watch

import (
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"
)

// ChangeType describes the kind of file change observed.
type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
	ChangeRenamed  ChangeType = "renamed"
)

const defaultDebounce = 100 * time.Millisecond

// Change records an observed file change.
type Change struct {
	Path string
	Type ChangeType
	At   time.Time
}

// Handler receives file change notifications. Handlers run on the
// watcher goroutine and must not block.
type Handler func(change Change)

// Subscription binds a glob pattern to a handler.
type Subscription struct {
	ID      string
	Pattern string
	Handler Handler
}

// Watcher observes filesystem paths through fsnotify and fans changes
// out to pattern subscriptions. Editors tend to emit bursts of events
// per save, so changes are debounced per path.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration

	mu            sync.RWMutex
	subscriptions map[string]*Subscription

	pendingMu sync.Mutex
	pending   map[string]*time.Timer

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher and starts its event loop.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:            fw,
		debounce:      defaultDebounce,
		subscriptions: make(map[string]*Subscription),
		pending:       make(map[string]*time.Timer),
		done:          make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch adds a path (file or directory) to the observed set.
func (w *Watcher) Watch(path string) error {
	if w == nil || w.fw == nil {
		return nil
	}
	return w.fw.Add(path)
}

// Subscribe registers a handler for a glob pattern and returns the
// subscription id. Patterns without a path separator match basenames.
func (w *Watcher) Subscribe(pattern string, handler Handler) string {
	if w == nil || handler == nil {
		return ""
	}
	id := ulid.Make().String()
	sub := &Subscription{
		ID:      id,
		Pattern: strings.TrimSpace(pattern),
		Handler: handler,
	}
	w.mu.Lock()
	w.subscriptions[id] = sub
	w.mu.Unlock()
	return id
}

// Unsubscribe removes a subscription. Unknown ids are a no-op.
func (w *Watcher) Unsubscribe(id string) {
	if w == nil || strings.TrimSpace(id) == "" {
		return
	}
	w.mu.Lock()
	delete(w.subscriptions, id)
	w.mu.Unlock()
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fw != nil {
			err = w.fw.Close()
		}
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.schedule(ev)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are not actionable here; the next
			// successful event resumes normal delivery.
		}
	}
}

// schedule debounces an fsnotify event per path and dispatches when the
// burst quiets down.
func (w *Watcher) schedule(ev fsnotify.Event) {
	ct, ok := changeType(ev.Op)
	if !ok {
		return
	}
	change := Change{Path: ev.Name, Type: ct, At: time.Now()}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if t, exists := w.pending[ev.Name]; exists {
		t.Stop()
	}
	w.pending[ev.Name] = time.AfterFunc(w.debounce, func() {
		w.pendingMu.Lock()
		delete(w.pending, ev.Name)
		w.pendingMu.Unlock()
		w.notify(change)
	})
}

// notify fans a change out to every matching subscription.
func (w *Watcher) notify(change Change) {
	w.mu.RLock()
	subs := make([]*Subscription, 0, len(w.subscriptions))
	for _, sub := range w.subscriptions {
		subs = append(subs, sub)
	}
	w.mu.RUnlock()

	for _, sub := range subs {
		if sub == nil || sub.Handler == nil {
			continue
		}
		if matchesPattern(sub.Pattern, change.Path) {
			sub.Handler(change)
		}
	}
}

func changeType(op fsnotify.Op) (ChangeType, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return ChangeCreated, true
	case op.Has(fsnotify.Write):
		return ChangeModified, true
	case op.Has(fsnotify.Remove):
		return ChangeDeleted, true
	case op.Has(fsnotify.Rename):
		return ChangeRenamed, true
	default:
		return "", false
	}
}

func matchesPattern(pattern, filePath string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || pattern == "*" {
		return true
	}
	cleanPath := filepath.ToSlash(strings.TrimSpace(filePath))
	cleanPattern := filepath.ToSlash(pattern)
	if ok, _ := path.Match(cleanPattern, cleanPath); ok {
		return true
	}
	if !strings.Contains(cleanPattern, "/") {
		base := path.Base(cleanPath)
		if ok, _ := path.Match(cleanPattern, base); ok {
			return true
		}
	}
	return false
}
