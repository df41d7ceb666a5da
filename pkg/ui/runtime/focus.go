package runtime

// FocusScope tracks which focusable widget currently receives
// keyboard input and moves focus between registered widgets.
type FocusScope struct {
	widgets []Focusable
	current int // Index of focused widget, -1 if none
}

// NewFocusScope creates a new empty focus scope.
func NewFocusScope() *FocusScope {
	return &FocusScope{current: -1}
}

// Register adds a focusable widget to the scope.
// The first registered widget receives focus if nothing is focused.
func (f *FocusScope) Register(w Focusable) {
	for _, existing := range f.widgets {
		if existing == w {
			return
		}
	}
	f.widgets = append(f.widgets, w)

	// Auto-focus first widget
	if f.current == -1 && w.CanFocus() {
		f.current = len(f.widgets) - 1
		w.Focus()
	}
}

// Unregister removes a widget from the scope.
// If it was focused, focus moves to the next available widget.
func (f *FocusScope) Unregister(w Focusable) {
	for i, existing := range f.widgets {
		if existing == w {
			if f.current == i {
				w.Blur()
				f.current = -1
			} else if f.current > i {
				f.current--
			}

			f.widgets = append(f.widgets[:i], f.widgets[i+1:]...)

			if f.current == -1 && len(f.widgets) > 0 {
				f.FocusFirst()
			}
			return
		}
	}
}

// Current returns the currently focused widget, or nil.
func (f *FocusScope) Current() Focusable {
	if f.current >= 0 && f.current < len(f.widgets) {
		return f.widgets[f.current]
	}
	return nil
}

// FocusFirst focuses the first widget that can accept focus.
func (f *FocusScope) FocusFirst() {
	for i, w := range f.widgets {
		if w.CanFocus() {
			f.setFocus(i)
			return
		}
	}
}

// FocusNext moves focus to the next focusable widget, wrapping around.
func (f *FocusScope) FocusNext() {
	if len(f.widgets) == 0 {
		return
	}
	start := f.current
	for i := 1; i <= len(f.widgets); i++ {
		idx := (start + i + len(f.widgets)) % len(f.widgets)
		if f.widgets[idx].CanFocus() {
			f.setFocus(idx)
			return
		}
	}
}

// FocusPrev moves focus to the previous focusable widget, wrapping around.
func (f *FocusScope) FocusPrev() {
	if len(f.widgets) == 0 {
		return
	}
	start := f.current
	if start < 0 {
		start = 0
	}
	for i := 1; i <= len(f.widgets); i++ {
		idx := (start - i + 2*len(f.widgets)) % len(f.widgets)
		if f.widgets[idx].CanFocus() {
			f.setFocus(idx)
			return
		}
	}
}

// ClearFocus blurs the current widget and clears focus.
func (f *FocusScope) ClearFocus() {
	if cur := f.Current(); cur != nil {
		cur.Blur()
	}
	f.current = -1
}

func (f *FocusScope) setFocus(idx int) {
	if cur := f.Current(); cur != nil {
		cur.Blur()
	}
	f.current = idx
	f.widgets[idx].Focus()
}
