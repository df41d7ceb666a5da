package runtime

// FlexDirection selects the main axis of a flex container.
type FlexDirection int

const (
	Column FlexDirection = iota // vertical (VBox)
	Row                         // horizontal (HBox)
)

// FlexChild pairs a widget with its layout behavior along the main axis.
type FlexChild struct {
	Widget Widget
	Grow   float64 // share of leftover space, 0 means fixed
	Basis  int     // main-axis size, -1 means use the measured size
}

// Fixed creates a child that keeps its measured size.
func Fixed(w Widget) FlexChild {
	return FlexChild{Widget: w, Basis: -1}
}

// Expanded creates a child that absorbs leftover space.
func Expanded(w Widget) FlexChild {
	return FlexChild{Widget: w, Grow: 1, Basis: -1}
}

// Sized creates a child with an explicit main-axis size.
func Sized(w Widget, basis int) FlexChild {
	return FlexChild{Widget: w, Basis: basis}
}

// Flex lays out children in a row or column. Fixed children get their
// measured or basis size; growing children split whatever remains.
type Flex struct {
	Direction FlexDirection
	Children  []FlexChild
	Gap       int // rows/columns between children

	bounds      Rect
	childBounds []Rect
}

// VBox creates a vertical flex container.
func VBox(children ...FlexChild) *Flex {
	return &Flex{Direction: Column, Children: children}
}

// HBox creates a horizontal flex container.
func HBox(children ...FlexChild) *Flex {
	return &Flex{Direction: Row, Children: children}
}

// Add appends a child.
func (f *Flex) Add(child FlexChild) {
	f.Children = append(f.Children, child)
}

// Measure reports the summed main-axis size and widest cross-axis size
// of the children, gaps included.
func (f *Flex) Measure(constraints Constraints) Size {
	if len(f.Children) == 0 {
		return constraints.MinSize()
	}

	mainTotal, crossMax := f.totalGap(), 0
	for _, child := range f.Children {
		size := f.childSize(child, f.measureConstraints(constraints))
		main, cross := f.split(size)
		mainTotal += main
		crossMax = max(crossMax, cross)
	}

	return constraints.Constrain(f.join(mainTotal, crossMax))
}

// Layout assigns each child its slice of bounds along the main axis.
func (f *Flex) Layout(bounds Rect) {
	f.bounds = bounds
	f.childBounds = make([]Rect, len(f.Children))
	if len(f.Children) == 0 {
		return
	}

	// First pass: fixed sizes and the total grow weight.
	sizes := make([]int, len(f.Children))
	fixed := f.totalGap()
	grow := 0.0
	for i, child := range f.Children {
		main, _ := f.split(f.childSize(child, f.layoutConstraints(bounds)))
		sizes[i] = main
		if child.Grow > 0 {
			grow += child.Grow
		} else {
			fixed += main
		}
	}

	// Second pass: split the leftover among growers. Integer division
	// loses up to a cell per grower; the last one takes the slack so
	// the children always tile the container exactly.
	mainBounds, _ := f.split(bounds.Size())
	available := max(0, mainBounds-fixed)
	if grow > 0 {
		remaining := available
		last := -1
		for i, child := range f.Children {
			if child.Grow <= 0 {
				continue
			}
			sizes[i] = int(float64(available) * child.Grow / grow)
			remaining -= sizes[i]
			last = i
		}
		if last >= 0 {
			sizes[last] += remaining
		}
	}

	offset := 0
	for i, child := range f.Children {
		f.childBounds[i] = f.slice(bounds, offset, sizes[i])
		child.Widget.Layout(f.childBounds[i])
		offset += sizes[i] + f.Gap
	}
}

// Bounds returns the container's assigned bounds.
func (f *Flex) Bounds() Rect {
	return f.bounds
}

// Render draws the children in order.
func (f *Flex) Render(ctx RenderContext) {
	for i, child := range f.Children {
		if i < len(f.childBounds) {
			child.Widget.Render(ctx.Sub(f.childBounds[i]))
		}
	}
}

// HandleMessage offers the message to each child until one takes it.
func (f *Flex) HandleMessage(msg Message) HandleResult {
	for _, child := range f.Children {
		if result := child.Widget.HandleMessage(msg); result.Handled {
			return result
		}
	}
	return Unhandled()
}

func (f *Flex) childSize(child FlexChild, c Constraints) Size {
	if child.Basis >= 0 {
		return f.join(child.Basis, 0)
	}
	return child.Widget.Measure(c)
}

// measureConstraints leaves the main axis unbounded so children report
// their natural size.
func (f *Flex) measureConstraints(c Constraints) Constraints {
	if f.Direction == Column {
		return Constraints{MinWidth: c.MinWidth, MaxWidth: c.MaxWidth, MaxHeight: maxInt}
	}
	return Constraints{MinHeight: c.MinHeight, MaxHeight: c.MaxHeight, MaxWidth: maxInt}
}

func (f *Flex) layoutConstraints(bounds Rect) Constraints {
	if f.Direction == Column {
		return Loose(bounds.Width, maxInt)
	}
	return Loose(maxInt, bounds.Height)
}

func (f *Flex) totalGap() int {
	if len(f.Children) < 2 {
		return 0
	}
	return f.Gap * (len(f.Children) - 1)
}

// split breaks a size into (main, cross) for the current axis.
func (f *Flex) split(s Size) (main, cross int) {
	if f.Direction == Column {
		return s.Height, s.Width
	}
	return s.Width, s.Height
}

// join builds a size from (main, cross) for the current axis.
func (f *Flex) join(main, cross int) Size {
	if f.Direction == Column {
		return Size{Width: cross, Height: main}
	}
	return Size{Width: main, Height: cross}
}

// slice carves the child rect at the given main-axis offset.
func (f *Flex) slice(bounds Rect, offset, main int) Rect {
	if f.Direction == Column {
		return Rect{X: bounds.X, Y: bounds.Y + offset, Width: bounds.Width, Height: main}
	}
	return Rect{X: bounds.X + offset, Y: bounds.Y, Width: main, Height: bounds.Height}
}
