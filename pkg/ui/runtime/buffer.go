package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/pinscroll/pkg/ui/backend"
)

// Cell is a single character cell.
type Cell struct {
	Rune  rune
	Style backend.Style
}

// Buffer is the off-screen cell grid widgets render into. Writes that
// don't change a cell leave it clean, so a flush only touches cells
// that actually differ from the last frame.
type Buffer struct {
	width, height int
	cells         []Cell

	dirty      []bool // per cell
	rowDirty   []bool // per row, lets the flush skip clean rows
	dirtyCount int
}

// NewBuffer creates a buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{
		width:    w,
		height:   h,
		cells:    make([]Cell, w*h),
		dirty:    make([]bool, w*h),
		rowDirty: make([]bool, h),
	}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the dimensions, keeping the overlapping content. The
// whole buffer is marked dirty afterwards since the backend needs a
// full repaint on resize anyway.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	cells := make([]Cell, w*h)
	for y := 0; y < min(h, b.height); y++ {
		copy(cells[y*w:y*w+min(w, b.width)], b.cells[y*b.width:])
	}
	b.cells = cells
	b.dirty = make([]bool, w*h)
	b.rowDirty = make([]bool, h)
	b.width = w
	b.height = h
	b.MarkAllDirty()
}

// Clear fills the buffer with blanks.
func (b *Buffer) Clear() {
	b.Fill(Rect{0, 0, b.width, b.height}, ' ', backend.DefaultStyle())
}

// Get returns the cell at (x, y), or a blank cell when out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes one cell. Writes outside the buffer are dropped.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.put(x, y, Cell{Rune: r, Style: s})
}

// SetString writes a string on one row, clipped to the buffer. The
// column advances one cell per rune, two for wide runes — never by
// byte count, so multi-byte runes stay contiguous.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) {
	if y < 0 || y >= b.height {
		return
	}
	col := x
	for _, r := range s {
		if col >= b.width {
			break
		}
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		if col >= 0 {
			b.put(col, y, Cell{Rune: r, Style: style})
			if w == 2 && col+1 < b.width {
				// Shadow cell of a wide rune.
				b.put(col+1, y, Cell{Rune: ' ', Style: style})
			}
		}
		col += w
	}
}

// Fill floods a rectangle with one cell, clipped to the buffer.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	cell := Cell{Rune: ch, Style: s}
	x0, y0 := max(0, r.X), max(0, r.Y)
	x1, y1 := min(b.width, r.X+r.Width), min(b.height, r.Y+r.Height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.put(x, y, cell)
		}
	}
}

// put stores a cell and tracks dirtiness. Callers clip first.
func (b *Buffer) put(x, y int, cell Cell) {
	idx := y*b.width + x
	if b.cells[idx] == cell {
		return
	}
	b.cells[idx] = cell
	if !b.dirty[idx] {
		b.dirty[idx] = true
		b.rowDirty[y] = true
		b.dirtyCount++
	}
}

// MarkAllDirty flags every cell for the next flush.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	for y := range b.rowDirty {
		b.rowDirty[y] = true
	}
	b.dirtyCount = len(b.dirty)
}

// ClearDirty resets the dirty flags after a flush.
func (b *Buffer) ClearDirty() {
	clear(b.dirty)
	clear(b.rowDirty)
	b.dirtyCount = 0
}

// IsDirty reports whether any cell changed since the last flush.
func (b *Buffer) IsDirty() bool {
	return b.dirtyCount > 0
}

// DirtyCount returns the number of changed cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// ForEachDirtyCell visits every changed cell, skipping clean rows.
func (b *Buffer) ForEachDirtyCell(fn func(x, y int, cell Cell)) {
	if b.dirtyCount == 0 {
		return
	}
	for y := 0; y < b.height; y++ {
		if !b.rowDirty[y] {
			continue
		}
		row := y * b.width
		for x := 0; x < b.width; x++ {
			if b.dirty[row+x] {
				fn(x, y, b.cells[row+x])
			}
		}
	}
}
