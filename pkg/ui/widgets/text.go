package widgets

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/odvcencio/pinscroll/pkg/ui/backend"
	"github.com/odvcencio/pinscroll/pkg/ui/runtime"
)

// Text renders word-wrapped text. Its natural height depends on the
// width it is given, which is what makes it a useful feed content
// block: the entry animator measures it at the feed width and animates
// toward that height.
type Text struct {
	Base
	text     string
	style    backend.Style
	styleSet bool
}

// NewText creates a text widget.
func NewText(text string) *Text {
	return &Text{
		text:  text,
		style: backend.DefaultStyle(),
	}
}

// SetText replaces the text content.
func (t *Text) SetText(text string) {
	if t == nil {
		return
	}
	t.text = text
	t.Invalidate()
}

// Text returns the current content.
func (t *Text) Text() string {
	if t == nil {
		return ""
	}
	return t.text
}

// SetStyle sets the render style.
func (t *Text) SetStyle(style backend.Style) {
	if t == nil {
		return
	}
	t.style = style
	t.styleSet = true
}

// Measure returns the wrapped size at the constraint width.
func (t *Text) Measure(constraints runtime.Constraints) runtime.Size {
	width := constraints.MaxWidth
	if width <= 0 {
		width = constraints.MinWidth
	}
	if width <= 0 {
		width = 1
	}
	lines := WrapText(t.text, width)
	height := len(lines)
	if height < 1 {
		height = 1
	}
	return constraints.Constrain(runtime.Size{Width: width, Height: height})
}

// Render draws the wrapped text clipped to the widget bounds.
func (t *Text) Render(ctx runtime.RenderContext) {
	if t == nil {
		return
	}
	bounds := t.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	style := t.style
	if !t.styleSet {
		style = ctx.Theme.EntryText
	}
	lines := WrapText(t.text, bounds.Width)
	maxLines := bounds.Height
	if len(lines) < maxLines {
		maxLines = len(lines)
	}
	for i := 0; i < maxLines; i++ {
		ctx.Buffer.SetString(bounds.X, bounds.Y+i, lines[i], style)
	}
	t.ClearInvalidation()
}

// WrapText word-wraps text to the given display width. Widths are
// measured in terminal cells, so CJK and other wide runes count as two
// columns. Words longer than a line are broken mid-word.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	if strings.TrimSpace(text) == "" {
		return []string{""}
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapParagraph(para, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapParagraph(para string, width int) []string {
	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range strings.Fields(para) {
		wordWidth := runewidth.StringWidth(word)

		sep := 0
		if lineWidth > 0 {
			sep = 1
		}

		if lineWidth+sep+wordWidth <= width {
			if sep > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += wordWidth
			continue
		}

		if lineWidth > 0 {
			flush()
		}

		// Break words wider than a whole line cell-by-cell.
		for wordWidth > width {
			part, rest := splitAtWidth(word, width)
			lines = append(lines, part)
			word = rest
			wordWidth = runewidth.StringWidth(word)
		}
		line.WriteString(word)
		lineWidth = wordWidth
	}

	if lineWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitAtWidth splits s so the first part fits in width display cells.
func splitAtWidth(s string, width int) (head, tail string) {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			return s[:i], s[i:]
		}
		w += rw
	}
	return s, ""
}
