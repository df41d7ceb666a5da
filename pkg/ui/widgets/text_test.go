package widgets

import (
	"strings"
	"testing"

	"github.com/odvcencio/pinscroll/pkg/ui/runtime"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, []string{""}},
		{"fits", "hello", 10, []string{"hello"}},
		{"wraps_on_words", "one two three four", 9, []string{"one two", "three", "four"}},
		{"exact_width", "abcde", 5, []string{"abcde"}},
		{"breaks_long_word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"keeps_blank_lines", "a\n\nb", 10, []string{"a", "", "b"}},
		{"zero_width", "anything", 0, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("WrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	// CJK runes are two cells wide; four of them need eight columns.
	lines := WrapText("日本語字", 4)
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2 lines", lines)
	}
	if lines[0] != "日本" || lines[1] != "語字" {
		t.Errorf("lines = %q, want [日本 語字]", lines)
	}
}

func TestTextMeasure(t *testing.T) {
	txt := NewText("one two three four")
	size := txt.Measure(runtime.TightWidth(9))
	if size.Height != 3 {
		t.Errorf("height = %d, want 3", size.Height)
	}
	if size.Width != 9 {
		t.Errorf("width = %d, want 9", size.Width)
	}

	// The same text at a wider width needs fewer rows.
	size = txt.Measure(runtime.TightWidth(40))
	if size.Height != 1 {
		t.Errorf("height at width 40 = %d, want 1", size.Height)
	}
}

func TestTextRenderClipsToBounds(t *testing.T) {
	buf := runtime.NewBuffer(10, 2)
	txt := NewText("one two three four")
	txt.Layout(runtime.NewRect(0, 0, 9, 2))
	txt.Render(testRenderContext(buf))

	got := bufferRow(buf, 0)
	if !strings.HasPrefix(got, "one two") {
		t.Errorf("row 0 = %q, want prefix %q", got, "one two")
	}
	// Third wrapped line is clipped by the two-row bounds; nothing may
	// have been written past row 1.
	if strings.TrimSpace(bufferRow(buf, 1)) != "three" {
		t.Errorf("row 1 = %q, want %q", bufferRow(buf, 1), "three")
	}
}
