package widgets

import (
	"strings"

	"github.com/odvcencio/pinscroll/pkg/ui/runtime"
	"github.com/odvcencio/pinscroll/pkg/ui/theme"
)

// testRenderContext builds a render context over a buffer with the
// default theme.
func testRenderContext(buf *runtime.Buffer) runtime.RenderContext {
	w, h := buf.Size()
	return runtime.RenderContext{
		Buffer: buf,
		Theme:  theme.DefaultTheme(),
		Bounds: runtime.NewRect(0, 0, w, h),
	}
}

// bufferRow returns a buffer row as a string.
func bufferRow(buf *runtime.Buffer, y int) string {
	w, _ := buf.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		cell := buf.Get(x, y)
		r := cell.Rune
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// bufferText returns the whole buffer as newline-joined rows.
func bufferText(buf *runtime.Buffer) string {
	_, h := buf.Size()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		rows[y] = bufferRow(buf, y)
	}
	return strings.Join(rows, "\n")
}
