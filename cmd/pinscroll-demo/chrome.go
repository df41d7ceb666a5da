package main

import (
	"github.com/odvcencio/pinscroll/pkg/ui/runtime"
	"github.com/odvcencio/pinscroll/pkg/ui/widgets"
)

// header is the one-row title bar.
type header struct {
	widgets.Base
	title string
}

func newHeader(title string) *header {
	return &header{title: title}
}

func (h *header) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: 1})
}

func (h *header) Render(ctx runtime.RenderContext) {
	bounds := h.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	ctx.Buffer.Fill(bounds, ' ', ctx.Theme.Surface)
	ctx.Buffer.SetString(bounds.X+1, bounds.Y, h.title, ctx.Theme.Header)
}

// statusBar is the one-row key-hint line.
type statusBar struct {
	widgets.Base
	hints string
}

func newStatusBar(hints string) *statusBar {
	return &statusBar{hints: hints}
}

func (s *statusBar) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: 1})
}

func (s *statusBar) Render(ctx runtime.RenderContext) {
	bounds := s.Bounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	ctx.Buffer.Fill(bounds, ' ', ctx.Theme.Surface)
	ctx.Buffer.SetString(bounds.X+1, bounds.Y, s.hints, ctx.Theme.StatusBar)
}
