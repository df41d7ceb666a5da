// Package theme provides the visual design system for the pinscroll TUI.
package theme

import (
	"github.com/odvcencio/pinscroll/pkg/ui/backend"
)

// Theme defines the visual language for the feed container and demo shell.
type Theme struct {
	// Core palette
	Background backend.Style // Primary canvas
	Surface    backend.Style // Elevated surfaces (entries, panels)
	SurfaceDim backend.Style // Recessed areas (spacer region)

	// Text hierarchy
	TextPrimary   backend.Style // Main content
	TextSecondary backend.Style // Supporting text
	TextMuted     backend.Style // Hints, placeholders

	// Accent colors
	Accent     backend.Style // Primary action, highlights
	AccentDim  backend.Style // Subtle accent usage
	AccentGlow backend.Style // Emphasis, active states

	// Semantic colors
	Success backend.Style
	Warning backend.Style
	Error   backend.Style

	// Feed elements
	EntryText   backend.Style // Entry content
	EntryAccent backend.Style // Entry left strip
	EntryMeta   backend.Style // Entry metadata line
	JumpButton  backend.Style // Floating jump-to-bottom control
	JumpHover   backend.Style // Jump control under the pointer
	Scrollbar   backend.Style
	ScrollThumb backend.Style

	// Demo chrome
	Header    backend.Style
	StatusBar backend.Style
	StatusKey backend.Style
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		// Core palette - deep blacks with subtle blue undertone
		Background: backend.DefaultStyle().Background(backend.ColorRGB(12, 12, 16)),
		Surface:    backend.DefaultStyle().Background(backend.ColorRGB(22, 22, 28)),
		SurfaceDim: backend.DefaultStyle().Background(backend.ColorRGB(8, 8, 10)),

		// Text hierarchy - warm whites
		TextPrimary:   backend.DefaultStyle().Foreground(backend.ColorRGB(240, 238, 232)),
		TextSecondary: backend.DefaultStyle().Foreground(backend.ColorRGB(160, 158, 150)),
		TextMuted:     backend.DefaultStyle().Foreground(backend.ColorRGB(100, 98, 92)),

		// Accent - warm amber
		Accent:     backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
		AccentDim:  backend.DefaultStyle().Foreground(backend.ColorRGB(180, 130, 60)),
		AccentGlow: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 200, 100)).Bold(true),

		// Semantic colors
		Success: backend.DefaultStyle().Foreground(backend.ColorRGB(134, 239, 172)),
		Warning: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 138, 101)),
		Error:   backend.DefaultStyle().Foreground(backend.ColorRGB(255, 110, 90)),

		// Feed elements
		EntryText:   backend.DefaultStyle().Foreground(backend.ColorRGB(240, 238, 232)),
		EntryAccent: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
		EntryMeta:   backend.DefaultStyle().Foreground(backend.ColorRGB(100, 98, 92)).Dim(true),
		JumpButton: backend.DefaultStyle().
			Foreground(backend.ColorRGB(12, 12, 16)).
			Background(backend.ColorRGB(255, 183, 77)),
		JumpHover: backend.DefaultStyle().
			Foreground(backend.ColorRGB(12, 12, 16)).
			Background(backend.ColorRGB(255, 200, 100)).Bold(true),
		Scrollbar:   backend.DefaultStyle().Foreground(backend.ColorRGB(50, 50, 60)),
		ScrollThumb: backend.DefaultStyle().Foreground(backend.ColorRGB(100, 100, 110)),

		// Demo chrome
		Header:    backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)).Bold(true),
		StatusBar: backend.DefaultStyle().Foreground(backend.ColorRGB(160, 158, 150)),
		StatusKey: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
	}
}

// Symbols provides consistent iconography.
var Symbols = struct {
	ArrowDown   string
	Bullet      string
	Dot         string
	Scrollbar   string
	ScrollThumb string
}{
	ArrowDown:   "↓",
	Bullet:      "●",
	Dot:         "·",
	Scrollbar:   "░",
	ScrollThumb: "█",
}
