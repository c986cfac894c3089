package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/calbreak/internal/core"
)

// styleCache maps core.Color to lipgloss styles. Hue-rotated colors are
// hex triplets, so the set grows while playing.
var styleCache sync.Map

func styleFor(c core.Color) lipgloss.Style {
	if s, ok := styleCache.Load(c); ok {
		return s.(lipgloss.Style)
	}
	s := lipgloss.NewStyle()
	if c != core.ColorDefault {
		s = s.Foreground(lipgloss.Color(string(c)))
	}
	styleCache.Store(c, s)
	return s
}

// HueColor returns the color at the given hue (degrees) rotated from
// base, at the given lightness. Hues are quantized to whole degrees to
// bound the style cache.
func HueColor(base, rotate, lightness float64) core.Color {
	h := float64(int(base+rotate) % 360)
	if h < 0 {
		h += 360
	}
	return core.Color(colorful.Hsl(h, 0.85, lightness).Clamped().Hex())
}

// Fade blends a color toward black by opacity in [0, 1].
func Fade(c core.Color, opacity float64) core.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	opacity = core.Clamp(opacity, 0, 1)
	return core.Color(colorful.Color{}.BlendRgb(col, opacity).Clamped().Hex())
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
