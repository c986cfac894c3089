package engine

import (
	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/obstacle"
)

// HostLayout is a snapshot of the host document's geometry taken at start.
type HostLayout struct {
	Main           core.Rect  // the timed grid
	AllDay         *core.Rect // the all-day row, when present
	ViewportHeight float64
}

// PlayArea is the immutable play boundary. All engine coordinates are
// local to Origin.
type PlayArea struct {
	Origin       core.Vec // top-left in host coordinates
	Width        float64
	Height       float64
	NonAllDayTop float64 // local y of the all-day row's bottom, 0 without one
	SafeTop      float64 // local y where the safe zone begins
}

// ComputePlayArea derives the play boundary from a host layout. The bottom
// edge sits bottomOffset above the lower of the grid bottom and the
// viewport; the safe zone covers safeZone pixels above it.
func ComputePlayArea(h HostLayout, bottomOffset, safeZone float64) PlayArea {
	top := h.Main
	if h.AllDay != nil {
		top = *h.AllDay
	}

	left := min(top.Left, h.Main.Left)
	right := max(top.Right, h.Main.Right)
	bottom := max(h.Main.Bottom, h.ViewportHeight-bottomOffset) - bottomOffset

	area := PlayArea{
		Origin:  core.V(left, top.Top),
		Width:   right - left,
		Height:  bottom - top.Top,
		SafeTop: bottom - safeZone - top.Top,
	}
	if h.AllDay != nil {
		area.NonAllDayTop = h.AllDay.Bottom - top.Top
	}
	return area
}

// Band returns the collidable obstacle band of this play area.
func (p PlayArea) Band() obstacle.Band {
	return obstacle.Band{Origin: p.Origin, NonAllDayTop: p.NonAllDayTop, SafeTop: p.SafeTop}
}

// Bounds returns the play area in local coordinates.
func (p PlayArea) Bounds() core.Rect {
	return core.RectFromSize(0, 0, p.Width, p.Height)
}

// SafeZone returns the local rectangle in which obstacles never collide.
func (p PlayArea) SafeZone() core.Rect {
	return core.Rect{Left: 0, Top: p.SafeTop, Right: p.Width, Bottom: p.Height}
}
