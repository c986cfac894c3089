// Package obstacle is the engine's view of the destructible rectangles
// living in the host document. The document owns geometry; this package
// pulls a fresh snapshot every tick and only remembers which identities
// have been destroyed.
package obstacle

import (
	"strings"

	"github.com/vovakirdan/calbreak/internal/core"
)

// ID identifies an obstacle across snapshots.
type ID string

// Obstacle is one entry of a live snapshot. Bounds are in host coordinates
// and are only meaningful when HasBounds is set.
type Obstacle struct {
	ID        ID
	Label     string
	Text      string
	Bounds    core.Rect
	HasBounds bool
}

// Source supplies the live obstacle set and stores the destroyed marker
// against each identity.
type Source interface {
	// Obstacles returns a fresh snapshot. It is called once per tick.
	Obstacles() ([]Obstacle, error)
	MarkDestroyed(id ID)
	IsDestroyed(id ID) bool
}

// Classifier decides whether an obstacle is an all-day entry, which may
// sit above the regular grid's top line.
type Classifier func(o Obstacle) bool

// LineBreakClassifier treats an obstacle whose text has exactly two lines
// as all-day. Timed entries also carry a time range line.
func LineBreakClassifier(o Obstacle) bool {
	return len(strings.Split(o.Text, "\n")) == 2
}

// Band is the collidable vertical band of the play area, expressed with
// the host-coordinate origin of the play area.
type Band struct {
	Origin       core.Vec // play area top-left in host coordinates
	NonAllDayTop float64  // local y above which only all-day entries collide
	SafeTop      float64  // local y of the safe zone; nothing collides below
}

// Translate converts host bounds to play-area-local bounds clipped to the
// band. It returns false when the rectangle lies entirely outside.
func (b Band) Translate(r core.Rect, allDay bool) (core.Rect, bool) {
	upper := b.NonAllDayTop
	if allDay {
		upper = 0
	}

	bottom := min(r.Bottom-b.Origin.Y, b.SafeTop)
	if bottom < upper {
		return core.Rect{}, false
	}

	top := max(r.Top-b.Origin.Y, upper)
	if top > b.SafeTop {
		return core.Rect{}, false
	}

	return core.Rect{
		Left:   r.Left - b.Origin.X,
		Right:  r.Right - b.Origin.X,
		Top:    top,
		Bottom: bottom,
	}, true
}
