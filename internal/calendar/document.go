// Package calendar models the host page the game is played on: a week
// grid, an optional all-day row, and the meetings drawn on top of them.
//
// A Document is safe for concurrent use. Meetings may be moved, added or
// removed while a game runs; the engine observes the change on its next tick.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/obstacle"
)

var (
	// ErrUnknownEvent is returned for an id the document does not hold.
	ErrUnknownEvent = errors.New("calendar: unknown event")
	// ErrDuplicateEvent is returned when adding an id that already exists.
	ErrDuplicateEvent = errors.New("calendar: duplicate event")
)

// Control is one RSVP button of a meeting.
type Control struct {
	Label    string
	Selected bool
}

// Event is a meeting drawn on the page.
type Event struct {
	ID        obstacle.ID
	Title     string
	Text      string // rendered text, one entry per line
	Rect      core.Rect
	Hidden    bool // geometry unavailable
	Recurring bool
	Controls  []Control
	Destroyed bool
}

// AllDay reports whether the event renders as an all-day entry.
func (e Event) AllDay() bool {
	return obstacle.LineBreakClassifier(e.obstacle())
}

func (e Event) obstacle() obstacle.Obstacle {
	return obstacle.Obstacle{
		ID:        e.ID,
		Label:     e.Title,
		Text:      e.Text,
		Bounds:    e.Rect,
		HasBounds: !e.Hidden,
	}
}

func (e Event) clone() Event {
	e.Controls = append([]Control(nil), e.Controls...)
	return e
}

// Document is an in-process calendar page.
type Document struct {
	mu        sync.Mutex
	viewportW float64
	viewportH float64
	main      core.Rect
	allDay    *core.Rect
	events    []*Event
	byID      map[obstacle.ID]*Event
	destroyed []obstacle.ID
}

// NewDocument creates an empty page. allDay may be nil.
func NewDocument(viewportW, viewportH float64, main core.Rect, allDay *core.Rect) *Document {
	d := &Document{
		viewportW: viewportW,
		viewportH: viewportH,
		main:      main,
		byID:      make(map[obstacle.ID]*Event),
	}
	if allDay != nil {
		r := *allDay
		d.allDay = &r
	}
	return d
}

// Host returns the layout snapshot the play boundary is computed from.
func (d *Document) Host() engine.HostLayout {
	d.mu.Lock()
	defer d.mu.Unlock()

	h := engine.HostLayout{Main: d.main, ViewportHeight: d.viewportH}
	if d.allDay != nil {
		r := *d.allDay
		h.AllDay = &r
	}
	return h
}

// Viewport returns the page's visible size.
func (d *Document) Viewport() (w, h float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewportW, d.viewportH
}

// Add appends a meeting.
func (d *Document) Add(ev Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ev.ID == "" {
		return fmt.Errorf("calendar: add %q: empty id", ev.Title)
	}
	if _, ok := d.byID[ev.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, ev.ID)
	}
	if ev.Text == "" {
		ev.Text = ev.Title
	}

	e := ev.clone()
	d.events = append(d.events, &e)
	d.byID[e.ID] = &e
	if e.Destroyed {
		d.destroyed = append(d.destroyed, e.ID)
	}
	return nil
}

// Remove deletes a meeting from the page.
func (d *Document) Remove(id obstacle.ID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	delete(d.byID, id)
	for i, e := range d.events {
		if e.ID == id {
			d.events = append(d.events[:i], d.events[i+1:]...)
			break
		}
	}
	return nil
}

// Move shifts a meeting by (dx, dy) host pixels.
func (d *Document) Move(id obstacle.ID, dx, dy float64) error {
	return d.update(id, func(e *Event) {
		e.Rect = e.Rect.Translate(dx, dy)
	})
}

// SetHidden toggles a meeting's geometry availability.
func (d *Document) SetHidden(id obstacle.ID, hidden bool) error {
	return d.update(id, func(e *Event) {
		e.Hidden = hidden
	})
}

// Reflow applies fn to every meeting under the document lock, the way a
// host re-layout changes many rectangles at once.
func (d *Document) Reflow(fn func(e *Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.events {
		fn(e)
	}
}

func (d *Document) update(id obstacle.ID, fn func(e *Event)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	fn(e)
	return nil
}

// Event returns a copy of one meeting.
func (d *Document) Event(id obstacle.ID) (Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	if !ok {
		return Event{}, false
	}
	return e.clone(), true
}

// Events returns copies of all meetings in page order.
func (d *Document) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Event, len(d.events))
	for i, e := range d.events {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of meetings on the page.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}

// Obstacles implements obstacle.Source.
func (d *Document) Obstacles() ([]obstacle.Obstacle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]obstacle.Obstacle, len(d.events))
	for i, e := range d.events {
		out[i] = e.obstacle()
	}
	return out, nil
}

// MarkDestroyed implements obstacle.Source. The meeting fades out but stays
// on the page until the player decides to decline or keep it.
func (d *Document) MarkDestroyed(id obstacle.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	if !ok || e.Destroyed {
		return
	}
	e.Destroyed = true
	d.destroyed = append(d.destroyed, id)
}

// IsDestroyed implements obstacle.Source.
func (d *Document) IsDestroyed(id obstacle.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	return ok && e.Destroyed
}

// Destroyed returns the destroyed meetings in destruction order.
func (d *Document) Destroyed() []obstacle.ID {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]obstacle.ID, 0, len(d.destroyed))
	for _, id := range d.destroyed {
		if _, ok := d.byID[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Restore brings destroyed meetings back. With no ids every meeting is restored.
func (d *Document) Restore(ids ...obstacle.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(ids) == 0 {
		for _, e := range d.events {
			e.Destroyed = false
		}
		d.destroyed = nil
		return
	}

	drop := make(map[obstacle.ID]bool, len(ids))
	for _, id := range ids {
		if e, ok := d.byID[id]; ok {
			e.Destroyed = false
		}
		drop[id] = true
	}
	kept := d.destroyed[:0]
	for _, id := range d.destroyed {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	d.destroyed = kept
}

// Reset restores every meeting, ready for another game.
func (d *Document) Reset() {
	d.Restore()
}

// String renders a short summary, mostly for logs.
func (d *Document) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "calendar %gx%g, %d events", d.viewportW, d.viewportH, len(d.events))
	if len(d.destroyed) > 0 {
		fmt.Fprintf(&sb, ", %d destroyed", len(d.destroyed))
	}
	return sb.String()
}
