package calendar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/calbreak/internal/obstacle"
)

var (
	// ErrNoMatch is returned when no control matches the wanted label.
	ErrNoMatch = errors.New("calendar: no matching control")
	// ErrAmbiguousMatch is returned when more than one control matches.
	ErrAmbiguousMatch = errors.New("calendar: ambiguous control match")
)

// RSVP control labels.
const (
	ControlYes   = "yes"
	ControlNo    = "no"
	ControlOK    = "ok"
	ControlClose = "close"
)

// MatchOne returns the index of the single control whose label contains
// want, ignoring case.
func MatchOne(controls []Control, want string) (int, error) {
	want = strings.ToLower(want)
	found := -1
	for i, c := range controls {
		if !strings.Contains(strings.ToLower(c.Label), want) {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: %q", ErrAmbiguousMatch, want)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %q", ErrNoMatch, want)
	}
	return found, nil
}

// Decline answers "no" to a meeting and returns the label of the pressed
// control. Recurring meetings confirm with "ok"; otherwise "no" is pressed,
// or "close" when "no" is missing or already selected. Close dismisses the
// dialog without changing the response. A failed match leaves the meeting untouched.
func (d *Document) Decline(id obstacle.ID) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}

	want, err := declineControl(e)
	if err != nil {
		return "", fmt.Errorf("decline %s: %w", id, err)
	}
	i, err := MatchOne(e.Controls, want)
	if err != nil {
		return "", fmt.Errorf("decline %s: %w", id, err)
	}

	if want == ControlClose {
		return e.Controls[i].Label, nil
	}
	for j := range e.Controls {
		e.Controls[j].Selected = j == i
	}
	return e.Controls[i].Label, nil
}

func declineControl(e *Event) (string, error) {
	if e.Recurring {
		return ControlOK, nil
	}
	i, err := MatchOne(e.Controls, ControlNo)
	switch {
	case errors.Is(err, ErrNoMatch):
		return ControlClose, nil
	case err != nil:
		return "", err
	case e.Controls[i].Selected:
		return ControlClose, nil
	}
	return ControlNo, nil
}

// Response returns the label of the selected control, if any.
func (e Event) Response() string {
	for _, c := range e.Controls {
		if c.Selected {
			return c.Label
		}
	}
	return ""
}

// DefaultControls is the RSVP row of a regular invitation.
func DefaultControls() []Control {
	return []Control{{Label: "Yes"}, {Label: "No"}, {Label: "Maybe"}, {Label: "Close"}}
}

// RecurringControls is the confirmation row shown for a recurring series.
func RecurringControls() []Control {
	return []Control{{Label: "OK"}, {Label: "Cancel"}}
}
