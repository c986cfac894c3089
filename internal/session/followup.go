package session

import (
	"errors"

	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/obstacle"
)

// Declined reports what happened to one destroyed meeting.
type Declined struct {
	ID      obstacle.ID
	Title   string
	Pressed string // control label, empty when nothing was pressed
	Err     error
}

// Decline answers every destroyed meeting with "no". A meeting whose
// controls cannot be matched unambiguously is logged and left alone.
func (s *Session) Decline() ([]Declined, error) {
	res, ok := s.Result()
	if !ok {
		return nil, ErrNotFinished
	}

	out := make([]Declined, 0, len(res.Destroyed))
	for _, id := range res.Destroyed {
		d := Declined{ID: id}
		if ev, ok := s.doc.Event(id); ok {
			d.Title = ev.Title
		}

		d.Pressed, d.Err = s.doc.Decline(id)
		switch {
		case errors.Is(d.Err, calendar.ErrNoMatch), errors.Is(d.Err, calendar.ErrAmbiguousMatch):
			s.logger.Warn("cannot decline meeting", "id", id, "title", d.Title, "err", d.Err)
		case d.Err != nil:
			s.logger.Error("decline failed", "id", id, "err", d.Err)
		default:
			s.logger.Info("meeting declined", "id", id, "title", d.Title, "pressed", d.Pressed)
			if err := s.ledger.MarkDeclined(s.runID, string(id), d.Pressed); err != nil {
				s.logger.Error("ledger write failed", "run", s.runID, "id", id, "err", err)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// Keep restores every destroyed meeting and forgets them in the ledger.
func (s *Session) Keep() error {
	res, ok := s.Result()
	if !ok {
		return ErrNotFinished
	}

	s.doc.Restore(res.Destroyed...)
	s.registry.Forget()
	n, err := s.ledger.ClearDestroyed(s.runID)
	if err != nil {
		return err
	}
	s.logger.Info("meetings kept", "run", s.runID, "restored", n)
	return nil
}
