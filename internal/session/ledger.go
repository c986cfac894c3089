package session

import (
	"github.com/vovakirdan/calbreak/internal/engine"
)

// ledgerSink mirrors engine events into the run ledger and completes the
// session on the terminal event.
type ledgerSink struct {
	s *Session
}

func (l *ledgerSink) Frame(engine.Frame) {}

func (l *ledgerSink) Event(ev engine.Event) {
	s := l.s
	switch ev := ev.(type) {
	case engine.ObstacleDestroyedEvent:
		if err := s.ledger.RecordDestroyed(s.runID, string(ev.ID), ev.Label, int64(ev.Tick)); err != nil {
			s.logger.Error("ledger write failed", "run", s.runID, "id", ev.ID, "err", err)
		}

	case engine.OutcomeEvent:
		if err := s.ledger.FinishRun(s.runID, ev.Outcome.String(), int64(ev.Tick), s.opts.Clock()); err != nil {
			s.logger.Error("ledger write failed", "run", s.runID, "err", err)
		}
		s.logger.Info("run finished", "run", s.runID, "outcome", ev.Outcome, "destroyed", len(ev.Destroyed))
		s.finish(Result{Outcome: ev.Outcome, Ticks: ev.Tick, Destroyed: ev.Destroyed})

	case engine.TickFailedEvent:
		if err := s.ledger.FinishRun(s.runID, "failed", int64(ev.Tick), s.opts.Clock()); err != nil {
			s.logger.Error("ledger write failed", "run", s.runID, "err", err)
		}
		s.finish(Result{Ticks: ev.Tick, Destroyed: s.registry.Destroyed(), Err: ev.Err})
	}
}
