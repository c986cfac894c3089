// Package session wires one game together: the calendar page, the obstacle
// registry, the engine, visual feedback and the run ledger. It also owns
// the follow-up once a game has ended, declining or keeping the meetings
// that were destroyed.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/config"
	"github.com/vovakirdan/calbreak/internal/effects"
	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/obstacle"
	"github.com/vovakirdan/calbreak/internal/storage"
)

// ErrNotFinished is returned by follow-up actions before the game ended.
var ErrNotFinished = errors.New("session: game has not finished")

// Options configures a session. Document and Scheduler are required.
type Options struct {
	Layout     string
	Preset     config.Preset
	Seed       int64
	Config     config.EngineConfig
	Document   *calendar.Document
	Scheduler  engine.Scheduler
	Input      engine.InputSource  // optional
	Sinks      []engine.Sink       // optional, observe every frame and event
	Ledger     *storage.Store      // optional; a private in-memory ledger is opened otherwise
	Classifier obstacle.Classifier // optional
	Clock      func() time.Time    // optional, defaults to time.Now
	Logger     *log.Logger         // optional
}

// Result summarizes a finished game.
type Result struct {
	RunID     string
	Outcome   engine.Outcome
	Ticks     uint64
	Destroyed []obstacle.ID
	Err       error // set when the engine stopped on a failed tick
}

// Session is one game on one calendar page.
type Session struct {
	opts      Options
	doc       *calendar.Document
	ledger    *storage.Store
	ownLedger bool
	registry  *obstacle.Registry
	feedback  *effects.Feedback
	engine    *engine.Engine
	logger    *log.Logger

	runID string

	mu     sync.Mutex
	result *Result
	done   chan struct{}
}

// New builds a session around a fresh engine.
func New(opts Options) (*Session, error) {
	if opts.Document == nil {
		return nil, fmt.Errorf("session: document is required")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("session: scheduler is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Session{
		opts:   opts,
		doc:    opts.Document,
		ledger: opts.Ledger,
		logger: opts.Logger,
		done:   make(chan struct{}),
	}

	if s.ledger == nil {
		ledger, err := storage.Open(storage.Memory)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		s.ledger = ledger
		s.ownLedger = true
	}

	cfg := opts.Config
	area := engine.ComputePlayArea(s.doc.Host(), cfg.Play.BottomOffset, cfg.Play.SafeZoneHeight)
	s.registry = obstacle.NewRegistry(s.doc, area.Band(), opts.Classifier)
	s.feedback = effects.New(cfg.EffectsSettings(), opts.Seed)

	sinks := engine.MultiSink{&ledgerSink{s: s}}
	sinks = append(sinks, opts.Sinks...)

	eng, err := engine.New(engine.Options{
		Config:    cfg.Engine(),
		Area:      area,
		Obstacles: s.registry,
		Scheduler: opts.Scheduler,
		Input:     opts.Input,
		Sink:      sinks,
		Feedback:  s.feedback,
		Logger:    s.logger.WithPrefix("engine"),
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("session: %w", err)
	}
	s.engine = eng
	return s, nil
}

// Start records the run and starts the engine. A session starts once; a
// repeated call leaves the recorded run untouched.
func (s *Session) Start() error {
	if s.engine.Status() != engine.StatusIdle {
		return fmt.Errorf("session: %w", engine.ErrAlreadyStarted)
	}

	now := s.opts.Clock()
	runID, err := s.ledger.BeginRun(storage.RunInfo{
		Layout:    s.opts.Layout,
		Preset:    s.opts.Preset.String(),
		Seed:      s.opts.Seed,
		StartedAt: now,
	})
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.runID = runID

	s.logger.Info("run started", "run", runID, "layout", s.opts.Layout, "events", s.doc.Len())
	return s.engine.Start(now)
}

// Stop abandons the game without an outcome.
func (s *Session) Stop() error {
	return s.engine.Stop()
}

// Engine returns the underlying engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Document returns the calendar page the game runs on.
func (s *Session) Document() *calendar.Document {
	return s.doc
}

// Ledger returns the run ledger.
func (s *Session) Ledger() *storage.Store {
	return s.ledger
}

// RunID returns the ledger id of the run, empty before Start.
func (s *Session) RunID() string {
	return s.runID
}

// Done is closed once the game has ended with an outcome or a failure.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Result returns the summary once the game has ended.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	r := *s.result
	r.Destroyed = append([]obstacle.ID(nil), r.Destroyed...)
	return r, true
}

func (s *Session) finish(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return
	}
	r.RunID = s.runID
	s.result = &r
	close(s.done)
}

// Close releases the ledger if the session opened it.
func (s *Session) Close() error {
	if s.ownLedger {
		return s.ledger.Close()
	}
	return nil
}
