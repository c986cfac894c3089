package engine

import "sync"

// Sink observes the engine. It must not mutate engine state.
type Sink interface {
	Frame(f Frame)
	Event(ev Event)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Frame(Frame) {}
func (NopSink) Event(Event) {}

// MultiSink fans out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Frame(f Frame) {
	for _, s := range m {
		s.Frame(f)
	}
}

func (m MultiSink) Event(ev Event) {
	for _, s := range m {
		s.Event(ev)
	}
}

// Recorder keeps every frame and event it sees.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
	events []Event
}

func (r *Recorder) Frame(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *Recorder) Event(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Outcomes returns the recorded outcome events.
func (r *Recorder) Outcomes() []OutcomeEvent {
	var out []OutcomeEvent
	for _, ev := range r.Events() {
		if o, ok := ev.(OutcomeEvent); ok {
			out = append(out, o)
		}
	}
	return out
}

// Destroyed returns the recorded obstacle-destroyed events.
func (r *Recorder) Destroyed() []ObstacleDestroyedEvent {
	var out []ObstacleDestroyedEvent
	for _, ev := range r.Events() {
		if d, ok := ev.(ObstacleDestroyedEvent); ok {
			out = append(out, d)
		}
	}
	return out
}

// Bounces returns the recorded paddle-bounce events.
func (r *Recorder) Bounces() []PaddleBounceEvent {
	var out []PaddleBounceEvent
	for _, ev := range r.Events() {
		if b, ok := ev.(PaddleBounceEvent); ok {
			out = append(out, b)
		}
	}
	return out
}
