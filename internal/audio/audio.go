// Package audio plays retro beeps for game events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/vovakirdan/calbreak/internal/engine"
)

const sampleRate = beep.SampleRate(44100)

// volume of every tone
const volume = 0.2

// Player plays streamers. The speaker implements it; tests record instead.
type Player interface {
	Play(s ...beep.Streamer)
}

var (
	speakerMu   sync.Mutex
	speakerOpen bool
)

// Speaker plays through the system audio device.
type Speaker struct{}

// OpenSpeaker initializes the audio device once per process.
func OpenSpeaker() (*Speaker, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if !speakerOpen {
		if err := speaker.Init(sampleRate, sampleRate.N(time.Second/30)); err != nil {
			return nil, err
		}
		speakerOpen = true
	}
	return &Speaker{}, nil
}

func (*Speaker) Play(s ...beep.Streamer) {
	speaker.Play(s...)
}

// Close shuts the audio device down.
func (*Speaker) Close() {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerOpen {
		speaker.Close()
		speakerOpen = false
	}
}

// squareWave generates a square wave tone (more retro/8-bit feel)
func squareWave(freq float64, duration time.Duration) beep.Streamer {
	numSamples := sampleRate.N(duration)
	phase := 0.0
	phaseStep := freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if numSamples <= 0 {
				return i, false
			}
			val := volume
			if math.Mod(phase, 1.0) > 0.5 {
				val = -val
			}
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			numSamples--
		}
		return len(samples), true
	})
}

type note struct {
	freq float64
	dur  time.Duration
}

func melody(notes ...note) beep.Streamer {
	parts := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		parts[i] = squareWave(n.freq, n.dur)
	}
	return beep.Seq(parts...)
}

var (
	paddleHit   = []note{{880, 50 * time.Millisecond}}
	meetingHit  = []note{{1320, 40 * time.Millisecond}}
	allDayHit   = []note{{990, 60 * time.Millisecond}}
	gameWon     = []note{{523, 100 * time.Millisecond}, {659, 100 * time.Millisecond}, {784, 200 * time.Millisecond}}
	gameOver    = []note{{660, 100 * time.Millisecond}, {440, 100 * time.Millisecond}, {330, 150 * time.Millisecond}}
	timedOut    = []note{{440, 120 * time.Millisecond}, {440, 120 * time.Millisecond}}
	tickFailure = []note{{110, 300 * time.Millisecond}}
)

// Sink beeps on engine events. Frames are ignored.
type Sink struct {
	player Player
}

// NewSink creates a sink playing through p.
func NewSink(p Player) *Sink {
	return &Sink{player: p}
}

func (s *Sink) Frame(engine.Frame) {}

func (s *Sink) Event(ev engine.Event) {
	var notes []note
	switch ev := ev.(type) {
	case engine.PaddleBounceEvent:
		notes = paddleHit
	case engine.ObstacleDestroyedEvent:
		notes = meetingHit
		if ev.AllDay {
			notes = allDayHit
		}
	case engine.OutcomeEvent:
		switch ev.Outcome {
		case engine.OutcomeGameWon:
			notes = gameWon
		case engine.OutcomeGameOver:
			notes = gameOver
		case engine.OutcomeTimedOut:
			notes = timedOut
		}
	case engine.TickFailedEvent:
		notes = tickFailure
	}
	if len(notes) > 0 {
		s.player.Play(melody(notes...))
	}
}
