package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/calbreak/internal/calendar"
	_ "github.com/vovakirdan/calbreak/internal/calendar/presets"
	"github.com/vovakirdan/calbreak/internal/config"
	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/effects"
	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/session"
)

var t0 = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

type recordingListener struct {
	events []string
}

func (r *recordingListener) KeyDown(k core.Key, at time.Time) {
	r.events = append(r.events, "down "+k.String()+" "+at.Sub(t0).String())
}

func (r *recordingListener) KeyUp(k core.Key, at time.Time) {
	r.events = append(r.events, "up "+k.String()+" "+at.Sub(t0).String())
}

func TestSchedulerFrame(t *testing.T) {
	s := NewScheduler(t0)
	var order []string

	s.ScheduleTimeout(30*time.Millisecond, func(time.Time) { order = append(order, "timeout") })
	cancel := s.ScheduleTimeout(10*time.Millisecond, func(time.Time) { order = append(order, "cancelled") })
	cancel()
	s.ScheduleNextTick(func(now time.Time) { order = append(order, "tick "+now.Sub(t0).String()) })

	if !s.Frame(t0.Add(16 * time.Millisecond)) {
		t.Fatal("pending tick did not run")
	}
	if s.Frame(t0.Add(32 * time.Millisecond)) {
		t.Error("tick ran twice")
	}

	want := []string{"tick 16ms", "timeout"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
	if !s.Now().Equal(t0.Add(32 * time.Millisecond)) {
		t.Errorf("Now() = %v", s.Now())
	}
}

func TestSchedulerClockNeverGoesBack(t *testing.T) {
	s := NewScheduler(t0)
	s.Frame(t0.Add(-time.Second))
	if !s.Now().Equal(t0) {
		t.Errorf("Now() = %v, want %v", s.Now(), t0)
	}
}

func TestKeyHold(t *testing.T) {
	tests := []struct {
		name  string
		steps func(h *KeyHold)
		want  []string
	}{
		{
			name: "single press holds for the initial window",
			steps: func(h *KeyHold) {
				h.Press(core.KeyLeft, t0)
				h.Expire(t0.Add(200 * time.Millisecond))
				h.Expire(t0.Add(400 * time.Millisecond))
			},
			want: []string{"down left 0s", "up left 300ms"},
		},
		{
			name: "repeats shorten the window",
			steps: func(h *KeyHold) {
				h.Press(core.KeyRight, t0)
				h.Press(core.KeyRight, t0.Add(300*time.Millisecond))
				h.Press(core.KeyRight, t0.Add(330*time.Millisecond))
				h.Expire(t0.Add(400 * time.Millisecond))
				h.Expire(t0.Add(420 * time.Millisecond))
			},
			want: []string{"down right 0s", "up right 410ms"},
		},
		{
			name: "other direction releases",
			steps: func(h *KeyHold) {
				h.Press(core.KeyRight, t0)
				h.Press(core.KeyLeft, t0.Add(100*time.Millisecond))
			},
			want: []string{"down right 0s", "up right 100ms", "down left 100ms"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingListener{}
			h := NewKeyHold()
			h.Attach(rec)
			tt.steps(h)
			if strings.Join(rec.events, ",") != strings.Join(tt.want, ",") {
				t.Errorf("events = %v, want %v", rec.events, tt.want)
			}
		})
	}
}

func TestKeyHoldDetached(t *testing.T) {
	rec := &recordingListener{}
	h := NewKeyHold()
	h.Attach(rec)
	h.Press(core.KeyLeft, t0)
	h.Detach()
	h.Press(core.KeyLeft, t0.Add(time.Millisecond))
	h.Expire(t0.Add(time.Second))
	if len(rec.events) != 1 {
		t.Errorf("events after detach = %v", rec.events)
	}
	if _, down := h.Held(); down {
		t.Error("key still held after Detach")
	}
}

func TestKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}, core.ActionRight},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, core.ActionStart},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionStop},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, core.ActionDecline},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, core.ActionKeep},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")}, core.ActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKey(tt.msg); got != tt.want {
			t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestHueColor(t *testing.T) {
	a := HueColor(200, 0, 0.6)
	b := HueColor(200, 360, 0.6)
	if a != b {
		t.Errorf("full rotation changed color: %s vs %s", a, b)
	}
	if !strings.HasPrefix(string(a), "#") || len(a) != 7 {
		t.Errorf("HueColor = %q, want hex", a)
	}
	if Fade(a, 0) != "#000000" {
		t.Errorf("Fade(0) = %s", Fade(a, 0))
	}
	if Fade(a, 1) != a {
		t.Errorf("Fade(1) = %s, want %s", Fade(a, 1), a)
	}
}

func TestDrawScene(t *testing.T) {
	area := engine.PlayArea{Width: 400, Height: 200, SafeTop: 150}
	screen := core.NewScreen(40, 20)

	DrawScene(screen, Scene{
		Area: area,
		Events: []calendar.Event{
			{ID: "a", Title: "Standup", Text: "Standup\n9:00\nx", Rect: core.RectFromSize(0, 0, 100, 40)},
			{ID: "b", Title: "Gone", Rect: core.RectFromSize(200, 0, 100, 40), Destroyed: true},
		},
		Frame: engine.Frame{
			Ball:    core.Circle{Center: core.V(205, 105), R: 10},
			Paddle:  core.RectFromSize(100, 180, 100, 10),
			Visuals: effects.Visuals{PaddleScale: core.V(1, 1), BallScale: 1},
		},
	})

	if got := screen.GetCell(20, 10).Rune; got != '●' {
		t.Errorf("ball cell = %q, want ●", got)
	}
	if got := screen.GetCell(10, 18).Rune; got != '▀' {
		t.Errorf("paddle cell = %q", got)
	}
	if got := screen.GetCell(0, 0).Rune; got != '┌' {
		t.Errorf("event corner = %q", got)
	}
	if !strings.Contains(screen.Row(1), "Standup") {
		t.Errorf("label missing: %q", screen.Row(1))
	}
	if strings.Contains(screen.Row(1), "Gone") {
		t.Error("destroyed meeting drawn")
	}
	if got := screen.GetCell(0, 15).Rune; got != '╌' {
		t.Errorf("safe zone line = %q", got)
	}
}

func TestModelPlaysToResult(t *testing.T) {
	doc := calendar.NewDocument(400, 600, core.RectFromSize(0, 0, 400, 600), nil)
	m, err := NewModel(Options{
		Session: session.Options{
			Layout:   "empty",
			Config:   config.DefaultEngineConfig(),
			Document: doc,
		},
		Width:  80,
		Height: 24,
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	defer m.game.sess.Close()

	if !strings.Contains(m.View(), "press space") {
		t.Error("ready view lacks the start hint")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m = next.(Model)
	if m.phase != phasePlaying {
		t.Fatalf("phase = %v, want playing", m.phase)
	}

	next, cmd := m.Update(FrameMsg(m.game.sched.Now().Add(50 * time.Millisecond)))
	m = next.(Model)
	if cmd == nil {
		t.Error("frame loop stopped")
	}
	if m.phase != phaseResult {
		t.Fatalf("phase = %v, want result", m.phase)
	}
	if !strings.Contains(m.View(), "All Meetings Destroyed!") {
		t.Error("result view lacks the outcome title")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(Model)
	if m.phase != phaseFollowUp {
		t.Fatalf("phase = %v, want follow-up", m.phase)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m = next.(Model)
	if m.phase != phaseReady {
		t.Errorf("phase = %v, want ready after restart", m.phase)
	}
}

func pickerKey(m PickerModel, k tea.KeyMsg) PickerModel {
	next, _ := m.Update(k)
	return next.(PickerModel)
}

func TestPicker(t *testing.T) {
	m := NewPickerModel(config.PresetHard, 100, 30)
	if len(m.items) < 4 {
		t.Fatalf("items = %d, want every registered layout", len(m.items))
	}
	if !strings.Contains(m.View(), "Preset: < hard >") {
		t.Error("view does not show the starting preset")
	}

	m = pickerKey(m, tea.KeyMsg{Type: tea.KeyUp})
	m = pickerKey(m, tea.KeyMsg{Type: tea.KeyDown})
	m = pickerKey(m, tea.KeyMsg{Type: tea.KeyRight})
	m = pickerKey(m, tea.KeyMsg{Type: tea.KeyRight})
	m = pickerKey(m, tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.Selected()
	if sel == nil {
		t.Fatal("nothing selected")
	}
	if sel.LayoutID != m.items[1].LayoutID {
		t.Errorf("layout = %q, want %q", sel.LayoutID, m.items[1].LayoutID)
	}
	// hard -> zen -> easy
	if sel.Preset != config.PresetEasy {
		t.Errorf("preset = %q, want easy", sel.Preset)
	}
}

func TestPickerQuit(t *testing.T) {
	m := pickerKey(NewPickerModel(config.PresetNormal, 80, 24), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if m.Selected() != nil || m.View() != "" {
		t.Error("quit left a selection or a view behind")
	}
}
