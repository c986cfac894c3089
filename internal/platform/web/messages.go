package web

import (
	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/session"
	"github.com/vovakirdan/calbreak/internal/storage"
)

// Message types sent by the server.
const (
	TypePage      = "page"
	TypeRole      = "role"
	TypeFrame     = "frame"
	TypeDestroyed = "destroyed"
	TypeBounce    = "bounce"
	TypeOutcome   = "outcome"
	TypeFailed    = "failed"
	TypeFollowUp  = "followup"
	TypeError     = "error"
)

// Message types sent by clients.
const (
	TypeKeyDown = "keydown"
	TypeKeyUp   = "keyup"
	TypeStart   = "start"
	TypeStop    = "stop"
	TypeDecline = "decline"
	TypeKeep    = "keep"
)

// ClientMessage is anything a browser sends. Key is only set for keydown
// and keyup.
type ClientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
}

type vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func toVec(v core.Vec) vec { return vec{X: v.X, Y: v.Y} }

func toBox(r core.Rect) box {
	return box{X: r.Left, Y: r.Top, W: r.Width(), H: r.Height()}
}

// AreaInfo is the play area in host coordinates.
type AreaInfo struct {
	Origin       vec     `json:"origin"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	NonAllDayTop float64 `json:"nonAllDayTop"`
	SafeTop      float64 `json:"safeTop"`
}

// EventInfo is one meeting on the page.
type EventInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Box       box    `json:"box"`
	AllDay    bool   `json:"allDay"`
	Recurring bool   `json:"recurring"`
	Hidden    bool   `json:"hidden"`
	Destroyed bool   `json:"destroyed"`
	Response  string `json:"response,omitempty"`
}

// PageMessage describes the whole page. It is sent on connect and after
// every restart.
type PageMessage struct {
	Type     string      `json:"type"`
	Layout   string      `json:"layout"`
	Status   string      `json:"status"`
	Viewport vec         `json:"viewport"`
	Area     AreaInfo    `json:"area"`
	Events   []EventInfo `json:"events"`
}

type particle struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Rotation float64 `json:"rotation"`
	Hue      float64 `json:"hue"`
	Opacity  float64 `json:"opacity"`
}

type trail struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Hue     float64 `json:"hue"`
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
}

// FrameMessage is one committed tick. Positions are local to the play
// area origin.
type FrameMessage struct {
	Type        string     `json:"type"`
	Tick        uint64     `json:"tick"`
	Ball        vec        `json:"ball"`
	Radius      float64    `json:"radius"`
	Paddle      box        `json:"paddle"`
	BallHue     float64    `json:"ballHue"`
	PaddleHue   float64    `json:"paddleHue"`
	BallScale   float64    `json:"ballScale"`
	PaddleScale vec        `json:"paddleScale"`
	Shake       vec        `json:"shake"`
	Particles   []particle `json:"particles,omitempty"`
	Trails      []trail    `json:"trails,omitempty"`
}

// EventMessage carries a destroyed meeting, a paddle bounce or a failure.
type EventMessage struct {
	Type  string `json:"type"`
	Tick  uint64 `json:"tick"`
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
	Zone  string `json:"zone,omitempty"`
	Error string `json:"error,omitempty"`
}

// OutcomeMessage ends a game.
type OutcomeMessage struct {
	Type      string   `json:"type"`
	Tick      uint64   `json:"tick"`
	Outcome   string   `json:"outcome"`
	Title     string   `json:"title"`
	RunID     string   `json:"runId"`
	Destroyed []string `json:"destroyed"`
}

// FollowUpLine is the result for one meeting after decline or keep.
type FollowUpLine struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Pressed string `json:"pressed,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FollowUpMessage reports a decline or keep.
type FollowUpMessage struct {
	Type   string         `json:"type"`
	Action string         `json:"action"`
	Lines  []FollowUpLine `json:"lines,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// RoleMessage tells a client whether it steers the paddle or only watches.
type RoleMessage struct {
	Type       string `json:"type"`
	Controller bool   `json:"controller"`
}

// ErrorMessage answers a client message that could not be handled.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func newPageMessage(layout, status string, doc *calendar.Document, area engine.PlayArea) PageMessage {
	w, h := doc.Viewport()
	msg := PageMessage{
		Type:     TypePage,
		Layout:   layout,
		Status:   status,
		Viewport: vec{X: w, Y: h},
		Area: AreaInfo{
			Origin:       toVec(area.Origin),
			Width:        area.Width,
			Height:       area.Height,
			NonAllDayTop: area.NonAllDayTop,
			SafeTop:      area.SafeTop,
		},
	}
	for _, ev := range doc.Events() {
		msg.Events = append(msg.Events, EventInfo{
			ID:        string(ev.ID),
			Title:     ev.Title,
			Box:       toBox(ev.Rect),
			AllDay:    ev.AllDay(),
			Recurring: ev.Recurring,
			Hidden:    ev.Hidden,
			Destroyed: ev.Destroyed,
			Response:  ev.Response(),
		})
	}
	return msg
}

func newFrameMessage(f engine.Frame) FrameMessage {
	v := f.Visuals
	msg := FrameMessage{
		Type:        TypeFrame,
		Tick:        f.Tick,
		Ball:        toVec(f.Ball.Center),
		Radius:      f.Ball.R,
		Paddle:      toBox(f.Paddle),
		BallHue:     v.BallHue,
		PaddleHue:   v.PaddleHue,
		BallScale:   v.BallScale,
		PaddleScale: toVec(v.PaddleScale),
		Shake:       toVec(v.Shake),
	}
	for _, p := range v.Particles {
		msg.Particles = append(msg.Particles, particle{
			X: p.Pos.X, Y: p.Pos.Y, W: p.Size.X, H: p.Size.Y,
			Rotation: p.Rotation, Hue: p.Hue, Opacity: p.Opacity,
		})
	}
	for _, t := range v.Trails {
		msg.Trails = append(msg.Trails, trail{X: t.Pos.X, Y: t.Pos.Y, Hue: t.Hue, Scale: t.Scale, Opacity: t.Opacity})
	}
	return msg
}

func newFollowUpMessage(action string, declined []session.Declined) FollowUpMessage {
	msg := FollowUpMessage{Type: TypeFollowUp, Action: action}
	for _, d := range declined {
		line := FollowUpLine{ID: string(d.ID), Title: d.Title, Pressed: d.Pressed}
		if d.Err != nil {
			line.Error = d.Err.Error()
		}
		msg.Lines = append(msg.Lines, line)
	}
	return msg
}

// RunsResponse is the body of /api/runs.
type RunsResponse struct {
	Runs     []storage.Run  `json:"runs"`
	Outcomes map[string]int `json:"outcomes"`
}
