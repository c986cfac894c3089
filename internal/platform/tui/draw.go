package tui

import (
	"math"

	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/engine"
)

// Base hues the rotations are applied to.
const (
	ballBaseHue   = 200
	paddleBaseHue = 20
)

// Scene is everything drawn on one screen.
type Scene struct {
	Area   engine.PlayArea
	Events []calendar.Event
	Frame  engine.Frame
	Ready  bool // before start the ball and paddle sit at their initial spots
}

// Viewport maps play-area pixels to screen cells.
type Viewport struct {
	CellW, CellH float64
	Offset       core.Vec // shake, in pixels
}

// NewViewport fits the play area into cols×rows cells.
func NewViewport(area engine.PlayArea, cols, rows int) Viewport {
	return Viewport{
		CellW: area.Width / float64(max(cols, 1)),
		CellH: area.Height / float64(max(rows, 1)),
	}
}

// Cell converts a local point to a screen cell.
func (v Viewport) Cell(p core.Vec) (int, int) {
	p = p.Add(v.Offset)
	return int(math.Floor(p.X / v.CellW)), int(math.Floor(p.Y / v.CellH))
}

// Span converts a local rectangle to a cell box (x, y, w, h), at least one
// cell in each direction.
func (v Viewport) Span(r core.Rect) (x, y, w, h int) {
	x, y = v.Cell(core.V(r.Left, r.Top))
	x2, y2 := v.Cell(core.V(r.Right, r.Bottom))
	return x, y, max(x2-x, 1), max(y2-y, 1)
}

// DrawScene renders the page, the obstacles and the game onto dst.
func DrawScene(dst *core.Screen, sc Scene) {
	dst.Clear()
	vp := NewViewport(sc.Area, dst.Width(), dst.Height())
	vis := sc.Frame.Visuals
	vp.Offset = vis.Shake

	drawPage(dst, vp, sc.Area)
	for _, ev := range sc.Events {
		drawEvent(dst, vp, sc.Area, ev)
	}

	for _, tr := range vis.Trails {
		x, y := vp.Cell(tr.Pos)
		dst.SetColored(x, y, '∘', Fade(HueColor(ballBaseHue, tr.Hue, 0.6), tr.Opacity))
	}
	for _, p := range vis.Particles {
		r := '▪'
		if p.Opacity < 0.4 {
			r = '·'
		}
		x, y := vp.Cell(p.Pos)
		dst.SetColored(x, y, r, Fade(HueColor(0, p.Hue, 0.6), p.Opacity))
	}

	drawPaddle(dst, vp, sc.Frame.Paddle, vis.PaddleScale, HueColor(paddleBaseHue, vis.PaddleHue, 0.55))

	ball := '●'
	if vis.BallScale > 1.15 {
		ball = '◉'
	}
	x, y := vp.Cell(sc.Frame.Ball.Center)
	dst.SetColored(x, y, ball, HueColor(ballBaseHue, vis.BallHue, 0.6))

	if sc.Ready {
		_, safe := vp.Cell(core.V(0, sc.Area.SafeTop))
		dst.DrawTextCentered(safe+1, "[ space ] destroy your meetings")
	}
}

func drawPage(dst *core.Screen, vp Viewport, area engine.PlayArea) {
	if area.NonAllDayTop > 0 {
		_, y := vp.Cell(core.V(0, area.NonAllDayTop))
		dst.DrawHLine(0, y, dst.Width(), '┄', core.ColorDim)
	}
	_, y := vp.Cell(core.V(0, area.SafeTop))
	dst.DrawHLine(0, y, dst.Width(), '╌', core.ColorDim)
}

func drawEvent(dst *core.Screen, vp Viewport, area engine.PlayArea, ev calendar.Event) {
	if ev.Hidden || ev.Destroyed {
		return
	}
	local := ev.Rect.Translate(-area.Origin.X, -area.Origin.Y)
	x, y, w, h := vp.Span(local)

	color := core.ColorCyan
	if ev.AllDay() {
		color = core.ColorYellow
	}
	if ev.Recurring {
		color = core.ColorMagenta
	}

	if w >= 2 && h >= 2 {
		dst.DrawBox(x, y, w, h, color)
		drawLabel(dst, x+1, y+min(1, h-2), w-2, ev.Title, color)
		return
	}
	dst.FillRect(x, y, w, h, '▒', color)
	drawLabel(dst, x, y, w, ev.Title, core.ColorBrightWhite)
}

func drawLabel(dst *core.Screen, x, y, width int, text string, c core.Color) {
	if width <= 0 {
		return
	}
	runes := []rune(text)
	if len(runes) > width {
		runes = runes[:width]
	}
	dst.DrawTextColored(x, y, string(runes), c)
}

func drawPaddle(dst *core.Screen, vp Viewport, paddle core.Rect, scale core.Vec, c core.Color) {
	if scale.X == 0 {
		scale = core.V(1, 1)
	}
	center := paddle.Center()
	half := paddle.Width() * scale.X / 2
	r := core.Rect{Left: center.X - half, Right: center.X + half, Top: paddle.Top, Bottom: paddle.Top + paddle.Height()*scale.Y}

	x, y, w, _ := vp.Span(r)
	dst.DrawHLine(x, y, w, '▀', c)
}
