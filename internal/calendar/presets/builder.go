// Package presets registers generated calendar pages with the layout
// registry. Every page is derived from a seed, so the same seed always
// produces the same week.
package presets

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/obstacle"
)

// Page geometry shared by all presets.
const (
	viewportW = 1200
	viewportH = 800

	gridLeft  = 60
	gridRight = 1180
	allDayTop = 80
	allDayH   = 32
	gridTop   = allDayTop + allDayH

	firstHour = 8
	lastHour  = 18
	hourPx    = 56
)

// namespace keeps generated ids apart from user-authored ones.
var namespace = uuid.MustParse("6f1d8c3e-5b0a-4f5e-9a34-0c6e2b7d9f10")

var titles = []string{
	"Sync", "1:1", "Planning", "Retro", "Design review", "Roadmap",
	"Interview", "Budget", "All hands", "Demo", "Office hours", "Vendor call",
	"Architecture", "Hiring debrief", "Quarterly review", "Lunch & learn",
}

var rooms = []string{"", "Blue room", "Big room", "Video call", "Cafe"}

type builder struct {
	preset string
	seed   int64
	rng    *rand.Rand
	doc    *calendar.Document
	days   int
	n      int
}

func newBuilder(preset string, seed int64, days int) *builder {
	allDay := core.RectFromSize(gridLeft, allDayTop, gridRight-gridLeft, allDayH)
	grid := core.Rect{Left: gridLeft, Top: gridTop, Right: gridRight, Bottom: gridTop + (lastHour-firstHour)*hourPx}

	return &builder{
		preset: preset,
		seed:   seed,
		rng:    rand.New(rand.NewPCG(uint64(seed), uint64(len(preset)))),
		doc:    calendar.NewDocument(viewportW, viewportH, grid, &allDay),
		days:   days,
	}
}

func (b *builder) nextID() obstacle.ID {
	b.n++
	name := fmt.Sprintf("%s/%d/%d", b.preset, b.seed, b.n)
	return obstacle.ID(uuid.NewSHA1(namespace, []byte(name)).String())
}

func (b *builder) colWidth() float64 {
	return float64(gridRight-gridLeft) / float64(b.days)
}

func (b *builder) title() string {
	return titles[b.rng.IntN(len(titles))]
}

func clock(minute int) string {
	return fmt.Sprintf("%d:%02d", minute/60, minute%60)
}

// timed adds a meeting on day starting at minute (from midnight). slot and
// slots split the column for overlapping meetings.
func (b *builder) timed(day, minute, length int, title string, recurring bool, slot, slots int) {
	w := b.colWidth()
	inner := (w - 6) / float64(slots)
	left := gridLeft + float64(day)*w + 3 + float64(slot)*inner
	top := gridTop + float64(minute-firstHour*60)/60*hourPx
	height := float64(length)/60*hourPx - 2

	when := clock(minute) + " - " + clock(minute+length)
	where := rooms[b.rng.IntN(len(rooms))]
	b.add(calendar.Event{
		ID:        b.nextID(),
		Title:     title,
		Text:      calendar.EventText(title, when, where, false),
		Rect:      core.RectFromSize(left, top+1, inner-2, height),
		Recurring: recurring,
	})
}

// allDay adds an entry to the all-day row spanning span days.
func (b *builder) allDay(day, span int, title string) {
	w := b.colWidth()
	b.add(calendar.Event{
		ID:    b.nextID(),
		Title: title,
		Text:  calendar.EventText(title, "", "", true),
		Rect:  core.RectFromSize(gridLeft+float64(day)*w+3, allDayTop+4, float64(span)*w-6, allDayH-8),
	})
}

func (b *builder) add(ev calendar.Event) {
	if ev.Recurring {
		ev.Controls = calendar.RecurringControls()
	} else {
		ev.Controls = calendar.DefaultControls()
	}
	if b.rng.IntN(4) == 0 {
		ev.Controls[0].Selected = true
	}
	if err := b.doc.Add(ev); err != nil {
		// ids are derived from a counter and cannot collide
		panic(err)
	}
}

// scatter fills a day with up to n non-overlapping meetings on a half-hour
// raster.
func (b *builder) scatter(day, n int, lengths []int) {
	taken := make([]bool, (lastHour-firstHour)*2)
	for range n {
		length := lengths[b.rng.IntN(len(lengths))]
		slots := length / 30
		start := b.rng.IntN(len(taken) - slots + 1)

		free := true
		for s := start; s < start+slots; s++ {
			free = free && !taken[s]
		}
		if !free {
			continue
		}
		for s := start; s < start+slots; s++ {
			taken[s] = true
		}
		b.timed(day, firstHour*60+start*30, length, b.title(), b.rng.IntN(5) == 0, 0, 1)
	}
}
