package presets

import (
	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/registry"
)

func init() {
	registry.Register(registry.LayoutInfo{
		ID:          "workweek",
		Title:       "Work Week",
		Description: "Five days of ordinary meetings",
	}, Workweek)
	registry.Register(registry.LayoutInfo{
		ID:          "standup",
		Title:       "Daily Standup",
		Description: "A recurring standup every morning and little else",
	}, Standup)
	registry.Register(registry.LayoutInfo{
		ID:          "crunch",
		Title:       "Crunch",
		Description: "Seven packed days with overlapping meetings",
	}, Crunch)
	registry.Register(registry.LayoutInfo{
		ID:          "allday",
		Title:       "Conference Week",
		Description: "Mostly all-day entries above the grid",
	}, AllDay)
}

// Workweek is five days with two to four meetings each.
func Workweek(seed int64) *calendar.Document {
	b := newBuilder("workweek", seed, 5)
	for day := range 5 {
		b.scatter(day, 2+b.rng.IntN(3), []int{30, 60, 60, 90})
	}
	if b.rng.IntN(2) == 0 {
		b.allDay(b.rng.IntN(5), 1, "Focus day")
	}
	return b.doc
}

// Standup is a recurring 15 minute standup each weekday plus an odd meeting.
func Standup(seed int64) *calendar.Document {
	b := newBuilder("standup", seed, 5)
	for day := range 5 {
		b.timed(day, 9*60+30, 15, "Standup", true, 0, 1)
		if b.rng.IntN(2) == 0 {
			b.timed(day, (13+b.rng.IntN(4))*60, 60, b.title(), false, 0, 1)
		}
	}
	return b.doc
}

// Crunch is seven days where meetings overlap in pairs.
func Crunch(seed int64) *calendar.Document {
	b := newBuilder("crunch", seed, 7)
	for day := range 7 {
		for hour := firstHour + 1; hour < lastHour-3; hour += 2 {
			if b.rng.IntN(3) == 0 {
				b.timed(day, hour*60, 60, b.title(), false, 0, 1)
				continue
			}
			b.timed(day, hour*60, 90, b.title(), false, 0, 2)
			b.timed(day, hour*60+30, 60, b.title(), b.rng.IntN(4) == 0, 1, 2)
		}
	}
	b.allDay(0, 7, "Release freeze")
	return b.doc
}

// AllDay is a conference week: an all-day entry per day and a few timed
// meetings.
func AllDay(seed int64) *calendar.Document {
	b := newBuilder("allday", seed, 5)
	names := []string{"Conference", "Travel", "Workshop", "Offsite", "Holiday"}
	for day := range 5 {
		b.allDay(day, 1, names[b.rng.IntN(len(names))])
	}
	for day := range 5 {
		b.scatter(day, 1, []int{60})
	}
	return b.doc
}
