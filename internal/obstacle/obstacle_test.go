package obstacle

import (
	"errors"
	"testing"

	"github.com/vovakirdan/calbreak/internal/core"
)

type fakeSource struct {
	items     []Obstacle
	destroyed map[ID]bool
	err       error
}

func newFakeSource(items ...Obstacle) *fakeSource {
	return &fakeSource{items: items, destroyed: make(map[ID]bool)}
}

func (f *fakeSource) Obstacles() ([]Obstacle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]Obstacle(nil), f.items...), nil
}

func (f *fakeSource) MarkDestroyed(id ID)    { f.destroyed[id] = true }
func (f *fakeSource) IsDestroyed(id ID) bool { return f.destroyed[id] }

func timed(id string, r core.Rect) Obstacle {
	return Obstacle{ID: ID(id), Text: id + "\n9am - 10am\nRoom 1", Bounds: r, HasBounds: true}
}

func allDay(id string, r core.Rect) Obstacle {
	return Obstacle{ID: ID(id), Text: id + "\nAll day", Bounds: r, HasBounds: true}
}

func TestLineBreakClassifier(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Offsite\nAll day", true},
		{"Standup\n9 - 9:15am\nZoom", false},
		{"Untitled", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := LineBreakClassifier(Obstacle{Text: tc.text}); got != tc.want {
			t.Errorf("LineBreakClassifier(%q) = %v, expected %v", tc.text, got, tc.want)
		}
	}
}

func TestBandTranslate(t *testing.T) {
	band := Band{Origin: core.V(50, 100), NonAllDayTop: 40, SafeTop: 400}

	tests := []struct {
		name   string
		host   core.Rect
		allDay bool
		want   core.Rect
		ok     bool
	}{
		{
			name: "inside band",
			host: core.Rect{Left: 60, Top: 200, Right: 160, Bottom: 260},
			want: core.Rect{Left: 10, Top: 100, Right: 110, Bottom: 160},
			ok:   true,
		},
		{
			name: "timed entry clipped at all-day line",
			host: core.Rect{Left: 60, Top: 120, Right: 160, Bottom: 180},
			want: core.Rect{Left: 10, Top: 40, Right: 110, Bottom: 80},
			ok:   true,
		},
		{
			name:   "all-day entry reaches the play top",
			host:   core.Rect{Left: 60, Top: 110, Right: 160, Bottom: 130},
			allDay: true,
			want:   core.Rect{Left: 10, Top: 10, Right: 110, Bottom: 30},
			ok:     true,
		},
		{
			name: "timed entry entirely above the line",
			host: core.Rect{Left: 60, Top: 100, Right: 160, Bottom: 130},
			ok:   false,
		},
		{
			name: "clipped at safe zone",
			host: core.Rect{Left: 60, Top: 450, Right: 160, Bottom: 550},
			want: core.Rect{Left: 10, Top: 350, Right: 110, Bottom: 400},
			ok:   true,
		},
		{
			name: "entirely inside safe zone",
			host: core.Rect{Left: 60, Top: 520, Right: 160, Bottom: 560},
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := band.Translate(tc.host, tc.allDay)
			if ok != tc.ok {
				t.Fatalf("ok = %v, expected %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("Translate = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestRegistryQuery(t *testing.T) {
	src := newFakeSource(
		timed("a", core.RectFromSize(0, 100, 50, 50)),
		allDay("b", core.RectFromSize(60, 0, 50, 20)),
		Obstacle{ID: "c", Text: "hidden"},             // no geometry
		timed("d", core.RectFromSize(0, 900, 50, 50)), // in safe zone
		timed("e", core.RectFromSize(200, 100, 50, 50)),
	)
	src.destroyed["e"] = true

	reg := NewRegistry(src, Band{NonAllDayTop: 30, SafeTop: 500}, nil)
	snap, err := reg.Query()
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if snap.Remaining != 4 {
		t.Errorf("Remaining = %d, expected 4", snap.Remaining)
	}
	if snap.Skipped != 1 {
		t.Errorf("Skipped = %d, expected 1", snap.Skipped)
	}
	if len(snap.Candidates) != 2 {
		t.Fatalf("candidates = %d, expected 2", len(snap.Candidates))
	}
	if snap.Candidates[0].ID != "a" || snap.Candidates[1].ID != "b" {
		t.Errorf("candidate order = %s, %s", snap.Candidates[0].ID, snap.Candidates[1].ID)
	}
	if !snap.Candidates[1].AllDay {
		t.Error("b should classify as all-day")
	}
}

func TestRegistryDestroyedNeverReturns(t *testing.T) {
	src := newFakeSource(timed("a", core.RectFromSize(0, 100, 50, 50)))
	reg := NewRegistry(src, Band{SafeTop: 500}, nil)

	reg.MarkDestroyed("a")
	reg.MarkDestroyed("a")

	for i := 0; i < 3; i++ {
		snap, err := reg.Query()
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(snap.Candidates) != 0 || snap.Remaining != 0 {
			t.Fatalf("destroyed obstacle came back: %+v", snap)
		}
	}

	if got := reg.Destroyed(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Destroyed = %v, expected [a]", got)
	}
	if !src.destroyed["a"] {
		t.Error("source should carry the destroyed marker")
	}

	reg.Forget()
	if len(reg.Destroyed()) != 0 {
		t.Error("Forget should clear the destroyed list")
	}
}

func TestRegistryCustomClassifier(t *testing.T) {
	src := newFakeSource(timed("a", core.RectFromSize(0, 0, 50, 20)))
	everything := func(Obstacle) bool { return true }

	reg := NewRegistry(src, Band{NonAllDayTop: 30, SafeTop: 500}, everything)
	snap, _ := reg.Query()
	if len(snap.Candidates) != 1 {
		t.Error("custom classifier should let the entry above the line collide")
	}
}

func TestRegistrySourceError(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("layout gone")

	reg := NewRegistry(src, Band{}, nil)
	if _, err := reg.Query(); err == nil || !errors.Is(err, src.err) {
		t.Errorf("Query error = %v, expected wrapped source error", err)
	}
}
