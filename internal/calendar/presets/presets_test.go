package presets

import (
	"testing"

	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/obstacle"
	"github.com/vovakirdan/calbreak/internal/registry"
)

var ids = []string{"allday", "crunch", "standup", "workweek"}

func TestRegistered(t *testing.T) {
	for _, id := range ids {
		if !registry.Exists(id) {
			t.Errorf("layout %q not registered", id)
		}
	}
}

func TestDeterministic(t *testing.T) {
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			a, err := registry.Create(id, 42)
			if err != nil {
				t.Fatal(err)
			}
			b, _ := registry.Create(id, 42)

			ea, eb := a.Events(), b.Events()
			if len(ea) != len(eb) {
				t.Fatalf("len %d vs %d", len(ea), len(eb))
			}
			for i := range ea {
				if ea[i].ID != eb[i].ID || ea[i].Rect != eb[i].Rect || ea[i].Text != eb[i].Text {
					t.Fatalf("event %d differs: %+v vs %+v", i, ea[i], eb[i])
				}
			}

			c, _ := registry.Create(id, 43)
			if len(c.Events()) > 0 && c.Events()[0].ID == ea[0].ID {
				t.Error("different seeds produced the same ids")
			}
		})
	}
}

func TestEventsFitTheirRow(t *testing.T) {
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			d, _ := registry.Create(id, 7)
			host := d.Host()
			if d.Len() == 0 {
				t.Fatal("empty layout")
			}

			seen := make(map[obstacle.ID]bool)
			for _, ev := range d.Events() {
				if seen[ev.ID] {
					t.Errorf("duplicate id %s", ev.ID)
				}
				seen[ev.ID] = true

				row := host.Main
				if ev.AllDay() {
					row = *host.AllDay
				}
				r := ev.Rect
				if r.Empty() || r.Left < row.Left || r.Right > row.Right || r.Top < row.Top || r.Bottom > row.Bottom {
					t.Errorf("%q %+v outside row %+v", ev.Title, r, row)
				}
			}
		})
	}
}

func TestPlayable(t *testing.T) {
	for _, id := range ids {
		d, _ := registry.Create(id, 1)
		area := engine.ComputePlayArea(d.Host(), 5, 145)
		if area.Bounds().Empty() || area.SafeTop <= area.NonAllDayTop {
			t.Errorf("%s: unplayable area %+v", id, area)
		}
	}
}
