package calendar

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/obstacle"
)

// Box is a rectangle in layout files.
type Box struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	W float64 `yaml:"w" toml:"w"`
	H float64 `yaml:"h" toml:"h"`
}

// Rect converts the box to edges.
func (b Box) Rect() core.Rect {
	return core.RectFromSize(b.X, b.Y, b.W, b.H)
}

func boxOf(r core.Rect) Box {
	return Box{X: r.Left, Y: r.Top, W: r.Width(), H: r.Height()}
}

// EventFile is one meeting in a layout file.
type EventFile struct {
	ID        string   `yaml:"id" toml:"id"`
	Title     string   `yaml:"title" toml:"title"`
	When      string   `yaml:"when,omitempty" toml:"when,omitempty"` // time range line; empty for all-day
	Where     string   `yaml:"where,omitempty" toml:"where,omitempty"`
	AllDay    bool     `yaml:"all_day,omitempty" toml:"all_day,omitempty"`
	Box       Box      `yaml:"box" toml:"box"`
	Hidden    bool     `yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	Recurring bool     `yaml:"recurring,omitempty" toml:"recurring,omitempty"`
	Controls  []string `yaml:"controls,omitempty" toml:"controls,omitempty"`
	Response  string   `yaml:"response,omitempty" toml:"response,omitempty"`
}

// File is the on-disk layout of a calendar page.
type File struct {
	Viewport struct {
		Width  float64 `yaml:"width" toml:"width"`
		Height float64 `yaml:"height" toml:"height"`
	} `yaml:"viewport" toml:"viewport"`
	Grid   Box         `yaml:"grid" toml:"grid"`
	AllDay *Box        `yaml:"all_day,omitempty" toml:"all_day,omitempty"`
	Events []EventFile `yaml:"events" toml:"events"`
}

// EventText renders the lines a meeting shows: all-day entries carry two
// lines, timed ones add the time range and location.
func EventText(title, when, where string, allDay bool) string {
	if allDay {
		return title + "\n" + "All day"
	}
	return strings.Join([]string{title, when, where}, "\n")
}

// Build converts a layout file into a document.
func (f File) Build() (*Document, error) {
	if f.Viewport.Width <= 0 || f.Viewport.Height <= 0 {
		return nil, fmt.Errorf("calendar: viewport %gx%g must be positive", f.Viewport.Width, f.Viewport.Height)
	}
	if f.Grid.Rect().Empty() {
		return nil, fmt.Errorf("calendar: grid %+v has no area", f.Grid)
	}

	var allDay *core.Rect
	if f.AllDay != nil {
		r := f.AllDay.Rect()
		allDay = &r
	}
	d := NewDocument(f.Viewport.Width, f.Viewport.Height, f.Grid.Rect(), allDay)

	for i, ef := range f.Events {
		ev := Event{
			ID:        obstacle.ID(ef.ID),
			Title:     ef.Title,
			Text:      EventText(ef.Title, ef.When, ef.Where, ef.AllDay),
			Rect:      ef.Box.Rect(),
			Hidden:    ef.Hidden,
			Recurring: ef.Recurring,
		}
		if ev.ID == "" {
			ev.ID = obstacle.ID(fmt.Sprintf("event-%d", i+1))
		}
		switch {
		case len(ef.Controls) > 0:
			for _, label := range ef.Controls {
				ev.Controls = append(ev.Controls, Control{Label: label})
			}
		case ef.Recurring:
			ev.Controls = RecurringControls()
		default:
			ev.Controls = DefaultControls()
		}
		if ef.Response != "" {
			if j, err := MatchOne(ev.Controls, ef.Response); err == nil {
				ev.Controls[j].Selected = true
			}
		}
		if err := d.Add(ev); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Snapshot converts the document back into a layout file. Destroyed
// markers are not persisted.
func (d *Document) Snapshot() File {
	d.mu.Lock()
	defer d.mu.Unlock()

	var f File
	f.Viewport.Width = d.viewportW
	f.Viewport.Height = d.viewportH
	f.Grid = boxOf(d.main)
	if d.allDay != nil {
		b := boxOf(*d.allDay)
		f.AllDay = &b
	}
	for _, e := range d.events {
		lines := strings.Split(e.Text, "\n")
		ef := EventFile{
			ID:        string(e.ID),
			Title:     e.Title,
			Box:       boxOf(e.Rect),
			Hidden:    e.Hidden,
			Recurring: e.Recurring,
			Response:  e.Response(),
			AllDay:    len(lines) == 2,
		}
		if !ef.AllDay && len(lines) >= 3 {
			ef.When, ef.Where = lines[1], lines[2]
		}
		for _, c := range e.Controls {
			ef.Controls = append(ef.Controls, c.Label)
		}
		f.Events = append(f.Events, ef)
	}
	return f
}

// Load reads a layout file. Paths ending in .toml are decoded as TOML,
// everything else as YAML.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calendar: read %s: %w", path, err)
	}
	var f File
	if isTOML(path) {
		_, err = toml.Decode(string(data), &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("calendar: parse %s: %w", path, err)
	}
	return f.Build()
}

// Save writes the document as a layout file, picking the format from the
// extension.
func Save(path string, d *Document) error {
	f := d.Snapshot()
	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return fmt.Errorf("calendar: encode %s: %w", path, err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("calendar: encode %s: %w", path, err)
		}
		_ = enc.Close()
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("calendar: write %s: %w", path, err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
