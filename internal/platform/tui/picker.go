package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/calbreak/internal/config"
	"github.com/vovakirdan/calbreak/internal/registry"
)

// PickerItem is a selectable calendar layout.
type PickerItem struct {
	LayoutID    string
	Title       string
	Description string
}

// Selection is what the player picked.
type Selection struct {
	LayoutID string
	Preset   config.Preset
}

type pickerKeys struct {
	Up, Down, Prev, Next, Select, Quit key.Binding
}

func defaultPickerKeys() pickerKeys {
	return pickerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "a")),
		Next:   key.NewBinding(key.WithKeys("right", "l", "d")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

// PickerModel is the Bubble Tea model for the layout picker.
type PickerModel struct {
	items    []PickerItem
	cursor   int
	preset   int
	width    int
	height   int
	keys     pickerKeys
	quitting bool
	selected *Selection
}

// NewPickerModel lists every registered layout, starting on the given
// preset.
func NewPickerModel(preset config.Preset, width, height int) PickerModel {
	layouts := registry.List()
	items := make([]PickerItem, 0, len(layouts))
	for _, l := range layouts {
		items = append(items, PickerItem{LayoutID: l.ID, Title: l.Title, Description: l.Description})
	}

	m := PickerModel{items: items, width: width, height: height, keys: defaultPickerKeys()}
	for i, p := range config.Presets {
		if p == preset {
			m.preset = i
		}
	}
	return m
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Prev):
		m.preset = (m.preset + len(config.Presets) - 1) % len(config.Presets)

	case key.Matches(msg, m.keys.Next):
		m.preset = (m.preset + 1) % len(config.Presets)

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			m.selected = &Selection{LayoutID: m.items[m.cursor].LayoutID, Preset: config.Presets[m.preset]}
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("  C A L B R E A K  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a calendar", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-16s %s", cursor, item.Title, hintStyle.Render(item.Description)), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Preset: < %s >", config.Presets[m.preset]), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Left/Right: Preset  |  Enter: Select  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the picked layout and preset, or nil when the player quit.
func (m PickerModel) Selected() *Selection {
	return m.selected
}

// RunPicker shows the picker and returns the selection, nil when the
// player quit.
func RunPicker(preset config.Preset, width, height int) (*Selection, error) {
	p := tea.NewProgram(NewPickerModel(preset, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(PickerModel); ok {
		return m.Selected(), nil
	}
	return nil, nil
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
