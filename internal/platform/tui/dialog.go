package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			MarginBottom(1)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// newResultTable creates the destroyed-meetings table.
func newResultTable(width, height int) table.Model {
	titleW := max(width-30, 12)
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Meeting", Width: min(titleW, 40)},
		{Title: "Tick", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-14, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// fillResultTable loads the run's destroyed meetings from the ledger.
func (m *Model) fillResultTable() {
	sess := m.game.sess
	entries, err := sess.Ledger().Destroyed(sess.RunID())
	if err != nil {
		m.err = err
		return
	}

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{fmt.Sprintf("%d", i+1), e.Label, fmt.Sprintf("%d", e.Tick)}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m Model) resultView() string {
	res, _ := m.game.sess.Result()

	var b strings.Builder
	title := res.Outcome.Title()
	if res.Err != nil {
		title = "Game crashed: " + res.Err.Error()
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteRune('\n')

	if len(m.table.Rows()) == 0 {
		b.WriteString("No meetings were destroyed.\n\n")
		b.WriteString(hintStyle.Render("n: continue · q: quit"))
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Decline %d destroyed meetings?\n", len(m.table.Rows())))
		b.WriteString(hintStyle.Render("y: decline all · n: keep all · q: quit"))
	}

	return m.place(dialogStyle.Render(b.String()))
}

func (m Model) followUpView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Done"))
	b.WriteRune('\n')
	for _, line := range m.report {
		b.WriteString(line)
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	b.WriteString(hintStyle.Render("space: play again · q: quit"))
	return m.place(dialogStyle.Render(b.String()))
}

func (m Model) place(s string) string {
	return lipgloss.Place(m.width, max(m.height-chromeRows, 1), lipgloss.Center, lipgloss.Center, s)
}
