package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/session"
)

// Rows reserved for the status line and help.
const chromeRows = 2

type phase int

const (
	phaseReady phase = iota
	phasePlaying
	phaseResult
	phaseFollowUp
)

// Options configures the game screen.
type Options struct {
	// Session is the template for every game played on this screen. The
	// model fills in Scheduler, Input and Clock.
	Session   session.Options
	FrameRate int
	Width     int
	Height    int
}

// view is the model's sink: it keeps the last committed frame.
type view struct {
	frame     engine.Frame
	destroyed int
	lastLabel string
}

func (v *view) Frame(f engine.Frame) { v.frame = f }

func (v *view) Event(ev engine.Event) {
	if d, ok := ev.(engine.ObstacleDestroyedEvent); ok {
		v.destroyed++
		v.lastLabel = d.Label
	}
}

// game is the per-run state shared by model copies.
type game struct {
	sess    *session.Session
	sched   *Scheduler
	hold    *KeyHold
	view    *view
	started time.Time
}

// Model is the Bubble Tea model of the game screen.
type Model struct {
	opts     Options
	keys     KeyMap
	help     help.Model
	game     *game
	screen   *core.Screen
	table    table.Model
	phase    phase
	report   []string
	width    int
	height   int
	err      error
	quitting bool
}

// NewModel creates the game screen with a fresh session.
func NewModel(opts Options) (Model, error) {
	if opts.FrameRate <= 0 {
		opts.FrameRate = core.DefaultConfig().FrameRate
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := core.DefaultConfig()
		opts.Width, opts.Height = def.ScreenW, def.ScreenH
	}

	m := Model{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  opts.Width,
		height: opts.Height,
		screen: core.NewScreen(opts.Width, max(opts.Height-chromeRows, 1)),
	}
	m.help.Width = opts.Width
	m.table = newResultTable(opts.Width, opts.Height)

	g, err := m.newGame()
	if err != nil {
		return m, err
	}
	m.game = g
	return m, nil
}

func (m Model) newGame() (*game, error) {
	g := &game{
		sched: NewScheduler(time.Now()),
		hold:  NewKeyHold(),
		view:  &view{},
	}

	opts := m.opts.Session
	opts.Scheduler = g.sched
	opts.Input = g.hold
	opts.Clock = g.sched.Now
	opts.Sinks = append([]engine.Sink{g.view}, opts.Sinks...)

	sess, err := session.New(opts)
	if err != nil {
		return nil, err
	}
	g.sess = sess
	g.view.frame = sess.Engine().Snapshot()
	return g, nil
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.opts.FrameRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-chromeRows, 1))
		m.help.Width = msg.Width
		m.table = newResultTable(msg.Width, msg.Height)
		if m.phase == phaseResult {
			m.fillResultTable()
		}
		return m, nil

	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.MapKey(msg)
	if action == core.ActionQuit {
		m.quitting = true
		if m.game.sess.Engine().Running() {
			_ = m.game.sess.Stop()
		}
		return m, tea.Quit
	}

	switch m.phase {
	case phaseReady:
		if action == core.ActionStart {
			m.game.started = m.game.sched.Now()
			if err := m.game.sess.Start(); err != nil {
				m.err = err
				return m, nil
			}
			m.phase = phasePlaying
		}

	case phasePlaying:
		if k, ok := action.Key(); ok {
			m.game.hold.Press(k, time.Now())
			return m, nil
		}
		if action == core.ActionStop {
			_ = m.game.sess.Stop()
			m.game.sess.Document().Reset()
			return m.restart()
		}

	case phaseResult:
		switch action {
		case core.ActionDecline:
			m.report = m.decline()
			m.phase = phaseFollowUp
		case core.ActionKeep:
			if err := m.game.sess.Keep(); err != nil {
				m.report = []string{"keep failed: " + err.Error()}
			} else {
				m.report = []string{"All meetings kept."}
			}
			m.phase = phaseFollowUp
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case phaseFollowUp:
		if action == core.ActionStart {
			return m.restart()
		}
	}

	return m, nil
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	_ = m.game.sess.Close()
	g, err := m.newGame()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.game = g
	m.phase = phaseReady
	m.report = nil
	return m, nil
}

func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	m.game.hold.Expire(now)
	m.game.sched.Frame(now)

	if m.phase == phasePlaying {
		select {
		case <-m.game.sess.Done():
			m.phase = phaseResult
			m.fillResultTable()
		default:
		}
	}
	return m, frameCmd(m.opts.FrameRate)
}

func (m Model) decline() []string {
	declined, err := m.game.sess.Decline()
	if err != nil {
		return []string{"decline failed: " + err.Error()}
	}
	lines := make([]string, 0, len(declined))
	for _, d := range declined {
		if d.Err != nil {
			lines = append(lines, fmt.Sprintf("✗ %s: %v", d.Title, d.Err))
			continue
		}
		lines = append(lines, fmt.Sprintf("✓ %s (%s)", d.Title, d.Pressed))
	}
	if len(lines) == 0 {
		lines = append(lines, "Nothing to decline.")
	}
	return lines
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.statusLine())
	b.WriteRune('\n')

	switch m.phase {
	case phaseResult:
		b.WriteString(m.resultView())
	case phaseFollowUp:
		b.WriteString(m.followUpView())
	default:
		DrawScene(m.screen, Scene{
			Area:   m.game.sess.Engine().Area(),
			Events: m.game.sess.Document().Events(),
			Frame:  m.game.view.frame,
			Ready:  m.phase == phaseReady,
		})
		b.WriteString(RenderScreen(m.screen))
	}

	b.WriteRune('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

var statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

func (m Model) statusLine() string {
	if m.err != nil {
		return statusStyle.Foreground(lipgloss.Color("9")).Render("error: " + m.err.Error())
	}

	doc := m.game.sess.Document()
	total := doc.Len()
	layout := m.opts.Session.Layout

	switch m.phase {
	case phaseReady:
		return statusStyle.Render(fmt.Sprintf("calbreak · %s · %d meetings · press space to start", layout, total))
	case phasePlaying:
		f := m.game.view.frame
		cfg := m.game.sess.Engine().Config()
		line := fmt.Sprintf("calbreak · %s · tick %d · destroyed %d/%d", layout, f.Tick, m.game.view.destroyed, total)
		if cfg.TimeoutTicks > 0 && !f.At.IsZero() {
			left := cfg.Timeout() - f.At.Sub(m.game.started)
			line += fmt.Sprintf(" · %ds left", int(max(left, 0).Seconds()))
		}
		if m.game.view.lastLabel != "" {
			line += " · last: " + m.game.view.lastLabel
		}
		return statusStyle.Render(line)
	default:
		res, _ := m.game.sess.Result()
		title := res.Outcome.Title()
		if res.Err != nil {
			title = "Game crashed"
		}
		return statusStyle.Render(fmt.Sprintf("calbreak · %s · %s", layout, title))
	}
}

// Run starts the Bubble Tea program on the alternate screen.
func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.game != nil {
		fm.game.sess.Close()
	}
	return err
}
