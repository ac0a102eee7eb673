package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-frogger/internal/config"
	"github.com/vovakirdan/tui-frogger/internal/core"
	"github.com/vovakirdan/tui-frogger/internal/frogger"
)

// runner is a board and the session driving it.
type runner struct {
	board   *Board
	session *frogger.Session
}

func newRunner(label string, l frogger.Link, opts frogger.Options) *runner {
	board := NewBoard(label, HoldTicks(opts.TickRate))
	return &runner{
		board:   board,
		session: frogger.NewSession(board.Devices(l), opts),
	}
}

// step applies the tick's keys, advances the session one tick and
// reports whether it has finished.
func (r *runner) step(frame core.InputFrame) bool {
	if r.session.Done() {
		return true
	}
	ApplyFrame(frame, r.board.Input())
	r.session.Step()
	r.board.Input().EndTick()
	return r.session.Done()
}

// Model is the Bubble Tea model for one board on a network link.
type Model struct {
	run        *runner
	mapper     *KeyMapper
	help       help.Model
	config     core.RuntimeConfig
	tickRate   int
	inputFrame core.InputFrame
	quitting   bool
}

// NewModel creates a board model. The session starts immediately and
// shows the startup banner.
func NewModel(l frogger.Link, opts frogger.Options, cfg core.RuntimeConfig) Model {
	if opts.TickRate <= 0 {
		opts.TickRate = cfg.TickRate
	}
	return Model{
		run:        newRunner("FROGGER", l, opts),
		mapper:     NewKeyMapper(SoloKeyMap()),
		help:       help.New(),
		config:     cfg,
		tickRate:   max(1, opts.TickRate),
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.mapper.Keys().Screenshot) {
		saveScreenshot("board", m.run.board.Text(2))
		return m, nil
	}

	_, action, isQuit := m.mapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	done := m.run.step(m.inputFrame)
	m.inputFrame.Clear()
	if done {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.tickRate)
}

// Session returns the running session.
func (m Model) Session() *frogger.Session { return m.run.session }

// Board returns the emulated board.
func (m Model) Board() *Board { return m.run.board }

// View renders the board and a help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	helpLine := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.mapper.Keys()))
	return m.run.board.View(m.config.ScreenW, m.config.ScreenH-1, m.config.Scale) + "\n" + helpLine
}

// saveScreenshot writes text under the screenshots directory. Best effort.
func saveScreenshot(prefix, text string) {
	dir := filepath.Join(config.Dir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", prefix, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, the board keeps running regardless
	os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600)
}

// Run starts the Bubble Tea program for one board.
func Run(l frogger.Link, opts frogger.Options, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(l, opts, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
