package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-frogger/internal/core"
	"github.com/vovakirdan/tui-frogger/internal/frogger"
	"github.com/vovakirdan/tui-frogger/internal/link"
)

// Board identities on the split screen.
const (
	splitID1 = 0x11
	splitID2 = 0x22
)

// SplitModel runs both boards in one terminal, joined by an in-process link.
// Only board 1 records rounds so each round is stored once.
type SplitModel struct {
	boards     [2]*runner
	mapper     *KeyMapper
	help       help.Model
	config     core.RuntimeConfig
	tickRate   int
	inputFrame core.MultiInputFrame
	quitting   bool
}

// NewSplitModel creates two boards over a fresh pipe.
func NewSplitModel(opts frogger.Options, buffer int, cfg core.RuntimeConfig) SplitModel {
	if opts.TickRate <= 0 {
		opts.TickRate = cfg.TickRate
	}
	end1, end2 := link.Pipe(buffer)

	opts1 := opts
	opts1.LocalID, opts1.RemoteID = splitID1, splitID2
	if opts.Logger != nil {
		opts1.Logger = opts.Logger.WithPrefix("P1")
	}

	opts2 := opts
	opts2.LocalID, opts2.RemoteID = splitID2, splitID1
	opts2.Recorder = nil
	if opts.Logger != nil {
		opts2.Logger = opts.Logger.WithPrefix("P2")
	}

	return SplitModel{
		boards: [2]*runner{
			newRunner("PLAYER 1  ←↑↓→", end1, opts1),
			newRunner("PLAYER 2  WASD", end2, opts2),
		},
		mapper:     NewKeyMapper(SplitKeyMap()),
		help:       help.New(),
		config:     cfg,
		tickRate:   max(1, opts.TickRate),
		inputFrame: core.NewMultiInputFrame(),
	}
}

// Init starts the tick loop.
func (m SplitModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m SplitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.mapper.Keys().Screenshot) {
			saveScreenshot("split", m.boards[0].board.Text(2)+"\n\n"+m.boards[1].board.Text(2))
			return m, nil
		}
		if m.mapper.MapKeyToMultiFrame(msg, &m.inputFrame) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil

	case TickMsg:
		done1 := m.boards[0].step(m.inputFrame.Player(core.Player1))
		done2 := m.boards[1].step(m.inputFrame.Player(core.Player2))
		m.inputFrame.Clear()
		if done1 && done2 {
			m.quitting = true
			return m, tea.Quit
		}
		return m, tickCmd(m.tickRate)
	}
	return m, nil
}

// Session returns the session of board p.
func (m SplitModel) Session(p core.PlayerID) *frogger.Session {
	if p == core.Player2 {
		return m.boards[1].session
	}
	return m.boards[0].session
}

// View renders both boards side by side.
func (m SplitModel) View() string {
	if m.quitting {
		return ""
	}
	half := m.config.ScreenW/2 - 1
	height := m.config.ScreenH - 1
	boards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.boards[0].board.View(half, height, m.config.Scale),
		"  ",
		m.boards[1].board.View(half, height, m.config.Scale),
	)
	helpLine := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.mapper.Keys()))
	return boards + "\n" + helpLine
}

// RunSplit starts the split-screen program.
func RunSplit(opts frogger.Options, buffer int, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSplitModel(opts, buffer, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
