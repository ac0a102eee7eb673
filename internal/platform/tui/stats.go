package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-frogger/internal/frogger"
	"github.com/vovakirdan/tui-frogger/internal/storage"
)

// History layout constants
const (
	maxRounds   = 100 // Max rounds to load
	maxMatches  = 50  // Max online matches to load
	tableMargin = 8   // Rows left for title, totals and help
)

// HistoryStore is the part of the store the stats screen reads.
type HistoryStore interface {
	RecentRounds(limit int) ([]storage.RoundEntry, error)
	Stats() (*storage.RoundStats, error)
	RecentOnlineMatches(limit int) ([]storage.OnlineMatchResult, error)
}

// StatsKeyMap defines the key bindings for the stats screen.
type StatsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Switch, k.Quit}}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up:     bind("up/k", "scroll up", "up", "k"),
		Down:   bind("down/j", "scroll down", "down", "j"),
		Switch: bind("tab", "rounds/matches", "tab"),
		Quit:   bind("q", "quit", "q", "esc", "ctrl+c"),
	}
}

// StatsModel shows round history and totals.
type StatsModel struct {
	stats       *storage.RoundStats
	rounds      []storage.RoundEntry
	matches     []storage.OnlineMatchResult
	showMatches bool
	tickRate    int
	table       table.Model
	help        help.Model
	keys        StatsKeyMap
	width       int
	height      int
	err         error
	quitting    bool
}

// NewStatsModel loads the history from store. tickRate converts round
// ticks to seconds.
func NewStatsModel(store HistoryStore, tickRate, width, height int) StatsModel {
	m := StatsModel{
		tickRate: max(1, tickRate),
		help:     help.New(),
		keys:     DefaultStatsKeyMap(),
		width:    width,
		height:   height,
	}

	m.stats, m.err = store.Stats()
	if m.err == nil {
		m.rounds, m.err = store.RecentRounds(maxRounds)
	}
	if m.err == nil {
		m.matches, m.err = store.RecentOnlineMatches(maxMatches)
	}

	m.table = m.createTable()
	m.updateTableRows()
	return m
}

func (m *StatsModel) columns() []table.Column {
	if m.showMatches {
		return []table.Column{
			{Title: "Code", Width: 8},
			{Title: "Score", Width: 7},
			{Title: "Rounds", Width: 7},
			{Title: "Ended", Width: 22},
			{Title: "Date", Width: 14},
		}
	}
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "Result", Width: 14},
		{Title: "Time", Width: 8},
		{Title: "Opponent", Width: 18},
		{Title: "Date", Width: 14},
	}
}

func (m *StatsModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-tableMargin)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func outcomeLabel(o frogger.Outcome) string {
	switch o {
	case frogger.OutcomeWin:
		return "Won"
	case frogger.OutcomeRemoteWin:
		return "Opponent won"
	case frogger.OutcomeDied:
		return "Died"
	default:
		return "-"
	}
}

func (m *StatsModel) updateTableRows() {
	var rows []table.Row
	if m.showMatches {
		for _, r := range m.matches {
			rows = append(rows, table.Row{
				r.Code,
				fmt.Sprintf("%d-%d", r.Wins1, r.Wins2),
				fmt.Sprintf("%d", r.Rounds),
				r.EndReason,
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	} else {
		for _, r := range m.rounds {
			secs := time.Duration(r.Ticks) * time.Second / time.Duration(m.tickRate)
			peer := r.Peer
			if peer == "" {
				peer = "-"
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.ID),
				outcomeLabel(r.Outcome),
				secs.Round(100 * time.Millisecond).String(),
				peer,
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	}
	// Rows must match the column count before columns change.
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(3, m.height-tableMargin))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Switch):
			m.showMatches = !m.showMatches
			m.updateTableRows()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats screen.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "ROUND HISTORY"
	if m.showMatches {
		title = "ONLINE MATCHES"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		b.WriteString(FormatTotals(m.stats, m.tickRate))
		b.WriteString("\n\n")
		b.WriteString(m.table.View())
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// FormatTotals summarizes round stats on one line.
func FormatTotals(s *storage.RoundStats, tickRate int) string {
	if s == nil || s.Rounds == 0 {
		return "No rounds played yet."
	}
	line := fmt.Sprintf("Rounds %d  Won %d  Lost %d  Died %d  Win rate %.0f%%",
		s.Rounds, s.Wins, s.OpponentWins, s.Deaths, s.WinRate()*100)
	if s.FastestWin > 0 {
		best := time.Duration(s.FastestWin) * time.Second / time.Duration(max(1, tickRate))
		line += fmt.Sprintf("  Fastest win %s", best.Round(100*time.Millisecond))
	}
	return line
}

// RunStats runs the stats screen.
func RunStats(store HistoryStore, tickRate, width, height int) error {
	p := tea.NewProgram(
		NewStatsModel(store, tickRate, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
