package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-frogger/internal/core"
	"github.com/vovakirdan/tui-frogger/internal/frogger"
	"github.com/vovakirdan/tui-frogger/internal/multiplayer"
)

// LobbyState represents the current state of the SSH pairing flow.
type LobbyState int

const (
	LobbyStateChooseMode    LobbyState = iota // Choose Host or Join
	LobbyStateHostWaiting                     // Hosting, waiting for joiner
	LobbyStateJoinEnterCode                   // Entering join code
	LobbyStateJoinWaiting                     // Waiting to connect to host
	LobbyStateInMatch                         // Board running
	LobbyStateMatchEnded                      // Match has ended
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	codeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Border(lipgloss.DoubleBorder()).Padding(0, 2)
)

// Coordinator is the part of the multiplayer coordinator the lobby uses.
type Coordinator interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// LobbyModel pairs an SSH session with an opponent and then runs its board.
type LobbyModel struct {
	state       LobbyState
	config      core.RuntimeConfig
	opts        frogger.Options
	session     *multiplayer.ChannelSession
	coordinator Coordinator
	recorder    func(opponent string) frogger.RoundRecorder
	mapper      *KeyMapper

	// Host state
	lobbyCode string

	// Join state
	codeInput textinput.Model
	joinError string

	// Match state
	matchID  multiplayer.MatchID
	side     core.PlayerID
	opponent string
	run      *runner
	frame    core.InputFrame
	left     bool // board finished and the coordinator was told
	ended    multiplayer.MatchEndedEvent

	quitting bool
}

// NewLobbyModel creates a lobby for session. recorder, when set, supplies
// a local round recorder per opponent.
func NewLobbyModel(
	session *multiplayer.ChannelSession,
	coordinator Coordinator,
	opts frogger.Options,
	cfg core.RuntimeConfig,
	recorder func(opponent string) frogger.RoundRecorder,
) LobbyModel {
	ti := textinput.New()
	ti.Placeholder = "ABCDEF"
	ti.CharLimit = 6
	ti.Width = 8
	ti.Prompt = "Code: "
	ti.Validate = validateCode

	return LobbyModel{
		state:       LobbyStateChooseMode,
		config:      cfg,
		opts:        opts,
		session:     session,
		coordinator: coordinator,
		recorder:    recorder,
		mapper:      NewKeyMapper(SoloKeyMap()),
		codeInput:   ti,
		frame:       core.NewInputFrame(),
	}
}

// validateCode accepts the base32 alphabet the coordinator issues codes in.
func validateCode(s string) error {
	for _, ch := range strings.ToUpper(s) {
		if (ch < 'A' || ch > 'Z') && (ch < '2' || ch > '7') {
			return fmt.Errorf("invalid character %q", ch)
		}
	}
	return nil
}

// Init starts listening for coordinator events.
func (m LobbyModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for the next coordinator event.
func (m LobbyModel) waitForEvent() tea.Cmd {
	events, done := m.session.Events(), m.session.Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return evt
		case <-done:
			return nil
		}
	}
}

// Update handles messages.
func (m LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	case TickMsg:
		return m.handleTick()
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = LobbyStateHostWaiting
		return m, m.waitForEvent()
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		return m, m.waitForEvent()
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		switch m.state {
		case LobbyStateJoinWaiting:
			m.state = LobbyStateJoinEnterCode
		case LobbyStateHostWaiting:
			m.state = LobbyStateChooseMode
		}
		return m, m.waitForEvent()
	case multiplayer.LobbyPlayerLeftEvent:
		return m, m.waitForEvent()
	case multiplayer.MatchStartedEvent:
		return m.startMatch(msg)
	case multiplayer.MatchEndedEvent:
		m.ended = msg
		if m.state == LobbyStateJoinWaiting || m.state == LobbyStateJoinEnterCode {
			m.joinError = msg.Reason.String()
			m.state = LobbyStateJoinEnterCode
			return m, m.waitForEvent()
		}
		m.state = LobbyStateMatchEnded
		m.run = nil
		return m, m.waitForEvent()
	}

	if m.state == LobbyStateJoinEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m LobbyModel) startMatch(evt multiplayer.MatchStartedEvent) (tea.Model, tea.Cmd) {
	m.matchID = evt.MatchID
	m.side = evt.Side
	m.opponent = evt.Opponent
	m.state = LobbyStateInMatch
	m.left = false
	m.ended = multiplayer.MatchEndedEvent{}

	opts := m.opts
	opts.LocalID, opts.RemoteID = splitID1, splitID2
	if evt.Side == core.Player2 {
		opts.LocalID, opts.RemoteID = splitID2, splitID1
	}
	if opts.Logger != nil {
		opts.Logger = opts.Logger.With("match", evt.MatchID, "side", evt.Side)
	}
	var local frogger.RoundRecorder
	if m.recorder != nil {
		local = m.recorder(evt.Opponent)
	}
	opts.Recorder = &matchReporter{
		coordinator: m.coordinator,
		matchID:     evt.MatchID,
		side:        evt.Side,
		local:       local,
	}

	label := fmt.Sprintf("%s vs %s", evt.Side, evt.Opponent)
	m.run = newRunner(label, evt.Link, opts)
	return m, tea.Batch(m.waitForEvent(), tickCmd(max(1, opts.TickRate)))
}

func (m LobbyModel) handleTick() (tea.Model, tea.Cmd) {
	if m.state != LobbyStateInMatch || m.run == nil {
		return m, nil
	}
	done := m.run.step(m.frame)
	m.frame.Clear()
	if done && !m.left {
		m.left = true
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.session.ID(), MatchID: m.matchID})
		return m, nil
	}
	return m, tickCmd(max(1, m.opts.TickRate))
}

func (m LobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case LobbyStateChooseMode:
		return m.handleChooseModeKey(msg)
	case LobbyStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case LobbyStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case LobbyStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case LobbyStateInMatch:
		if _, action, isQuit := m.mapper.MapKey(msg); isQuit {
			m.quitting = true
			return m, tea.Quit
		} else if action != core.ActionNone {
			m.frame.Set(action)
		}
	case LobbyStateMatchEnded:
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = LobbyStateChooseMode
	}
	return m, nil
}

func (m LobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.joinError = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{SessionID: m.session.ID()})
	case "j", "J", "2":
		m.state = LobbyStateJoinEnterCode
		m.codeInput.Reset()
		m.joinError = ""
		return m, m.codeInput.Focus()
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m LobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.session.ID(), Code: m.lobbyCode})
		m.state = LobbyStateChooseMode
	case "q":
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.session.ID(), Code: m.lobbyCode})
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m LobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.codeInput.Blur()
		m.state = LobbyStateChooseMode
		return m, nil
	case "enter":
		code := strings.ToUpper(m.codeInput.Value())
		if len(code) != 6 {
			m.joinError = "Codes are 6 characters"
			return m, nil
		}
		m.state = LobbyStateJoinWaiting
		m.joinError = ""
		m.coordinator.Send(multiplayer.JoinLobbyMsg{SessionID: m.session.ID(), Code: code})
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

func (m LobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{
			SessionID: m.session.ID(),
			Code:      strings.ToUpper(m.codeInput.Value()),
		})
		m.state = LobbyStateJoinEnterCode
	}
	return m, nil
}

// View renders the current state.
func (m LobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case LobbyStateChooseMode:
		return m.viewChooseMode()
	case LobbyStateHostWaiting:
		return m.viewHostWaiting()
	case LobbyStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case LobbyStateJoinWaiting:
		return m.centered(titleStyle.Render("JOINING"), "", "Connecting to "+strings.ToUpper(m.codeInput.Value())+"...", "", hintStyle.Render("Esc: Cancel"))
	case LobbyStateInMatch:
		if m.run != nil {
			return m.run.board.View(m.config.ScreenW, m.config.ScreenH, m.config.Scale)
		}
	case LobbyStateMatchEnded:
		return m.viewMatchEnded()
	}
	return ""
}

func (m LobbyModel) centered(lines ...string) string {
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, block)
}

func (m LobbyModel) viewChooseMode() string {
	lines := []string{
		titleStyle.Render("2-PLAYER FROGGER"),
		"",
		"[H] Host a game",
		"[J] Join a game",
		"",
	}
	if m.joinError != "" {
		lines = append(lines, errorStyle.Render(m.joinError), "")
	}
	lines = append(lines, hintStyle.Render("Q: Quit"))
	return m.centered(lines...)
}

func (m LobbyModel) viewHostWaiting() string {
	return m.centered(
		titleStyle.Render("HOSTING"),
		"",
		"Share this code with your opponent:",
		codeStyle.Render(m.lobbyCode),
		"Waiting for a player to join...",
		"",
		hintStyle.Render("Esc: Cancel  |  Q: Quit"),
	)
}

func (m LobbyModel) viewJoinEnterCode() string {
	lines := []string{
		titleStyle.Render("JOIN GAME"),
		"",
		m.codeInput.View(),
		"",
	}
	if m.joinError != "" {
		lines = append(lines, errorStyle.Render(m.joinError), "")
	}
	lines = append(lines, hintStyle.Render("Enter: Join  |  Esc: Back"))
	return m.centered(lines...)
}

func (m LobbyModel) viewMatchEnded() string {
	result := "Tied"
	switch m.ended.Winner {
	case m.side:
		result = "You won the match!"
	case m.side.Other():
		result = "You lost the match."
	}
	return m.centered(
		titleStyle.Render("MATCH OVER"),
		"",
		m.ended.Reason.String(),
		fmt.Sprintf("Rounds won  P1 %d : %d P2", m.ended.Wins1, m.ended.Wins2),
		result,
		"",
		hintStyle.Render("Any key: Lobby  |  Q: Quit"),
	)
}

// State returns the current lobby state.
func (m LobbyModel) State() LobbyState { return m.state }

// Side returns which player this session is in the current match.
func (m LobbyModel) Side() core.PlayerID { return m.side }

// LobbyCode returns the hosted lobby code.
func (m LobbyModel) LobbyCode() string { return m.lobbyCode }

// matchReporter forwards each round to the coordinator and, when set, a
// local recorder.
type matchReporter struct {
	coordinator Coordinator
	matchID     multiplayer.MatchID
	side        core.PlayerID
	local       frogger.RoundRecorder
}

func (r *matchReporter) RecordRound(res frogger.RoundResult) error {
	r.coordinator.Send(multiplayer.RoundReportMsg{MatchID: r.matchID, Player: r.side, Result: res})
	if r.local != nil {
		return r.local.RecordRound(res)
	}
	return nil
}
