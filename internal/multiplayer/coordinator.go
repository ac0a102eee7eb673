package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-frogger/internal/link"
)

// Lobby represents a waiting room for a match.
type Lobby struct {
	Code      string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an empty lobby expires
	CleanupPeriod time.Duration // How often to clean up expired lobbies
	LinkBuffer    int           // Words queued per direction on a match link
	Logger        *log.Logger
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		LinkBuffer:    link.DefaultBuffer,
	}
}

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID        string
	Code           string
	Player1Session string
	Player2Session string
	Wins1          int
	Wins2          int
	Rounds         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	log         *log.Logger
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil

	mu      sync.RWMutex
	lobbies map[string]*Lobby  // code -> lobby
	matches map[MatchID]*Match // matchID -> match

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	// Message channel for async processing
	msgChan chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	saves    sync.WaitGroup
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry) *Coordinator {
	def := DefaultCoordinatorConfig()
	if cfg.LobbyTimeout <= 0 {
		cfg.LobbyTimeout = def.LobbyTimeout
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = def.CleanupPeriod
	}
	if cfg.LinkBuffer <= 0 {
		cfg.LinkBuffer = def.LinkBuffer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		config:       cfg,
		log:          logger.WithPrefix("coordinator"),
		sessions:     sessions,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*Match),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and waits for pending result saves.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
	c.saves.Wait()
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case RoundReportMsg:
		c.handleRoundReport(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	if _, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a match"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.log.Info("lobby created", "code", code, "host", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Joiner != nil {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{Code: code, Side: Player1, OpponentID: msg.SessionID})
	session.Send(LobbyJoinedEvent{Code: code, Side: Player2, OpponentID: lobby.Host.ID()})

	c.startMatch(lobby)
}

// startMatch must be called with the lock held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	matchID := MatchID(fmt.Sprintf("match-%s-%d", lobby.Code, time.Now().UnixNano()))
	match := NewMatch(matchID, lobby.Code, lobby.Host, lobby.Joiner, c.config.LinkBuffer)

	c.matches[matchID] = match
	hostID := lobby.Host.ID()
	joinerID := lobby.Joiner.ID()

	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID
	delete(c.lobbies, lobby.Code)

	c.log.Info("match started", "match", matchID, "p1", hostID, "p2", joinerID)

	lobby.Host.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     Player1,
		Code:     lobby.Code,
		Opponent: lobby.Joiner.Name(),
		Link:     match.LinkFor(Player1),
	})
	lobby.Joiner.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     Player2,
		Code:     lobby.Code,
		Opponent: lobby.Host.Name(),
		Link:     match.LinkFor(Player2),
	})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	p1, p2 := match.Session(Player1), match.Session(Player2)

	c.log.Info("match ended",
		"match", matchID,
		"reason", result.Reason,
		"winner", result.Winner,
		"wins1", result.Wins1,
		"wins2", result.Wins2,
		"rounds", result.Rounds,
		"dropped1", result.Dropped1,
		"dropped2", result.Dropped2,
	)

	if c.resultSaver != nil {
		c.save(resultData(match, result))
	}

	delete(c.sessionMatch, p1.ID())
	delete(c.sessionMatch, p2.ID())
	delete(c.matches, matchID)

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Wins1:   result.Wins1,
		Wins2:   result.Wins2,
	}
	p1.Send(endEvent)
	p2.Send(endEvent)
}

// resultData flattens a finished match for the result saver.
func resultData(match *Match, result MatchResult) MatchResultData {
	p1, p2 := match.Session(Player1).ID(), match.Session(Player2).ID()
	var winner SessionID
	switch result.Winner {
	case Player1:
		winner = p1
	case Player2:
		winner = p2
	}
	return MatchResultData{
		MatchID:        string(result.MatchID),
		Code:           match.Code(),
		Player1Session: string(p1),
		Player2Session: string(p2),
		Wins1:          result.Wins1,
		Wins2:          result.Wins2,
		Rounds:         result.Rounds,
		WinnerSession:  string(winner),
		EndReason:      result.Reason.String(),
		DurationSecs:   int(result.Duration / time.Second),
	}
}

// save persists data off the coordinator goroutine. Stop waits for it.
func (c *Coordinator) save(data MatchResultData) {
	saver := c.resultSaver
	c.saves.Add(1)
	go func() {
		defer c.saves.Done()
		if err := saver.SaveMatchResult(data); err != nil {
			c.log.Error("save match result", "match", data.MatchID, "err", err)
		}
	}()
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}
	c.dropFromLobby(msg.SessionID)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionLobby[msg.SessionID] != strings.ToUpper(msg.Code) {
		return
	}
	c.dropFromLobby(msg.SessionID)
}

// dropFromLobby removes id from its lobby. A departing host closes the
// lobby and sends any joiner back. Must be called with the lock held.
func (c *Coordinator) dropFromLobby(id SessionID) {
	code, ok := c.sessionLobby[id]
	if !ok {
		return
	}
	delete(c.sessionLobby, id)

	lobby, ok := c.lobbies[code]
	if !ok {
		return
	}
	switch {
	case lobby.Host.ID() == id:
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
			delete(c.sessionLobby, lobby.Joiner.ID())
		}
		delete(c.lobbies, code)
		c.log.Info("lobby closed", "code", code, "host", id)
	case lobby.Joiner != nil && lobby.Joiner.ID() == id:
		lobby.Joiner = nil
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}
	match.PlayerLeft(msg.SessionID)
}

func (c *Coordinator) handleRoundReport(msg RoundReportMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}
	c.log.Debug("round report", "match", msg.MatchID, "player", msg.Player, "outcome", msg.Result.Outcome)
	match.Report(msg)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dropFromLobby(msg.SessionID)
	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		// Only expire lobbies without joiners
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	code := generateJoinCode()
	for c.lobbies[code] != nil {
		code = generateJoinCode()
	}
	return code
}

// generateJoinCode returns six characters of the base32 alphabet.
func generateJoinCode() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		binary.BigEndian.PutUint32(b[:], uint32(time.Now().UnixNano()))
	}
	return base32.StdEncoding.EncodeToString(b[:])[:6]
}


// LobbyCount returns the number of active lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
