package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-frogger/internal/frogger"
	"github.com/vovakirdan/tui-frogger/internal/link"
)

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Winner   PlayerID
	Wins1    int
	Wins2    int
	Rounds   int
	Duration time.Duration

	// Words dropped on each board's full inbound queue.
	Dropped1 uint64
	Dropped2 uint64
}

// Match is a paired pair of boards. The boards talk to each other over
// the link; the match only tallies what they report and watches for
// either side going away.
type Match struct {
	id   MatchID
	code string

	player1Session SessionHandle
	player2Session SessionHandle
	end1, end2     *link.PipeEnd

	mu      sync.Mutex
	wins1    int
	wins2    int
	reports1 int
	reports2 int
	started  time.Time

	reports        chan RoundReportMsg
	leaveChan      chan SessionID
	disconnectChan chan SessionID
	done           chan struct{}
	doneOnce       sync.Once
}

// NewMatch creates a match and the link its two boards will share.
func NewMatch(id MatchID, code string, p1Session, p2Session SessionHandle, buffer int) *Match {
	end1, end2 := link.Pipe(buffer)
	return &Match{
		id:             id,
		code:           code,
		player1Session: p1Session,
		player2Session: p2Session,
		end1:           end1,
		end2:           end2,
		started:        time.Now(),
		reports:        make(chan RoundReportMsg, 16),
		leaveChan:      make(chan SessionID, 2),
		disconnectChan: make(chan SessionID, 2),
		done:           make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *Match) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *Match) Code() string {
	return m.code
}

// LinkFor returns the link end belonging to player.
func (m *Match) LinkFor(player PlayerID) link.Conn {
	if player == Player2 {
		return m.end2
	}
	return m.end1
}

// Session returns the session playing as player.
func (m *Match) Session(player PlayerID) SessionHandle {
	if player == Player2 {
		return m.player2Session
	}
	return m.player1Session
}

// Wins returns the current tally.
func (m *Match) Wins() (wins1, wins2 int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wins1, m.wins2
}

// Report queues a round outcome. Non-blocking.
func (m *Match) Report(r RoundReportMsg) {
	select {
	case m.reports <- r:
	default:
	}
}

// PlayerLeft signals that a player quit from the board.
func (m *Match) PlayerLeft(sessionID SessionID) {
	select {
	case m.leaveChan <- sessionID:
	default:
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *Match) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run tallies reports until a player leaves or disconnects.
// The callback is called when the match ends.
func (m *Match) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	go m.monitorSessions()

	for {
		select {
		case r := <-m.reports:
			m.tally(r)

		case <-m.leaveChan:
			m.drainReports()
			m.finish(m.result(MatchEndReasonCompleted, m.leader()), onComplete)
			return

		case sessionID := <-m.disconnectChan:
			m.drainReports()
			winner := Player1
			if sessionID == m.player1Session.ID() {
				winner = Player2
			}
			m.finish(m.result(MatchEndReasonDisconnect, winner), onComplete)
			return

		case <-m.done:
			m.closeLinks()
			return
		}
	}
}

// finish closes the link, then reports.
func (m *Match) finish(result MatchResult, onComplete func(MatchResult)) {
	m.closeLinks()
	if onComplete != nil {
		onComplete(result)
	}
}

// tally counts a round once. Only the winning board's report scores,
// so the loser's matching OutcomeRemoteWin is not counted twice.
func (m *Match) tally(r RoundReportMsg) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Each board reports every round it plays exactly once, so the count
	// of rounds is the longer of the two report streams.
	if r.Player == Player2 {
		m.reports2++
	} else {
		m.reports1++
	}
	if r.Result.Outcome == frogger.OutcomeWin {
		if r.Player == Player2 {
			m.wins2++
		} else {
			m.wins1++
		}
	}
}

// Dropped returns how many words each board's inbound queue discarded.
func (m *Match) Dropped() (toP1, toP2 uint64) {
	return m.end1.Dropped(), m.end2.Dropped()
}

func (m *Match) drainReports() {
	for {
		select {
		case r := <-m.reports:
			m.tally(r)
		default:
			return
		}
	}
}

func (m *Match) leader() PlayerID {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.wins1 > m.wins2:
		return Player1
	case m.wins2 > m.wins1:
		return Player2
	default:
		return PlayerNone
	}
}

func (m *Match) result(reason MatchEndReason, winner PlayerID) MatchResult {
	dropped1, dropped2 := m.Dropped()
	m.mu.Lock()
	defer m.mu.Unlock()
	return MatchResult{
		MatchID:  m.id,
		Reason:   reason,
		Winner:   winner,
		Wins1:    m.wins1,
		Wins2:    m.wins2,
		Rounds:   max(m.reports1, m.reports2),
		Duration: time.Since(m.started),
		Dropped1: dropped1,
		Dropped2: dropped2,
	}
}

func (m *Match) closeLinks() {
	_ = m.end1.Close()
	_ = m.end2.Close()
}

func (m *Match) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}

// Stop ends the match without calling the completion callback.
func (m *Match) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

// Done returns a channel closed when the match has stopped.
func (m *Match) Done() <-chan struct{} {
	return m.done
}
