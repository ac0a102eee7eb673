package multiplayer

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-frogger/internal/frogger"
)

// expect reads events from s until one of type T arrives.
func expect[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if v, ok := evt.(T); ok {
				return v
			}
		case <-timeout:
			var zero T
			t.Fatalf("%s: timed out waiting for %T", s.ID(), zero)
			return zero
		}
	}
}

type savedResults struct {
	mu      sync.Mutex
	results []MatchResultData
}

func (s *savedResults) SaveMatchResult(r MatchResultData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return nil
}

func (s *savedResults) all() []MatchResultData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchResultData(nil), s.results...)
}

func newTestCoordinator(t *testing.T) (*Coordinator, *SessionRegistry) {
	t.Helper()
	reg := NewSessionRegistry()
	c := NewCoordinator(CoordinatorConfig{LinkBuffer: 8}, reg)
	c.Start()
	t.Cleanup(c.Stop)
	return c, reg
}

func addSession(reg *SessionRegistry, id, name string) *ChannelSession {
	s := NewChannelSession(SessionID(id), name, 16)
	reg.Register(s)
	return s
}

// pair creates a lobby hosted by a and joined by b.
func pair(t *testing.T, c *Coordinator, a, b *ChannelSession) (MatchStartedEvent, MatchStartedEvent) {
	t.Helper()
	c.Send(CreateLobbyMsg{SessionID: a.ID()})
	created := expect[LobbyCreatedEvent](t, a)
	if len(created.Code) != 6 {
		t.Fatalf("code %q, want 6 characters", created.Code)
	}
	c.Send(JoinLobbyMsg{SessionID: b.ID(), Code: created.Code})
	return expect[MatchStartedEvent](t, a), expect[MatchStartedEvent](t, b)
}

func TestCoordinatorPairsOverLink(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := addSession(reg, "s1", "alice")
	guest := addSession(reg, "s2", "bob")

	m1, m2 := pair(t, c, host, guest)
	if m1.Side != Player1 || m2.Side != Player2 {
		t.Fatalf("sides = %v, %v", m1.Side, m2.Side)
	}
	if m1.MatchID != m2.MatchID || m1.Code != m2.Code {
		t.Error("both sides should see one match")
	}
	if m1.Opponent != "bob" || m2.Opponent != "alice" {
		t.Errorf("opponents = %q, %q", m1.Opponent, m2.Opponent)
	}

	if err := m1.Link.Send(frogger.ReadyWord); err != nil {
		t.Fatalf("send: %v", err)
	}
	if w, ok := m2.Link.TryReceive(); !ok || w != frogger.ReadyWord {
		t.Errorf("guest received %#x, %v", w, ok)
	}
	if _, ok := m1.Link.TryReceive(); ok {
		t.Error("host should not hear its own word")
	}

	if c.LobbyCount() != 0 || c.MatchCount() != 1 {
		t.Errorf("lobbies=%d matches=%d", c.LobbyCount(), c.MatchCount())
	}
}

func TestCoordinatorJoinErrors(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := addSession(reg, "s1", "a")
	other := addSession(reg, "s2", "b")

	c.Send(JoinLobbyMsg{SessionID: other.ID(), Code: "NOPE00"})
	if e := expect[LobbyErrorEvent](t, other); e.Message != "Lobby not found" {
		t.Errorf("message = %q", e.Message)
	}

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	code := expect[LobbyCreatedEvent](t, host).Code

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: code})
	if e := expect[LobbyErrorEvent](t, host); e.Message != "Already in a lobby" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestCoordinatorJoinIsCaseInsensitive(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := addSession(reg, "s1", "a")
	guest := addSession(reg, "s2", "b")

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	code := expect[LobbyCreatedEvent](t, host).Code
	c.Send(JoinLobbyMsg{SessionID: guest.ID(), Code: " " + strings.ToLower(code) + " "})
	expect[MatchStartedEvent](t, guest)
}

func TestCoordinatorTalliesAndSaves(t *testing.T) {
	c, reg := newTestCoordinator(t)
	saver := &savedResults{}
	c.SetResultSaver(saver)
	host := addSession(reg, "s1", "a")
	guest := addSession(reg, "s2", "b")

	m1, _ := pair(t, c, host, guest)
	report := func(p PlayerID, o frogger.Outcome) {
		c.Send(RoundReportMsg{MatchID: m1.MatchID, Player: p, Result: frogger.RoundResult{Outcome: o}})
	}
	report(Player2, frogger.OutcomeWin)
	report(Player1, frogger.OutcomeRemoteWin)
	report(Player2, frogger.OutcomeWin)
	report(Player1, frogger.OutcomeRemoteWin)
	report(Player1, frogger.OutcomeDied)
	c.Send(LeaveMatchMsg{SessionID: host.ID(), MatchID: m1.MatchID})

	end := expect[MatchEndedEvent](t, guest)
	if end.Reason != MatchEndReasonCompleted || end.Winner != Player2 {
		t.Errorf("end = %+v", end)
	}
	if end.Wins1 != 0 || end.Wins2 != 2 {
		t.Errorf("wins = %d-%d, want 0-2", end.Wins1, end.Wins2)
	}
	expect[MatchEndedEvent](t, host)

	if _, ok := m1.Link.TryReceive(); ok {
		t.Error("closed link should deliver nothing")
	}
	if err := m1.Link.Send(1); err == nil {
		t.Error("send on a finished match link should fail")
	}

	c.Stop() // waits for the save
	saved := saver.all()
	if len(saved) != 1 {
		t.Fatalf("saved %d results", len(saved))
	}
	if saved[0].WinnerSession != "s2" || saved[0].Rounds != 3 || saved[0].Wins2 != 2 {
		t.Errorf("saved = %+v", saved[0])
	}
}

func TestCoordinatorDisconnectForfeits(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := addSession(reg, "s1", "a")
	guest := addSession(reg, "s2", "b")
	pair(t, c, host, guest)

	host.Close()
	end := expect[MatchEndedEvent](t, guest)
	if end.Reason != MatchEndReasonDisconnect || end.Winner != Player2 {
		t.Errorf("end = %+v", end)
	}
}

func TestCoordinatorHostLeavesLobby(t *testing.T) {
	c, reg := newTestCoordinator(t)
	host := addSession(reg, "s1", "a")

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	code := expect[LobbyCreatedEvent](t, host).Code
	c.Send(LeaveLobbyMsg{SessionID: host.ID(), Code: code})

	// A follow-up create only succeeds once the first lobby is gone.
	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	expect[LobbyCreatedEvent](t, host)
	if c.LobbyCount() != 1 {
		t.Errorf("lobbies = %d, want 1", c.LobbyCount())
	}
}

func TestCleanupExpiredLobbies(t *testing.T) {
	reg := NewSessionRegistry()
	c := NewCoordinator(CoordinatorConfig{LobbyTimeout: time.Minute}, reg)
	host := addSession(reg, "s1", "a")
	c.handleCreateLobby(CreateLobbyMsg{SessionID: host.ID()})
	expect[LobbyCreatedEvent](t, host)

	c.cleanupExpiredLobbies(time.Now())
	if c.LobbyCount() != 1 {
		t.Fatal("fresh lobby should survive cleanup")
	}
	c.cleanupExpiredLobbies(time.Now().Add(2 * time.Minute))
	if c.LobbyCount() != 0 {
		t.Error("stale lobby should be removed")
	}
	if e := expect[LobbyErrorEvent](t, host); e.Message != "Lobby expired" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", "n", 2)
	s.Send(LobbyErrorEvent{Message: "1"})
	s.Send(LobbyErrorEvent{Message: "2"})
	s.Send(LobbyErrorEvent{Message: "3"})

	got := []string{(<-s.Events()).(LobbyErrorEvent).Message, (<-s.Events()).(LobbyErrorEvent).Message}
	if got[0] != "2" || got[1] != "3" {
		t.Errorf("got %v, want [2 3]", got)
	}

	s.Close()
	s.Close()
	s.Send(LobbyErrorEvent{Message: "late"})
	select {
	case evt := <-s.Events():
		t.Errorf("event after close: %v", evt)
	default:
	}
}

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for range 50 {
		code := generateJoinCode()
		if len(code) != 6 {
			t.Fatalf("code %q", code)
		}
		for _, ch := range code {
			if (ch < 'A' || ch > 'Z') && (ch < '2' || ch > '7') {
				t.Fatalf("code %q has %q", code, ch)
			}
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes in 50", len(seen))
	}
}
