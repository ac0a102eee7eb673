package frogger

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// wire is one direction of an in-memory link.
type wire struct {
	q []uint32
}

type fakeLink struct {
	rx, tx *wire
	sent   []uint32
}

func (l *fakeLink) Send(word uint32) error {
	l.sent = append(l.sent, word)
	l.tx.q = append(l.tx.q, word)
	return nil
}

func (l *fakeLink) TryReceive() (uint32, bool) {
	if len(l.rx.q) == 0 {
		return 0, false
	}
	w := l.rx.q[0]
	l.rx.q = l.rx.q[1:]
	return w, true
}

func (l *fakeLink) count(word uint32) int {
	n := 0
	for _, w := range l.sent {
		if w == word {
			n++
		}
	}
	return n
}

func linkPair() (*fakeLink, *fakeLink) {
	ab, ba := &wire{}, &wire{}
	return &fakeLink{rx: ba, tx: ab}, &fakeLink{rx: ab, tx: ba}
}

type fakeTerminal struct {
	lines  []string
	clears int
}

func (f *fakeTerminal) PostLine(text string, align core.Align, color core.Color) {
	f.lines = append(f.lines, text)
}

func (f *fakeTerminal) Clear() { f.clears++ }

func (f *fakeTerminal) has(text string) bool {
	for _, l := range f.lines {
		if l == text {
			return true
		}
	}
	return false
}

type fakeLEDs struct {
	strip  [LEDCount]RGB
	writes int
}

func (f *fakeLEDs) SetIndicator(i int, r, g, b uint8) {
	f.strip[i] = RGB{r, g, b}
	f.writes++
}

type fakeRecorder struct {
	results []RoundResult
	err     error
}

func (f *fakeRecorder) RecordRound(r RoundResult) error {
	f.results = append(f.results, r)
	return f.err
}

type board struct {
	s    *Session
	in   *fakeInput
	link *fakeLink
	term *fakeTerminal
	leds *fakeLEDs
	rec  *fakeRecorder
}

// testOptions makes every dwell a single tick.
func testOptions() Options {
	return Options{
		TickRate:      10,
		CountdownStep: 100 * time.Millisecond,
		LEDStep:       100 * time.Millisecond,
		FlashStep:     100 * time.Millisecond,
		Farewell:      100 * time.Millisecond,
		ReadyResend:   100 * time.Millisecond,
	}
}

func newBoard(link *fakeLink) *board {
	b := &board{
		in:   &fakeInput{buttons: map[core.Direction]bool{}},
		link: link,
		term: &fakeTerminal{},
		leds: &fakeLEDs{},
		rec:  &fakeRecorder{},
	}
	opts := testOptions()
	opts.Recorder = b.rec
	b.s = NewSession(Devices{
		Display:  &nopDisplay{},
		Input:    b.in,
		Link:     link,
		LEDs:     b.leds,
		Terminal: b.term,
	}, opts)
	return b
}

func newPair() (*board, *board) {
	la, lb := linkPair()
	return newBoard(la), newBoard(lb)
}

// tap holds d for one tick and releases it on the next.
func (b *board) tap(d core.Direction) {
	b.in.stick = d
	b.s.Step()
	b.in.stick = core.DirCenter
	b.s.Step()
}

// stepUntil steps until cond holds, failing after limit ticks.
func (b *board) stepUntil(t *testing.T, limit int, cond func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		b.s.Step()
	}
	if !cond() {
		t.Fatalf("condition not met after %d ticks (phase %v)", limit, b.s.Phase())
	}
}

// startRound readies both boards and runs them into play, recording every
// phase each board passes through.
func startRound(t *testing.T, a, b *board) (pa, pb []Phase) {
	t.Helper()
	record := func(trail []Phase, p Phase) []Phase {
		if len(trail) == 0 || trail[len(trail)-1] != p {
			trail = append(trail, p)
		}
		return trail
	}
	pa = record(pa, a.s.Phase())
	pb = record(pb, b.s.Phase())

	a.in.stick, b.in.stick = core.DirUp, core.DirUp
	for i := 0; i < 40; i++ {
		a.s.Step()
		b.s.Step()
		a.in.stick, b.in.stick = core.DirCenter, core.DirCenter
		pa = record(pa, a.s.Phase())
		pb = record(pb, b.s.Phase())
		if a.s.Phase() == PhasePlaying && b.s.Phase() == PhasePlaying {
			return pa, pb
		}
	}
	t.Fatalf("boards did not reach play: %v / %v", a.s.Phase(), b.s.Phase())
	return nil, nil
}

func TestSessionStartup(t *testing.T) {
	a, _ := newPair()
	if a.s.Phase() != PhaseAwaitingReady {
		t.Errorf("phase = %v, want awaiting ready", a.s.Phase())
	}
	for _, want := range []string{"2-Player Frogger", "Initializing...", "LOCAL ID: 17, REMOTE ID: 0", "Press up key to play."} {
		if !a.term.has(want) {
			t.Errorf("missing start-up line %q", want)
		}
	}
}

func TestOptionsDefaultBoardIDs(t *testing.T) {
	tests := []struct {
		name          string
		local, remote int
		wantL, wantR  int
	}{
		{"both zero", 0, 0, 0x11, 0x00},
		{"local set", 0x22, 0, 0x22, 0},
		{"remote set", 0, 0x11, 0, 0x11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{LocalID: tt.local, RemoteID: tt.remote}.withDefaults()
			if o.LocalID != tt.wantL || o.RemoteID != tt.wantR {
				t.Errorf("ids = %d/%d, want %d/%d", o.LocalID, o.RemoteID, tt.wantL, tt.wantR)
			}
		})
	}
}

func TestReadyToCountdownOnce(t *testing.T) {
	a, b := newPair()
	pa, pb := startRound(t, a, b)

	want := []Phase{PhaseAwaitingReady, PhaseCountdown, PhasePlaying}
	for name, trail := range map[string][]Phase{"a": pa, "b": pb} {
		if len(trail) != len(want) {
			t.Fatalf("board %s phases = %v, want %v", name, trail, want)
		}
		for i := range want {
			if trail[i] != want[i] {
				t.Errorf("board %s phases = %v, want %v", name, trail, want)
				break
			}
		}
	}
	if !a.term.has("You are ready!") || !a.term.has("Opponent is ready!") {
		t.Error("ready messages missing")
	}
	if a.s.Player().Row() != GridHeight-1 {
		t.Errorf("frog starts on row %d, want %d", a.s.Player().Row(), GridHeight-1)
	}
	if a.s.hazards.Count() == 0 {
		t.Error("hazards not populated")
	}
}

func TestOnlyUpReadies(t *testing.T) {
	a, _ := newPair()
	a.tap(core.DirLeft)
	a.tap(core.DirDown)
	if a.s.localReady || a.link.count(ReadyWord) != 0 {
		t.Error("only up should ready the board")
	}
	a.in.buttons[core.DirUp] = true
	a.s.Step()
	if !a.s.localReady || a.link.count(ReadyWord) != 1 {
		t.Error("up button should ready the board and send one ready word")
	}
}

func TestReadyResentWhileWaiting(t *testing.T) {
	a, _ := newPair()
	a.tap(core.DirUp)
	for i := 0; i < 10; i++ {
		a.s.Step()
	}
	if n := a.link.count(ReadyWord); n < 2 {
		t.Errorf("ready word sent %d times, want periodic resends", n)
	}
	if a.s.Phase() != PhaseAwaitingReady {
		t.Errorf("phase = %v without a peer, want awaiting ready", a.s.Phase())
	}
}

// The ready word keeps going out through the countdown, since the peer may
// have missed every earlier copy. It stops once play starts.
func TestReadyResentThroughCountdown(t *testing.T) {
	a, _ := newPair()
	a.link.rx.q = append(a.link.rx.q, ReadyWord)

	a.in.stick = core.DirUp
	a.s.Step()
	if a.s.Phase() != PhaseCountdown {
		t.Fatalf("phase = %v, want countdown", a.s.Phase())
	}
	if n := a.link.count(ReadyWord); n != 1 {
		t.Fatalf("ready word sent %d times on ready-up, want 1", n)
	}

	a.in.stick = core.DirCenter
	ticks := 0
	for a.s.Phase() == PhaseCountdown {
		a.s.Step()
		ticks++
		if ticks > 20 {
			t.Fatal("countdown did not finish")
		}
	}
	// One-tick resend interval, four countdown ticks: resent on every
	// second tick.
	if ticks != 4 {
		t.Errorf("countdown took %d ticks, want 4", ticks)
	}
	if n := a.link.count(ReadyWord) - 1; n != 2 {
		t.Errorf("ready word resent %d times during countdown, want 2", n)
	}

	for range 10 {
		a.s.Step()
	}
	if n := a.link.count(ReadyWord); n != 3 {
		t.Errorf("ready word sent %d times in total, want 3 (none while playing)", n)
	}
}

func TestReadySeedsFromTicks(t *testing.T) {
	a, b := newPair()
	for i := 0; i < 5; i++ {
		a.s.Step()
	}
	startRound(t, a, b)
	if a.s.Seed() == 0 || a.s.Seed() == b.s.Seed() {
		t.Errorf("seeds a=%d b=%d, want distinct non-zero tick counts", a.s.Seed(), b.s.Seed())
	}
}

func TestLocalWinSendsWinOnce(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)

	a.s.player.PlaceAt(3, 0)
	a.s.Step()

	if a.s.Phase() != PhaseRoundEnd || a.s.Outcome() != OutcomeWin {
		t.Fatalf("phase %v outcome %v, want round end with a win", a.s.Phase(), a.s.Outcome())
	}
	for i := 0; i < 20; i++ {
		a.s.Step()
	}
	if n := a.link.count(WinWord); n != 1 {
		t.Errorf("win word sent %d times, want 1", n)
	}
	if !a.term.has("CONGRATULATIONS!") || !a.term.has("YOU WIN!") {
		t.Error("win messages missing")
	}

	b.stepUntil(t, 50, func() bool { return b.s.Phase() == PhaseRoundEnd })
	if b.s.Outcome() != OutcomeRemoteWin {
		t.Errorf("peer outcome = %v, want opponent win", b.s.Outcome())
	}
	if !b.term.has("PLAYER 2 WINS!") {
		t.Error("peer should announce player 2")
	}
}

func TestRoundRecorded(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)
	a.s.player.PlaceAt(1, 0)
	a.s.Step()

	if len(a.rec.results) != 1 {
		t.Fatalf("recorded %d rounds, want 1", len(a.rec.results))
	}
	got := a.rec.results[0]
	if got.Outcome != OutcomeWin || got.Seed != a.s.Seed() || got.Ticks != 1 {
		t.Errorf("result = %+v", got)
	}
}

func TestRecorderErrorDoesNotStopRound(t *testing.T) {
	a, b := newPair()
	a.rec.err = errors.New("disk full")
	startRound(t, a, b)
	a.s.player.PlaceAt(1, 0)
	a.s.Step()
	if a.s.Phase() != PhaseRoundEnd {
		t.Errorf("phase = %v, want round end", a.s.Phase())
	}
}

func TestDeathEndsRound(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)

	// Stand on a water row with no log underneath.
	a.s.hazards = Hazards{}
	a.s.player.PlaceAt(3, 2)
	a.s.Step()

	if a.s.Outcome() != OutcomeDied {
		t.Fatalf("outcome = %v, want died", a.s.Outcome())
	}
	if !a.term.has("GAME OVER!") {
		t.Error("game over message missing")
	}
	a.s.Step()
	if a.leds.strip[0] != LEDRed {
		t.Errorf("first LED = %v, want red blink", a.leds.strip[0])
	}
}

func TestStrayWordsIgnoredInPlay(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)
	a.link.rx.q = nil

	before := a.s.Remote()
	a.link.rx.q = append(a.link.rx.q, ReadyWord)
	a.s.Step()
	if r := a.s.Remote(); r.X != before.X || r.Y != before.Y {
		t.Errorf("stray ready word moved the remote frog to (%d,%d)", r.X, r.Y)
	}
	if a.s.Phase() != PhasePlaying {
		t.Errorf("phase = %v, want playing", a.s.Phase())
	}

	x, y := CellX(5)+5, CellY(6)+5
	a.link.rx.q = append(a.link.rx.q, EncodePosition(x, y))
	a.s.Step()
	if r := a.s.Remote(); r.X != x || r.Y != y {
		t.Errorf("remote = (%d,%d), want (%d,%d)", r.X, r.Y, x, y)
	}
}

func TestInvalidMoveFlashes(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)
	a.s.hazards = Hazards{}

	a.in.stick = core.DirDown
	a.s.Step()
	if a.leds.strip[0] != LEDYellow {
		t.Errorf("LED after blocked move = %v, want yellow", a.leds.strip[0])
	}
	if a.s.Player().Row() != GridHeight-1 {
		t.Error("blocked move must not move the frog")
	}
}

func TestMoveIsEdgeTriggered(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)
	a.s.hazards = Hazards{}
	start := a.s.Player().Row()

	a.in.stick = core.DirUp
	for i := 0; i < 5; i++ {
		a.s.Step()
	}
	if got := a.s.Player().Row(); got != start-1 {
		t.Errorf("held stick moved to row %d, want one step to %d", got, start-1)
	}
	if n := a.link.count(EncodePosition(a.s.Player().X, a.s.Player().Y)); n != 1 {
		t.Errorf("position sent %d times, want 1", n)
	}
}

func TestRematch(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)
	a.s.player.PlaceAt(3, 0)
	a.s.Step()

	a.stepUntil(t, 200, func() bool { return a.term.has("Press up to play again!") && a.s.seq == nil })
	a.s.Step() // released
	a.tap(core.DirUp)
	if a.s.Phase() != PhaseAwaitingReady {
		t.Fatalf("phase = %v, want awaiting ready", a.s.Phase())
	}
	if a.s.localReady {
		t.Error("rematch press must not ready the next round")
	}
	if a.leds.strip != [LEDCount]RGB{} {
		t.Errorf("LEDs = %v, want all off", a.leds.strip)
	}
}

func TestQuit(t *testing.T) {
	a, b := newPair()
	startRound(t, a, b)
	a.s.player.PlaceAt(3, 0)
	a.s.Step()

	a.stepUntil(t, 200, func() bool { return a.s.seq == nil })
	a.s.Step()
	a.tap(core.DirRight)
	if a.s.Phase() != PhaseSessionEnd {
		t.Fatalf("phase = %v, want session end", a.s.Phase())
	}
	a.stepUntil(t, 20, a.s.Done)

	if !a.term.has("THANKS FOR PLAYING!") {
		t.Error("farewell missing")
	}
	if a.term.clears < 2 {
		t.Errorf("terminal cleared %d times, want the round start and the farewell", a.term.clears)
	}
	a.s.Step()
	if !a.s.Done() {
		t.Error("done session stays done")
	}
}
