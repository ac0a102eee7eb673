package frogger

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// Phase is a state of the round/session machine.
type Phase int

const (
	PhaseAwaitingReady Phase = iota
	PhaseCountdown
	PhasePlaying
	PhaseRoundEnd
	PhaseSessionEnd
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingReady:
		return "awaiting_ready"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseRoundEnd:
		return "round_end"
	case PhaseSessionEnd:
		return "session_end"
	default:
		return "unknown"
	}
}

// Event drives a phase transition.
type Event int

const (
	EventBothReady Event = iota
	EventCountdownDone
	EventRoundOver
	EventRematch
	EventQuit
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventBothReady:
		return "both_ready"
	case EventCountdownDone:
		return "countdown_done"
	case EventRoundOver:
		return "round_over"
	case EventRematch:
		return "rematch"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// nextPhase is the transition table. Events that do not apply to a phase
// leave it unchanged.
func nextPhase(p Phase, ev Event) Phase {
	switch {
	case p == PhaseAwaitingReady && ev == EventBothReady:
		return PhaseCountdown
	case p == PhaseCountdown && ev == EventCountdownDone:
		return PhasePlaying
	case p == PhasePlaying && ev == EventRoundOver:
		return PhaseRoundEnd
	case p == PhaseRoundEnd && ev == EventRematch:
		return PhaseAwaitingReady
	case p == PhaseRoundEnd && ev == EventQuit:
		return PhaseSessionEnd
	default:
		return p
	}
}

// Outcome is how a round ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeRemoteWin
	OutcomeDied
)

// String returns the outcome name as stored in round history.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeRemoteWin:
		return "opponent_win"
	case OutcomeDied:
		return "died"
	default:
		return "none"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) Outcome {
	switch s {
	case "win":
		return OutcomeWin
	case "opponent_win":
		return OutcomeRemoteWin
	case "died":
		return OutcomeDied
	default:
		return OutcomeNone
	}
}

// RoundResult summarizes a finished round.
type RoundResult struct {
	Outcome Outcome
	Ticks   int   // Playing ticks the round lasted
	Seed    int64 // Seed the round's hazards were drawn from
}

// RoundRecorder receives every finished round.
type RoundRecorder interface {
	RecordRound(r RoundResult) error
}

// Options tunes a session. Zero values fall back to DefaultOptions; the
// board IDs fall back only when both are zero.
type Options struct {
	TickRate      int           // Step calls per second
	CountdownStep time.Duration // Dwell of each countdown line
	LEDStep       time.Duration // Dwell of each LED sequence step
	FlashStep     time.Duration // Dwell of each invalid-move flash
	Farewell      time.Duration // Dwell on the farewell message
	ReadyResend   time.Duration // Interval between ready resends

	LocalID  int
	RemoteID int

	Logger   *log.Logger
	Recorder RoundRecorder
}

// DefaultOptions returns the timings of the original board.
func DefaultOptions() Options {
	return Options{
		TickRate:      60,
		CountdownStep: time.Second,
		LEDStep:       150 * time.Millisecond,
		FlashStep:     25 * time.Millisecond,
		Farewell:      2 * time.Second,
		ReadyResend:   time.Second,
		LocalID:       0x11,
		RemoteID:      0x00,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TickRate <= 0 {
		o.TickRate = d.TickRate
	}
	if o.CountdownStep <= 0 {
		o.CountdownStep = d.CountdownStep
	}
	if o.LEDStep <= 0 {
		o.LEDStep = d.LEDStep
	}
	if o.FlashStep <= 0 {
		o.FlashStep = d.FlashStep
	}
	if o.Farewell <= 0 {
		o.Farewell = d.Farewell
	}
	if o.ReadyResend <= 0 {
		o.ReadyResend = d.ReadyResend
	}
	if o.LocalID == 0 && o.RemoteID == 0 {
		o.LocalID, o.RemoteID = d.LocalID, d.RemoteID
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Devices are the board collaborators a session drives.
type Devices struct {
	Display  Renderer
	Input    Input
	Link     Link
	LEDs     LEDs
	Terminal Terminal
}

// Session is one board's game: every round played until the player quits.
// It owns all round state and is advanced by Step, one call per poll tick.
// A Session is not safe for concurrent use.
type Session struct {
	dev  Devices
	opts Options
	log  *log.Logger

	phase Phase
	done  bool

	// Ready-up state. ticks counts every ready poll across the whole
	// session and seeds each round.
	ticks       int64
	localReady  bool
	remoteReady bool
	resendIn    int

	latch   InputLatch
	rng     *rand.Rand
	seed    int64
	player  Entity
	remote  Entity
	hazards Hazards

	alive      bool
	localWin   bool
	remoteWin  bool
	roundTicks int
	outcome    Outcome

	seq   *script // Countdown, round-end or farewell sequence
	flash *script // Invalid-move flash, runs alongside play
}

// NewSession posts the start-up banner and waits for players to ready up.
func NewSession(dev Devices, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		dev:    dev,
		opts:   opts,
		log:    opts.Logger,
		phase:  PhaseAwaitingReady,
		player: NewPlayer(),
		remote: NewRemoteFrog(),
		rng:    rand.New(rand.NewSource(0)),
	}

	term := dev.Terminal
	term.PostLine("2-Player Frogger", core.AlignCenter, core.ColorGreen)
	for i := 0; i < 6; i++ {
		term.PostLine("", core.AlignCenter, core.ColorBlack)
	}
	term.PostLine("Initializing...", core.AlignCenter, core.ColorCyan)
	term.PostLine(fmt.Sprintf("LOCAL ID: %d, REMOTE ID: %d", opts.LocalID, opts.RemoteID), core.AlignCenter, core.ColorBlue2)

	s.enterReady()
	return s
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Done reports whether the session has ended and cleared the board.
func (s *Session) Done() bool { return s.done }

// Outcome returns the outcome of the last finished round.
func (s *Session) Outcome() Outcome { return s.outcome }

// Player returns a copy of the local frog.
func (s *Session) Player() Entity { return s.player }

// Remote returns a copy of the peer's frog.
func (s *Session) Remote() Entity { return s.remote }

// Seed returns the seed of the current or last round.
func (s *Session) Seed() int64 { return s.seed }

// Step advances the session by one tick. It never blocks.
func (s *Session) Step() {
	if s.done {
		return
	}
	if s.flash != nil && s.flash.step() {
		s.flash = nil
	}

	switch s.phase {
	case PhaseAwaitingReady:
		s.stepReady()
	case PhaseCountdown:
		s.stepCountdown()
	case PhasePlaying:
		s.stepPlaying()
	case PhaseRoundEnd:
		s.stepRoundEnd()
	case PhaseSessionEnd:
		if s.seq.step() {
			s.done = true
			s.log.Info("session ended")
		}
	}
}

func (s *Session) transition(ev Event) {
	next := nextPhase(s.phase, ev)
	if next == s.phase {
		s.log.Warn("ignored event", "phase", s.phase, "event", ev)
		return
	}
	s.log.Debug("phase", "from", s.phase, "to", next, "event", ev)
	s.phase = next
}

func (s *Session) ticksFor(d time.Duration) int {
	return ticksFor(d, s.opts.TickRate)
}

func (s *Session) send(word uint32) {
	if err := s.dev.Link.Send(word); err != nil {
		s.log.Debug("link send failed", "word", fmt.Sprintf("%#08x", word), "err", err)
	}
}

func (s *Session) enterReady() {
	s.localReady = false
	s.remoteReady = false
	s.resendIn = 0
	s.dev.Terminal.PostLine("Press up key to play.", core.AlignCenter, core.ColorBlue)
}

func (s *Session) stepReady() {
	s.ticks++

	if dir, ok := s.latch.Feed(ReadInput(s.dev.Input)); ok && dir == core.DirUp && !s.localReady {
		s.localReady = true
		s.send(ReadyWord)
		s.resendIn = s.ticksFor(s.opts.ReadyResend)
		s.dev.Terminal.PostLine("You are ready!", core.AlignCenter, core.ColorGreen)
	} else {
		s.resendReady()
	}

	if word, ok := s.dev.Link.TryReceive(); ok {
		if word == ReadyWord && !s.remoteReady {
			s.remoteReady = true
			s.dev.Terminal.PostLine("Opponent is ready!", core.AlignCenter, core.ColorRed)
		} else if word != ReadyWord {
			s.log.Debug("discarded word while waiting", "word", fmt.Sprintf("%#08x", word))
		}
	}

	if s.localReady && s.remoteReady {
		s.beginCountdown()
	}
}

// resendReady repeats the ready word every ReadyResend through the ready
// phase and the countdown, while the peer may still be waiting for it.
// A lost ready word would otherwise leave the peer stuck. Stray copies
// that reach a playing peer decode outside the playfield and are dropped.
func (s *Session) resendReady() {
	if !s.localReady {
		return
	}
	if s.resendIn > 0 {
		s.resendIn--
		return
	}
	s.send(ReadyWord)
	s.resendIn = s.ticksFor(s.opts.ReadyResend)
}

func (s *Session) beginCountdown() {
	s.seed = s.ticks
	s.rng = rand.New(rand.NewSource(s.seed))
	s.log.Info("players ready", "seed", s.seed)
	s.seq = countdownScript(s.dev.Terminal, s.dev.LEDs, s.ticksFor(s.opts.CountdownStep))
	s.transition(EventBothReady)
}

func (s *Session) stepCountdown() {
	s.resendReady()
	if !s.seq.step() {
		return
	}
	s.seq = nil
	s.startRound()
	s.transition(EventCountdownDone)
}

// startRound resets the round flags, places both frogs on the bottom row
// at random columns, draws a fresh set of hazards and redraws the scene.
func (s *Session) startRound() {
	s.alive = true
	s.localWin = false
	s.remoteWin = false
	s.roundTicks = 0
	s.outcome = OutcomeNone

	s.player = NewPlayer()
	s.player.PlaceAt(RandomInRange(s.rng, 0, GridWidth), GridHeight-1)
	CorrectBackground(&s.player)
	s.remote = NewRemoteFrog()
	s.remote.PlaceAt(RandomInRange(s.rng, 0, GridWidth), GridHeight-1)
	CorrectBackground(&s.remote)

	s.hazards = Populate(s.rng)
	s.drawScene()
}

func (s *Session) clearBoard() {
	s.dev.Terminal.Clear()
	s.dev.Display.DrawRect(0, LCDWidth, 0, LCDHeight, core.ColorBlack)
}

func (s *Session) drawScene() {
	d := s.dev.Display
	s.clearBoard()
	// Border: one gray pixel around a black playfield.
	d.DrawRect(LeftBorder, PlayfieldWidth, TopBorder, PlayfieldHeight, BorderColor)
	d.DrawRect(LeftBorder+1, PlayfieldWidth-2, TopBorder+1, PlayfieldHeight-2, RoadColor)
	d.DrawRect(LeftBorder+1, PlayfieldWidth-2, CellY(1), WaterRows*GridSize, WaterColor)
	d.DrawRect(LeftBorder+1, PlayfieldWidth-2, TopBorder+1, GridSize-1, GrassColor)
	d.DrawRect(LeftBorder+1, PlayfieldWidth-2, CellY(GridHeight-1), GridSize-1, GrassColor)
}

func (s *Session) stepPlaying() {
	d := s.dev.Display
	s.roundTicks++
	oldX, oldY := s.player.X, s.player.Y

	s.hazards.Each(func(e *Entity) {
		Advance(e, d, s.rng)
		e.Render(d)
	})

	if dir, ok := s.latch.Feed(ReadInput(s.dev.Input)); ok {
		s.player.Direction = dir
		if !Advance(&s.player, d, s.rng) {
			s.flash = flashScript(s.dev.LEDs, s.ticksFor(s.opts.FlashStep))
			s.flash.step()
		}
	}

	row := s.player.Row()
	if res := Resolve(&s.player, &s.hazards); !res.Alive() {
		s.alive = false
	}

	if ShouldSend(oldX, oldY, &s.player, row) {
		s.send(EncodePosition(s.player.X, s.player.Y))
	}

	s.remote.Erase(d)
	if word, ok := s.dev.Link.TryReceive(); ok {
		switch ApplyInbound(&s.remote, word) {
		case InboundWin:
			s.remoteWin = true
		case InboundRejected:
			x, y := DecodePosition(word)
			s.log.Debug("dropped out-of-playfield position", "x", x, "y", y)
		}
	}
	CorrectOffset(&s.remote)

	s.remote.Render(d)
	s.player.Render(d)

	if s.player.Y < TopBorder+GridSize && !s.localWin {
		s.localWin = true
		s.send(WinWord)
	}

	if s.localWin || s.remoteWin || !s.alive {
		s.endRound()
	}
}

// endRound picks the outcome, reports it and queues the outcome sequence
// followed by the rematch prompt.
func (s *Session) endRound() {
	switch {
	case s.localWin:
		s.outcome = OutcomeWin
	case s.remoteWin:
		s.outcome = OutcomeRemoteWin
	default:
		s.outcome = OutcomeDied
	}
	s.log.Info("round over", "outcome", s.outcome, "ticks", s.roundTicks, "seed", s.seed)

	if s.opts.Recorder != nil {
		res := RoundResult{Outcome: s.outcome, Ticks: s.roundTicks, Seed: s.seed}
		if err := s.opts.Recorder.RecordRound(res); err != nil {
			s.log.Error("record round", "err", err)
		}
	}

	term, leds, step := s.dev.Terminal, s.dev.LEDs, s.ticksFor(s.opts.LEDStep)
	s.flash = nil

	var seq *script
	switch s.outcome {
	case OutcomeWin:
		term.PostLine("CONGRATULATIONS!", core.AlignCenter, core.ColorYellow)
		term.PostLine("YOU WIN!", core.AlignCenter, core.ColorYellow)
		seq = winScript(leds, step)
	case OutcomeRemoteWin:
		term.PostLine("PLAYER 2 WINS!", core.AlignCenter, core.ColorRed)
		seq = lossScript(leds, step)
	default:
		term.PostLine("GAME OVER!", core.AlignCenter, core.ColorOrange)
		seq = lossScript(leds, step)
	}
	seq.then(0, func() {
		term.PostLine("Press up to play again!", core.AlignCenter, core.ColorWhite)
		term.PostLine("Press any other button to quit.", core.AlignCenter, core.ColorWhite)
		setAll(leds, LEDOff)
		s.latch.Hold()
	})
	s.seq = seq
	s.transition(EventRoundOver)
}

func (s *Session) stepRoundEnd() {
	if s.seq != nil {
		if !s.seq.step() {
			return
		}
		s.seq = nil
		return
	}

	dir, ok := s.latch.Feed(ReadInput(s.dev.Input))
	if !ok {
		return
	}
	if dir == core.DirUp {
		s.transition(EventRematch)
		s.enterReady()
		return
	}
	s.transition(EventQuit)
	s.seq = (&script{}).
		then(0, func() {
			s.dev.Terminal.PostLine("", core.AlignCenter, core.ColorBlack)
			s.dev.Terminal.PostLine("THANKS FOR PLAYING!", core.AlignCenter, core.ColorWhite)
		}).
		pause(s.ticksFor(s.opts.Farewell)).
		then(0, s.clearBoard)
}
