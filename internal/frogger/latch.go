package frogger

import "github.com/vovakirdan/tui-frogger/internal/core"

// LatchState is the state of an edge-triggered input latch.
type LatchState int

const (
	LatchNeutral LatchState = iota // Centered, a move may fire
	LatchArmed                     // A direction arrived this tick and fired
	LatchFired                     // Still held; no repeat until centered
)

// InputLatch turns a held direction into a single move. A direction fires
// once when it arrives from center, and nothing more fires until the input
// returns to center: Neutral -> Armed -> Fired -> Neutral.
type InputLatch struct {
	state LatchState
}

// State returns the current latch state.
func (l *InputLatch) State() LatchState {
	return l.state
}

// Feed advances the latch with this tick's input and returns the direction
// to act on, if any.
func (l *InputLatch) Feed(d core.Direction) (core.Direction, bool) {
	if d == core.DirCenter {
		l.state = LatchNeutral
		return core.DirCenter, false
	}
	switch l.state {
	case LatchNeutral:
		l.state = LatchArmed
		return d, true
	default:
		l.state = LatchFired
		return core.DirCenter, false
	}
}

// Hold marks the input as consumed so it must return to center before the
// next move. Used when a phase starts while a key may still be held.
func (l *InputLatch) Hold() {
	l.state = LatchFired
}

// ReadInput combines the joystick and the buttons into one direction for the
// tick. Buttons override the stick; when several are pressed the last in
// right, up, left, down order wins.
func ReadInput(in Input) core.Direction {
	d := in.ReadDirection()
	for _, b := range core.Cardinals {
		if in.ButtonPressed(b) {
			d = b
		}
	}
	return d
}
