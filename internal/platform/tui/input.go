package tui

import (
	"time"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// StickHold is how long one key press holds the emulated joystick.
// Terminals report presses but not releases; key repeat extends the hold.
const StickHold = 120 * time.Millisecond

// KeyInput emulates the board joystick and buttons from key presses.
// It implements frogger.Input. Press is fed from the key handler and
// EndTick is called once after every session step.
type KeyInput struct {
	hold     int
	stick    core.Direction
	holdLeft int
	pending  core.Direction
	buttons  map[core.Direction]bool
}

// NewKeyInput creates an input whose stick stays deflected for hold ticks
// after each press.
func NewKeyInput(hold int) *KeyInput {
	return &KeyInput{
		hold:    max(1, hold),
		buttons: make(map[core.Direction]bool),
	}
}

// HoldTicks converts StickHold to ticks at the given rate.
func HoldTicks(tickRate int) int {
	return max(1, int(StickHold*time.Duration(tickRate)/time.Second))
}

// Press applies a stick or button action.
func (k *KeyInput) Press(a core.Action) {
	switch a {
	case core.ActionStickUp, core.ActionStickDown, core.ActionStickLeft, core.ActionStickRight:
		d := stickDirection(a)
		if k.holdLeft > 0 && k.stick != d {
			// Pass through center first so the new direction registers as an edge.
			k.pending = d
			return
		}
		k.stick = d
		k.holdLeft = k.hold
	case core.ActionButtonUp:
		k.buttons[core.DirUp] = true
	case core.ActionButtonDown:
		k.buttons[core.DirDown] = true
	case core.ActionButtonLeft:
		k.buttons[core.DirLeft] = true
	case core.ActionButtonRight:
		k.buttons[core.DirRight] = true
	}
}

func stickDirection(a core.Action) core.Direction {
	switch a {
	case core.ActionStickUp:
		return core.DirUp
	case core.ActionStickDown:
		return core.DirDown
	case core.ActionStickLeft:
		return core.DirLeft
	case core.ActionStickRight:
		return core.DirRight
	default:
		return core.DirCenter
	}
}

// ReadDirection returns the emulated joystick position.
func (k *KeyInput) ReadDirection() core.Direction {
	if k.pending != core.DirCenter || k.holdLeft == 0 {
		return core.DirCenter
	}
	return k.stick
}

// ButtonPressed reports whether the button for d was pressed this tick.
func (k *KeyInput) ButtonPressed(d core.Direction) bool {
	return k.buttons[d]
}

// EndTick expires button presses and counts down the stick hold.
func (k *KeyInput) EndTick() {
	clear(k.buttons)
	if k.pending != core.DirCenter {
		k.stick = k.pending
		k.pending = core.DirCenter
		k.holdLeft = k.hold
		return
	}
	if k.holdLeft > 0 {
		k.holdLeft--
	}
}
