package frogger

import "github.com/vovakirdan/tui-frogger/internal/core"

// Renderer draws onto the board display.
// DrawImage with fg == bg erases the image area.
type Renderer interface {
	DrawImage(x, width, y, height int, mask core.Mask, fg, bg core.Color)
	DrawRect(x, width, y, height int, c core.Color)
}

// Input is the board's joystick and its four buttons.
type Input interface {
	// ReadDirection returns the current joystick position.
	ReadDirection() core.Direction
	// ButtonPressed reports whether the button for d was pressed since the last poll.
	ButtonPressed(d core.Direction) bool
}

// Link is the point-to-point channel to the peer board. Both calls must
// return immediately: Send is best effort and TryReceive reports false when
// no word is waiting.
type Link interface {
	Send(word uint32) error
	TryReceive() (uint32, bool)
}

// LEDs is the strip of indicators along the top of the board.
type LEDs interface {
	SetIndicator(index int, r, g, b uint8)
}

// LEDCount is the number of indicators on the strip.
const LEDCount = 8

// Terminal is the scrolling status message list.
type Terminal interface {
	PostLine(text string, align core.Align, color core.Color)
	Clear()
}
