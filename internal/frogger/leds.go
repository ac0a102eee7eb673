package frogger

import "github.com/vovakirdan/tui-frogger/internal/core"

// RGB is an indicator color with components in 0..255.
type RGB struct {
	R, G, B uint8
}

// Indicator colors used by the round sequences.
var (
	LEDOff    = RGB{}
	LEDRed    = RGB{100, 0, 0}
	LEDYellow = RGB{100, 100, 0}
	LEDGreen  = RGB{0, 100, 0}
	LEDDim    = RGB{8, 8, 4}
)

// winChase is the color each indicator takes, in order, during the win
// celebration.
var winChase = [LEDCount]RGB{
	{50, 8, 4},
	{8, 50, 4},
	{8, 8, 50},
	{25, 50, 120},
	{8, 100, 50},
	{50, 50, 4},
	{50, 8, 50},
	{8, 50, 50},
}

// Sequence lengths.
const (
	WinChaseCycles = 5
	LossBlinks     = 10
	FlashBlinks    = 2
)

// setAll paints every indicator the same color.
func setAll(leds LEDs, c RGB) {
	for i := 0; i < LEDCount; i++ {
		leds.SetIndicator(i, c.R, c.G, c.B)
	}
}

// countdownStep is one line of the pre-round countdown.
type countdownStep struct {
	Text  string
	Color core.Color
	LED   RGB
}

var countdown = []countdownStep{
	{"3", core.ColorRed, LEDRed},
	{"2", core.ColorOrange, LEDYellow},
	{"1", core.ColorYellow, LEDGreen},
	{"Begin!", core.ColorGreen, LEDOff},
}

// countdownScript posts the countdown and lights the strip for each step.
// The round starts on the tick that shows "Begin!".
func countdownScript(term Terminal, leds LEDs, step int) *script {
	s := &script{}
	s.then(0, func() {
		term.PostLine("All players are ready.", core.AlignCenter, core.ColorWhite)
		term.PostLine("Starting in:", core.AlignCenter, core.ColorWhite)
	})
	for i, c := range countdown {
		dwell := step
		if i == len(countdown)-1 {
			dwell = 0
		}
		s.then(dwell, func() {
			term.PostLine(c.Text, core.AlignCenter, c.Color)
			setAll(leds, c.LED)
		})
	}
	return s
}

// winScript plays the chase: each cycle dims the strip and lights one
// indicator per step until all are lit.
func winScript(leds LEDs, step int) *script {
	s := &script{}
	for cycle := 0; cycle < WinChaseCycles; cycle++ {
		s.then(0, func() { setAll(leds, LEDDim) })
		for i, c := range winChase {
			s.then(step, func() { leds.SetIndicator(i, c.R, c.G, c.B) })
		}
	}
	return s
}

// lossScript blinks the whole strip red.
func lossScript(leds LEDs, step int) *script {
	s := &script{}
	for i := 0; i < LossBlinks; i++ {
		s.then(step, func() { setAll(leds, LEDRed) })
		s.then(step, func() { setAll(leds, LEDOff) })
	}
	return s
}

// flashScript blinks the strip yellow to reject a move.
func flashScript(leds LEDs, step int) *script {
	s := &script{}
	for i := 0; i < FlashBlinks; i++ {
		s.then(step, func() { setAll(leds, LEDYellow) })
		s.then(step, func() { setAll(leds, LEDOff) })
	}
	return s
}
