package frogger

import (
	"math"
	"time"
)

// cue is one step of a script: an action followed by a dwell.
type cue struct {
	run   func()
	ticks int
}

// script plays a list of cues across ticks without blocking. A cue runs
// its action and then holds the script for its dwell; cues with no dwell
// run back to back in the same tick.
type script struct {
	cues []cue
	wait int
}

// then appends an action with a dwell measured in ticks.
func (s *script) then(ticks int, fn func()) *script {
	s.cues = append(s.cues, cue{run: fn, ticks: ticks})
	return s
}

// pause appends a dwell with no action.
func (s *script) pause(ticks int) *script {
	return s.then(ticks, nil)
}

// step advances the script by one tick and reports whether it has finished.
func (s *script) step() bool {
	if s.wait > 0 {
		s.wait--
		return false
	}
	for len(s.cues) > 0 {
		c := s.cues[0]
		s.cues = s.cues[1:]
		if c.run != nil {
			c.run()
		}
		if c.ticks > 0 {
			s.wait = c.ticks - 1
			return false
		}
	}
	return true
}

// ticksFor converts a duration to a whole number of ticks, at least one.
func ticksFor(d time.Duration, rate int) int {
	if d <= 0 || rate <= 0 {
		return 1
	}
	n := int(math.Round(d.Seconds() * float64(rate)))
	if n < 1 {
		n = 1
	}
	return n
}
