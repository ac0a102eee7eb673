package frogger

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

func TestInputLatch(t *testing.T) {
	steps := []struct {
		in    core.Direction
		fire  bool
		state LatchState
	}{
		{core.DirUp, true, LatchArmed},
		{core.DirUp, false, LatchFired},
		{core.DirUp, false, LatchFired},
		{core.DirLeft, false, LatchFired},
		{core.DirCenter, false, LatchNeutral},
		{core.DirLeft, true, LatchArmed},
		{core.DirCenter, false, LatchNeutral},
		{core.DirDown, true, LatchArmed},
	}

	var l InputLatch
	if l.State() != LatchNeutral {
		t.Fatalf("initial state = %v, want neutral", l.State())
	}
	for i, st := range steps {
		d, ok := l.Feed(st.in)
		if ok != st.fire {
			t.Errorf("step %d (%v): fired = %v, want %v", i, st.in, ok, st.fire)
		}
		if ok && d != st.in {
			t.Errorf("step %d: fired %v, want %v", i, d, st.in)
		}
		if l.State() != st.state {
			t.Errorf("step %d: state = %v, want %v", i, l.State(), st.state)
		}
	}
}

func TestInputLatchHold(t *testing.T) {
	var l InputLatch
	l.Hold()
	if _, ok := l.Feed(core.DirUp); ok {
		t.Error("held latch must not fire before returning to center")
	}
	l.Feed(core.DirCenter)
	if _, ok := l.Feed(core.DirUp); !ok {
		t.Error("latch should fire after center")
	}
}

type fakeInput struct {
	stick   core.Direction
	buttons map[core.Direction]bool
}

func (f *fakeInput) ReadDirection() core.Direction { return f.stick }

func (f *fakeInput) ButtonPressed(d core.Direction) bool { return f.buttons[d] }

func TestReadInput(t *testing.T) {
	tests := []struct {
		name    string
		stick   core.Direction
		buttons []core.Direction
		want    core.Direction
	}{
		{"stick only", core.DirLeft, nil, core.DirLeft},
		{"nothing", core.DirCenter, nil, core.DirCenter},
		{"button overrides stick", core.DirLeft, []core.Direction{core.DirUp}, core.DirUp},
		{"down wins over right", core.DirCenter, []core.Direction{core.DirRight, core.DirDown}, core.DirDown},
		{"left wins over up", core.DirCenter, []core.Direction{core.DirUp, core.DirLeft}, core.DirLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &fakeInput{stick: tt.stick, buttons: map[core.Direction]bool{}}
			for _, b := range tt.buttons {
				in.buttons[b] = true
			}
			if got := ReadInput(in); got != tt.want {
				t.Errorf("ReadInput = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScript(t *testing.T) {
	var log []string
	s := &script{}
	s.then(0, func() { log = append(log, "a") }).
		then(2, func() { log = append(log, "b") }).
		pause(1).
		then(0, func() { log = append(log, "c") })

	want := []struct {
		done bool
		n    int
	}{
		{false, 2}, // a, b run; b holds for two ticks
		{false, 2},
		{false, 2}, // pause
		{true, 3},  // c runs, script ends
	}
	for i, w := range want {
		done := s.step()
		if done != w.done || len(log) != w.n {
			t.Fatalf("tick %d: done=%v ran=%v, want done=%v ran %d", i, done, log, w.done, w.n)
		}
	}
	if s.wait != 0 || len(s.cues) != 0 {
		t.Errorf("script left wait=%d cues=%d", s.wait, len(s.cues))
	}
}

func TestTicksFor(t *testing.T) {
	tests := []struct {
		d    time.Duration
		rate int
		want int
	}{
		{time.Second, 60, 60},
		{150 * time.Millisecond, 60, 9},
		{25 * time.Millisecond, 60, 2},
		{time.Millisecond, 60, 1},
		{0, 60, 1},
		{time.Second, 0, 1},
	}
	for _, tt := range tests {
		if got := ticksFor(tt.d, tt.rate); got != tt.want {
			t.Errorf("ticksFor(%v, %d) = %d, want %d", tt.d, tt.rate, got, tt.want)
		}
	}
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		from Phase
		ev   Event
		want Phase
	}{
		{PhaseAwaitingReady, EventBothReady, PhaseCountdown},
		{PhaseCountdown, EventCountdownDone, PhasePlaying},
		{PhasePlaying, EventRoundOver, PhaseRoundEnd},
		{PhaseRoundEnd, EventRematch, PhaseAwaitingReady},
		{PhaseRoundEnd, EventQuit, PhaseSessionEnd},
		{PhaseCountdown, EventBothReady, PhaseCountdown},
		{PhaseCountdown, EventRematch, PhaseCountdown},
		{PhasePlaying, EventQuit, PhasePlaying},
		{PhaseSessionEnd, EventRematch, PhaseSessionEnd},
	}
	for _, tt := range tests {
		if got := nextPhase(tt.from, tt.ev); got != tt.want {
			t.Errorf("nextPhase(%v, %v) = %v, want %v", tt.from, tt.ev, got, tt.want)
		}
	}
}
