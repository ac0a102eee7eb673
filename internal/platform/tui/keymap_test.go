package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSoloKeyMap(t *testing.T) {
	km := NewKeyMapper(SoloKeyMap())
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionStickUp, false},
		{"w", runeKey('w'), core.ActionStickUp, false},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionStickLeft, false},
		{"d", runeKey('d'), core.ActionStickRight, false},
		{"i", runeKey('i'), core.ActionButtonUp, false},
		{"k", runeKey('k'), core.ActionButtonDown, false},
		{"j", runeKey('j'), core.ActionButtonLeft, false},
		{"l", runeKey('l'), core.ActionButtonRight, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player, action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey = %v, %v; want %v, %v", action, quit, tt.action, tt.quit)
			}
			if action != core.ActionNone && !quit && player != core.Player1 {
				t.Errorf("player = %v, want P1", player)
			}
		})
	}
}

func TestSplitKeyMap(t *testing.T) {
	km := NewKeyMapper(SplitKeyMap())
	tests := []struct {
		msg    tea.KeyMsg
		player core.PlayerID
		action core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.Player1, core.ActionStickUp},
		{tea.KeyMsg{Type: tea.KeyRight}, core.Player1, core.ActionStickRight},
		{runeKey('w'), core.Player2, core.ActionStickUp},
		{runeKey('a'), core.Player2, core.ActionStickLeft},
		{runeKey('t'), core.Player2, core.ActionButtonUp},
		{runeKey('l'), core.Player1, core.ActionButtonRight},
	}
	for _, tt := range tests {
		player, action, _ := km.MapKey(tt.msg)
		if player != tt.player || action != tt.action {
			t.Errorf("%s: got %v %v, want %v %v", tt.msg, player, action, tt.player, tt.action)
		}
	}
}

func TestMapKeyToMultiFrame(t *testing.T) {
	km := NewKeyMapper(SplitKeyMap())
	frame := core.NewMultiInputFrame()

	km.MapKeyToMultiFrame(tea.KeyMsg{Type: tea.KeyDown}, &frame)
	km.MapKeyToMultiFrame(runeKey('d'), &frame)
	if quit := km.MapKeyToMultiFrame(runeKey('q'), &frame); !quit {
		t.Error("q should report quit")
	}

	if frame.Player(core.Player1).Stick() != core.DirDown {
		t.Errorf("P1 stick = %v", frame.Player(core.Player1).Stick())
	}
	if frame.Player(core.Player2).Stick() != core.DirRight {
		t.Errorf("P2 stick = %v", frame.Player(core.Player2).Stick())
	}
}

func TestApplyFrame(t *testing.T) {
	in := NewKeyInput(2)
	frame := core.NewInputFrame()
	frame.Set(core.ActionStickLeft)
	frame.Set(core.ActionButtonUp)

	ApplyFrame(frame, in)
	if in.ReadDirection() != core.DirLeft || !in.ButtonPressed(core.DirUp) {
		t.Error("frame actions should reach the input")
	}
}
