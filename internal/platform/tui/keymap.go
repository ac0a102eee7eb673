package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// PadKeys binds one board's joystick and buttons.
type PadKeys struct {
	// Joystick
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	ButtonUp    key.Binding
	ButtonDown  key.Binding
	ButtonLeft  key.Binding
	ButtonRight key.Binding
}

// bindings pairs every binding with the action it produces.
func (p PadKeys) bindings() []struct {
	b key.Binding
	a core.Action
} {
	return []struct {
		b key.Binding
		a core.Action
	}{
		{p.Up, core.ActionStickUp},
		{p.Down, core.ActionStickDown},
		{p.Left, core.ActionStickLeft},
		{p.Right, core.ActionStickRight},
		{p.ButtonUp, core.ActionButtonUp},
		{p.ButtonDown, core.ActionButtonDown},
		{p.ButtonLeft, core.ActionButtonLeft},
		{p.ButtonRight, core.ActionButtonRight},
	}
}

// KeyMap holds the key bindings of the board screens.
type KeyMap struct {
	P1         PadKeys
	P2         PadKeys
	Quit       key.Binding
	Screenshot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.P1.Up, k.P1.ButtonUp, k.Screenshot, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.P1.Up, k.P1.Down, k.P1.Left, k.P1.Right},
		{k.P1.ButtonUp, k.P1.ButtonDown, k.P1.ButtonLeft, k.P1.ButtonRight},
		{k.P2.Up, k.P2.Down, k.P2.Left, k.P2.Right},
		{k.Screenshot, k.Quit},
	}
}

func bind(help string, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// SoloKeyMap drives a single board from arrows or WASD, with IJKL as buttons.
func SoloKeyMap() KeyMap {
	return KeyMap{
		P1: PadKeys{
			Up:          bind("↑/w", "stick up", "up", "w"),
			Down:        bind("↓/s", "stick down", "down", "s"),
			Left:        bind("←/a", "stick left", "left", "a"),
			Right:       bind("→/d", "stick right", "right", "d"),
			ButtonUp:    bind("i", "button up", "i"),
			ButtonDown:  bind("k", "button down", "k"),
			ButtonLeft:  bind("j", "button left", "j"),
			ButtonRight: bind("l", "button right", "l"),
		},
		P2:         PadKeys{},
		Quit:       bind("q", "quit", "q", "ctrl+c"),
		Screenshot: bind("ctrl+s", "screenshot", "ctrl+s"),
	}
}

// SplitKeyMap gives the arrows to board 1 and WASD to board 2.
func SplitKeyMap() KeyMap {
	return KeyMap{
		P1: PadKeys{
			Up:          bind("↑", "P1 up", "up"),
			Down:        bind("↓", "P1 down", "down"),
			Left:        bind("←", "P1 left", "left"),
			Right:       bind("→", "P1 right", "right"),
			ButtonUp:    bind("i", "P1 button up", "i"),
			ButtonDown:  bind("k", "P1 button down", "k"),
			ButtonLeft:  bind("j", "P1 button left", "j"),
			ButtonRight: bind("l", "P1 button right", "l"),
		},
		P2: PadKeys{
			Up:          bind("w", "P2 up", "w"),
			Down:        bind("s", "P2 down", "s"),
			Left:        bind("a", "P2 left", "a"),
			Right:       bind("d", "P2 right", "d"),
			ButtonUp:    bind("t", "P2 button up", "t"),
			ButtonDown:  bind("g", "P2 button down", "g"),
			ButtonLeft:  bind("f", "P2 button left", "f"),
			ButtonRight: bind("h", "P2 button right", "h"),
		},
		Quit:       bind("q", "quit", "q", "ctrl+c"),
		Screenshot: bind("ctrl+s", "screenshot", "ctrl+s"),
	}
}

// KeyMapper translates Bubble Tea key messages to board actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a key mapper over the given bindings.
func NewKeyMapper(keys KeyMap) *KeyMapper {
	return &KeyMapper{keys: keys}
}

// Keys returns the bindings, for help views.
func (km *KeyMapper) Keys() KeyMap { return km.keys }

// MapKey translates a key message to an action for one board.
// Returns PlayerNone and ActionNone for unbound keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player core.PlayerID, action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.PlayerNone, core.ActionQuit, true
	}
	for _, pad := range []struct {
		id   core.PlayerID
		keys PadKeys
	}{{core.Player1, km.keys.P1}, {core.Player2, km.keys.P2}} {
		for _, b := range pad.keys.bindings() {
			if key.Matches(msg, b.b) {
				return pad.id, b.a, false
			}
		}
	}
	return core.PlayerNone, core.ActionNone, false
}

// MapKeyToMultiFrame records the mapped action in frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && player != core.PlayerNone {
		frame.Set(player, action)
	}
	return isQuit
}

// ApplyFrame presses every action of one player's frame on input.
func ApplyFrame(frame core.InputFrame, input *KeyInput) {
	for a, on := range frame.Actions {
		if on {
			input.Press(a)
		}
	}
}
