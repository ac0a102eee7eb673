package core

// Action represents a semantic input, abstracted from physical key presses.
// The board has a joystick (held position) and four discrete buttons, and
// the front end maps keys onto both.
type Action int

const (
	ActionNone Action = iota
	ActionStickUp
	ActionStickDown
	ActionStickLeft
	ActionStickRight
	ActionButtonUp
	ActionButtonDown
	ActionButtonLeft
	ActionButtonRight
	ActionQuit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionStickUp:
		return "StickUp"
	case ActionStickDown:
		return "StickDown"
	case ActionStickLeft:
		return "StickLeft"
	case ActionStickRight:
		return "StickRight"
	case ActionButtonUp:
		return "ButtonUp"
	case ActionButtonDown:
		return "ButtonDown"
	case ActionButtonLeft:
		return "ButtonLeft"
	case ActionButtonRight:
		return "ButtonRight"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// StickAction returns the joystick action for a direction.
func StickAction(d Direction) Action {
	switch d {
	case DirUp:
		return ActionStickUp
	case DirDown:
		return ActionStickDown
	case DirLeft:
		return ActionStickLeft
	case DirRight:
		return ActionStickRight
	default:
		return ActionNone
	}
}

// ButtonAction returns the discrete button action for a direction.
func ButtonAction(d Direction) Action {
	switch d {
	case DirUp:
		return ActionButtonUp
	case DirDown:
		return ActionButtonDown
	case DirLeft:
		return ActionButtonLeft
	case DirRight:
		return ActionButtonRight
	default:
		return ActionNone
	}
}

// InputFrame holds the input state of one player for one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Stick returns the joystick position recorded in the frame.
// When several stick actions are set the first in up, down, left, right order wins.
func (f InputFrame) Stick() Direction {
	for _, d := range [...]Direction{DirUp, DirDown, DirLeft, DirRight} {
		if f.Has(StickAction(d)) {
			return d
		}
	}
	return DirCenter
}

// Button reports whether the button for d was pressed this frame.
func (f InputFrame) Button(d Direction) bool {
	return f.Has(ButtonAction(d))
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// MultiInputFrame holds the input of both players for one tick.
// Used by the split-screen front end where two boards share one keyboard.
type MultiInputFrame struct {
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player returns the input frame for a specific player.
// Returns an empty frame if the player has no input.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if m.ByPlayer == nil {
		return NewInputFrame()
	}
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for a specific player.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Set marks an action for one player.
func (m *MultiInputFrame) Set(id PlayerID, a Action) {
	frame := m.Player(id)
	frame.Set(a)
	m.SetPlayer(id, frame)
}

// Clear resets all player inputs for the next frame.
func (m *MultiInputFrame) Clear() {
	for id := range m.ByPlayer {
		frame := m.ByPlayer[id]
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}
