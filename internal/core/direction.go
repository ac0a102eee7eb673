package core

// Direction is a joystick position or a facing. Center means no input.
type Direction int

const (
	DirCenter Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Cardinals lists the four movement directions in button polling order.
var Cardinals = [...]Direction{DirRight, DirUp, DirLeft, DirDown}

// Delta returns the unit step for the direction in screen coordinates
// (x grows to the right, y grows downward).
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Horizontal reports whether the direction is left or right.
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirCenter:
		return "Center"
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}
