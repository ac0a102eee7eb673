package frogger

import "github.com/vovakirdan/tui-frogger/internal/core"

// Kind tags what an entity is. Motion and collision dispatch on it.
type Kind int

const (
	KindFrog Kind = iota
	KindCar
	KindLog
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFrog:
		return "frog"
	case KindCar:
		return "car"
	case KindLog:
		return "log"
	default:
		return "unknown"
	}
}

// Entity is anything drawn on the playfield: a frog, a car or a log.
// Positions are the image's top-left corner in LCD pixels.
type Entity struct {
	Kind      Kind
	IsPlayer  bool
	X, Y      int
	Move      int // Pixels per step
	Direction core.Direction
	Image     Image
}

// NewPlayer creates the local frog.
func NewPlayer() Entity {
	return Entity{
		Kind:      KindFrog,
		IsPlayer:  true,
		Move:      PlayerMove,
		Direction: core.DirUp,
		Image:     FrogUp,
	}
}

// NewRemoteFrog creates the peer's frog. It is never moved by input, only
// by sync updates.
func NewRemoteFrog() Entity {
	return Entity{
		Kind:      KindFrog,
		Direction: core.DirUp,
		Image:     Frog2,
	}
}

// Left returns the x of the left edge.
func (e Entity) Left() int { return e.X }

// Right returns the x of the right edge (x + width).
func (e Entity) Right() int { return e.X + e.Image.Width }

// Row returns the grid row the entity's top edge is in.
func (e Entity) Row() int { return RowOf(e.Y) }

// Velocity returns the signed horizontal speed in pixels per tick.
func (e Entity) Velocity() int {
	dx, _ := e.Direction.Delta()
	return dx * e.Move
}

// PlaceAt puts the entity on a cell, centered by its image offsets.
func (e *Entity) PlaceAt(col, row int) {
	e.X = CellX(col) + XOffset(e.Image)
	e.Y = CellY(row) + YOffset(e.Image)
}

// Render draws the entity.
func (e *Entity) Render(r Renderer) {
	r.DrawImage(e.X, e.Image.Width, e.Y, e.Image.Height, e.Image.mask(), e.Image.Foreground, e.Image.Background)
}

// Erase paints the entity's area in its background color.
func (e *Entity) Erase(r Renderer) {
	r.DrawImage(e.X, e.Image.Width, e.Y, e.Image.Height, e.Image.mask(), e.Image.Background, e.Image.Background)
}
