package frogger

import (
	"math/rand"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// IsValidMove reports whether e may take one step in direction d.
// Hazards are never blocked; they wrap or bounce at the edges instead.
// A player move is rejected when the edge after the step would cross the
// playfield border, so the frog can never straddle it.
func IsValidMove(e *Entity, d core.Direction) bool {
	if !e.IsPlayer {
		return true
	}
	switch d {
	case core.DirRight:
		return e.X+e.Image.Width+e.Move <= RightBorder
	case core.DirUp:
		return e.Y-e.Move >= TopBorder
	case core.DirLeft:
		return e.X-e.Move >= LeftBorder
	case core.DirDown:
		return e.Y+e.Image.Height+e.Move <= BottomBorder
	default:
		return false
	}
}

// Advance moves e one step along its facing and reports whether it moved.
// The old position is erased on r first. For the player the sprite is
// swapped to the new facing before its offset is corrected, and the
// background is recomputed for the row it lands on. Logs that hit an edge
// turn around with a fresh speed drawn from rng; cars wrap to the far edge.
func Advance(e *Entity, r Renderer, rng *rand.Rand) bool {
	if !IsValidMove(e, e.Direction) {
		return false
	}

	e.Erase(r)

	if e.IsPlayer {
		e.Image = FrogImage(e.Direction).WithBackground(e.Image.Background)
		// Frogs riding the upper water rows keep their carried x on vertical moves.
		if e.Y >= CellY(WaterRows) || e.Direction.Horizontal() {
			CorrectOffset(e)
		}
	}

	dx, dy := e.Direction.Delta()
	e.X += dx * e.Move
	e.Y += dy * e.Move

	switch e.Kind {
	case KindLog:
		bounce(e, rng)
	case KindCar:
		wrap(e)
	}

	if e.IsPlayer {
		CorrectBackground(e)
	}
	return true
}

// bounce turns a log around at the playfield edge.
func bounce(e *Entity, rng *rand.Rand) {
	switch {
	case e.Direction == core.DirRight && e.Right() >= RightBorder:
		e.X--
		e.Direction = core.DirLeft
		e.Move = RandomInRange(rng, LogMinMove, LogMaxMove+1)
	case e.Direction == core.DirLeft && e.X <= LeftBorder:
		e.X++
		e.Direction = core.DirRight
		e.Move = RandomInRange(rng, LogMinMove, LogMaxMove+1)
	}
}

// wrap moves a car that reached one edge to just inside the other.
func wrap(e *Entity) {
	switch {
	case e.Direction == core.DirRight && e.Right() >= RightBorder:
		e.X = LeftBorder + 1
	case e.Direction == core.DirLeft && e.X <= LeftBorder:
		e.X = RightBorder - e.Image.Width - 1
	}
}
