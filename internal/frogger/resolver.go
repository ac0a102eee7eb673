package frogger

// Verdict is the outcome of one collision check.
type Verdict int

const (
	VerdictSafe   Verdict = iota // Grass, or road with no car touching
	VerdictRiding                // On water, standing on a log
	VerdictDead                  // Hit by a car or fell in the water
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictSafe:
		return "safe"
	case VerdictRiding:
		return "riding"
	case VerdictDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Resolution is the result of Resolve.
type Resolution struct {
	Verdict Verdict
	Carry   int // Pixels the player was carried by a log this tick
}

// Alive reports whether the player survived.
func (r Resolution) Alive() bool {
	return r.Verdict != VerdictDead
}

// Resolve classifies the player's row and checks it against the hazards on
// that row. A player riding a log is moved by the log's velocity. Hazards
// are never modified.
//
// Road collisions use an edge-in-span test: the player dies when a car's
// left or right edge lies inside the player's span. A car wide enough to
// contain the player without either edge inside it is not detected.
func Resolve(player *Entity, hazards *Hazards) Resolution {
	row := player.Row()
	left, right := player.Left(), player.Right()

	switch TerrainOf(row) {
	case TerrainRoad:
		for i := range hazards.Row(row) {
			car := &hazards.Row(row)[i]
			if InRange(car.Left(), left, right) || InRange(car.Right(), left, right) {
				return Resolution{Verdict: VerdictDead}
			}
		}
		return Resolution{Verdict: VerdictSafe}

	case TerrainWater:
		for i := range hazards.Row(row) {
			raft := &hazards.Row(row)[i]
			if InRange(left, raft.Left(), raft.Right()) && InRange(right, raft.Left(), raft.Right()) {
				carry := raft.Velocity()
				player.X += carry
				return Resolution{Verdict: VerdictRiding, Carry: carry}
			}
		}
		return Resolution{Verdict: VerdictDead}

	default:
		return Resolution{Verdict: VerdictSafe}
	}
}
