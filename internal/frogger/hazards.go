package frogger

import (
	"math/rand"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// Hazards holds every car and log, one slice per hazard row.
// Index 0 is grid row 1, the first water row.
type Hazards struct {
	rows [HazardRows][]Entity
}

// Row returns the hazards on a grid row, or nil for grass rows.
func (h *Hazards) Row(gridRow int) []Entity {
	if gridRow < 1 || gridRow > HazardRows {
		return nil
	}
	return h.rows[gridRow-1]
}

// Each calls fn for every hazard, top row first.
func (h *Hazards) Each(fn func(e *Entity)) {
	for i := range h.rows {
		for j := range h.rows[i] {
			fn(&h.rows[i][j])
		}
	}
}

// Count returns the number of hazards.
func (h *Hazards) Count() int {
	n := 0
	for i := range h.rows {
		n += len(h.rows[i])
	}
	return n
}

// Populate lays out a fresh set of hazards for a round.
//
// Each row gets one random direction. Water rows carry logs; each road row
// draws one car image for all its cars. The middle hazard of a row goes to
// a random x and its siblings sit at multiples of (spacing + width) from
// it, where spacing splits the free width evenly. Positions that fall off
// the playfield wrap to the opposite side. Every hazard draws its own speed.
func Populate(rng *rand.Rand) Hazards {
	var h Hazards
	for i := 0; i < HazardRows; i++ {
		xmid := RandomInRange(rng, LeftBorder, RightBorder)
		dir := core.DirLeft
		if RandomInRange(rng, 1, 100)%2 == 1 {
			dir = core.DirRight
		}

		kind, count, img := KindCar, CarsPerRow, Image{}
		minMove, maxMove := CarMinMove, CarMaxMove
		if i < WaterRows {
			kind, count, img = KindLog, LogsPerRow, Log
			minMove, maxMove = LogMinMove, LogMaxMove
		} else {
			img = CarImages[RandomInRange(rng, 1, 100)%len(CarImages)]
		}

		spacing := (PlayfieldWidth - count*img.Width) / count
		mid := count / 2
		row := make([]Entity, count)
		for j := range row {
			x := wrapSpawn(xmid+(j-mid)*(spacing+img.Width), img.Width)
			row[j] = Entity{
				Kind:      kind,
				X:         x,
				Y:         CellY(i+1) + YOffset(img),
				Move:      RandomInRange(rng, minMove, maxMove+1),
				Direction: dir,
				Image:     img,
			}
		}
		h.rows[i] = row
	}
	return h
}

// wrapSpawn folds a spawn x back inside [LeftBorder, RightBorder-width].
func wrapSpawn(x, width int) int {
	if x < LeftBorder {
		x += PlayfieldWidth
	}
	if limit := RightBorder - width; x > limit {
		x = LeftBorder + x - limit
	}
	return x
}
