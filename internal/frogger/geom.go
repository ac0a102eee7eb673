// Package frogger is the per-tick engine of the two-board Frogger game:
// hazard motion, player movement, collision and log riding, the 32-bit
// position sync with the peer board, and the round state machine that
// drives them.
//
// The engine is single threaded. A front end calls Session.Step once per
// poll tick and provides the display, input, link and LED collaborators.
package frogger

import (
	"math/rand"
)

// Board geometry in LCD pixels.
const (
	LCDWidth  = 240
	LCDHeight = 320

	GridSize   = 30 // Width and height of one cell
	GridWidth  = 7  // Columns
	GridHeight = 10 // Rows

	PlayfieldWidth  = GridWidth * GridSize
	PlayfieldHeight = GridHeight * GridSize

	TopBorder    = (LCDHeight - PlayfieldHeight) / 2
	LeftBorder   = (LCDWidth - PlayfieldWidth) / 2
	RightBorder  = LeftBorder + PlayfieldWidth
	BottomBorder = TopBorder + PlayfieldHeight
)

// Row layout. Row 0 and the last row are grass, then WaterRows rows of
// water, then road up to the bottom grass row.
const (
	WaterRows  = 3
	CarRows    = GridHeight - WaterRows - 2
	HazardRows = WaterRows + CarRows

	LogsPerRow = 1
	CarsPerRow = 1
)

// Speeds in pixels per tick, inclusive ranges.
const (
	LogMinMove = 1
	LogMaxMove = 2
	CarMinMove = 1
	CarMaxMove = 2

	PlayerMove = GridSize
)

// Terrain classifies a grid row.
type Terrain int

const (
	TerrainGrass Terrain = iota
	TerrainWater
	TerrainRoad
)

// String returns the terrain name.
func (t Terrain) String() string {
	switch t {
	case TerrainGrass:
		return "grass"
	case TerrainWater:
		return "water"
	default:
		return "road"
	}
}

// TerrainOf returns the terrain of a grid row. Rows outside the grid count
// as grass, which is never checked for collisions.
func TerrainOf(row int) Terrain {
	switch {
	case row <= 0 || row >= GridHeight-1:
		return TerrainGrass
	case row <= WaterRows:
		return TerrainWater
	default:
		return TerrainRoad
	}
}

// InRange reports whether lo <= v <= hi.
func InRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// RandomInRange returns a uniform integer in [lo, hi). It panics when
// hi <= lo, the same contract rand.Intn has.
func RandomInRange(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo)
}

// CenteringOffset is the offset that centers a dimension inside a cell.
// It is negative for images larger than a cell.
func CenteringOffset(dim int) int {
	return (GridSize - dim) / 2
}

// XOffset returns the horizontal centering offset of an image.
func XOffset(img Image) int { return CenteringOffset(img.Width) }

// YOffset returns the vertical centering offset of an image.
func YOffset(img Image) int { return CenteringOffset(img.Height) }

// RowOf converts a pixel y coordinate to a grid row.
func RowOf(y int) int {
	return floorDiv(y-TopBorder, GridSize)
}

// ColumnOf converts a pixel x coordinate to a grid column.
func ColumnOf(x int) int {
	return floorDiv(x-LeftBorder, GridSize)
}

// CellX returns the pixel x of a column's left edge.
func CellX(col int) int { return LeftBorder + col*GridSize }

// CellY returns the pixel y of a row's top edge.
func CellY(row int) int { return TopBorder + row*GridSize }

// InPlayfield reports whether a pixel position lies inside the playfield.
func InPlayfield(x, y int) bool {
	return x >= LeftBorder && x < RightBorder && y >= TopBorder && y < BottomBorder
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
