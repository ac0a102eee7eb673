package frogger

import "github.com/vovakirdan/tui-frogger/internal/core"

// Terrain fill colors.
const (
	GrassColor  = core.ColorGreen2
	WaterColor  = core.ColorBlue
	RoadColor   = core.ColorBlack
	BorderColor = core.ColorGray

	// RidingColor is the background a frog carries on water rows: the log it stands on.
	RidingColor = core.ColorBrown
)

var (
	frogBitmapUp = NewBitmap(2,
		"##......##",
		"##.####.##",
		".########.",
		"..#.##.#..",
		"..######..",
		".########.",
		"##.####.##",
		"#..####..#",
		"##......##",
		"##......##",
	)
	frogBitmapRight = frogBitmapUp.Rotate()
	frogBitmapDown  = frogBitmapRight.Rotate()
	frogBitmapLeft  = frogBitmapDown.Rotate()

	carBitmap = NewBitmap(2,
		"...######.....",
		"..#..#...#....",
		".#...#....#...",
		"##############",
		"##############",
		"##############",
		"..##......##..",
		"..##......##..",
		"..............",
	)

	racecarBitmap = NewBitmap(2,
		"#.....###....#",
		"##..#######.##",
		"##############",
		"#############.",
		"##############",
		"##..#######.##",
		"#.....###....#",
	)

	truckBitmap = NewBitmap(2,
		"#########.....",
		"#########.###.",
		"#########.#..#",
		"#########.#..#",
		"#########.####",
		"#########.####",
		"##############",
		"##############",
		"..##......##..",
		"..##......##..",
		"..............",
	)

	logBitmap = NewBitmap(2,
		".###########################.",
		"#############################",
		"####.#######.########.#######",
		"#############################",
		"######.########.#######.#####",
		"#############################",
		"##.########.#######.#########",
		"#############################",
		"#####.#######.########.######",
		"#############################",
		".###########################.",
	)
)

// Sprites. Frog images differ only in bitmap; the remote frog reuses the
// upward bitmap in its own colors.
var (
	FrogUp    = NewImage(frogBitmapUp, core.ColorGreen, RoadColor)
	FrogRight = NewImage(frogBitmapRight, core.ColorGreen, RoadColor)
	FrogDown  = NewImage(frogBitmapDown, core.ColorGreen, RoadColor)
	FrogLeft  = NewImage(frogBitmapLeft, core.ColorGreen, RoadColor)
	Frog2     = NewImage(frogBitmapUp, core.ColorPink, RoadColor)

	Car     = NewImage(carBitmap, core.ColorRed, RoadColor)
	Racecar = NewImage(racecarBitmap, core.ColorYellow, RoadColor)
	Truck   = NewImage(truckBitmap, core.ColorWhite, RoadColor)

	// Log is the canonical log image shared by every log.
	Log = NewImage(logBitmap, core.ColorBrown, WaterColor)
)

// CarImages is the fixed set of road hazard images.
var CarImages = [...]Image{Car, Racecar, Truck}

// FrogImage returns the local frog sprite facing d.
func FrogImage(d core.Direction) Image {
	switch d {
	case core.DirRight:
		return FrogRight
	case core.DirLeft:
		return FrogLeft
	case core.DirDown:
		return FrogDown
	default:
		return FrogUp
	}
}
