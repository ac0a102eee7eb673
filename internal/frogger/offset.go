package frogger

import "github.com/vovakirdan/tui-frogger/internal/core"

// CorrectOffset snaps e onto the nearest grid cell and re-applies the
// image's centering offsets. Rounding compares the position against the
// left and right edges of the enclosing cell; the result never leaves the
// grid. Calling it twice is the same as calling it once.
func CorrectOffset(e *Entity) {
	e.X = snap(e.X-XOffset(e.Image), LeftBorder, GridWidth) + XOffset(e.Image)
	e.Y = snap(e.Y-YOffset(e.Image), TopBorder, GridHeight) + YOffset(e.Image)
}

// snap rounds a cell-anchored coordinate to the closest cell edge.
func snap(v, origin, cells int) int {
	idx := floorDiv(v-origin, GridSize)
	left := origin + idx*GridSize
	right := left + GridSize
	if v-left > right-v {
		idx++
	}
	idx = core.Clamp(idx, 0, cells-1)
	return origin + idx*GridSize
}

// TerrainColor returns the fill color of a row's terrain.
func TerrainColor(row int) core.Color {
	switch TerrainOf(row) {
	case TerrainGrass:
		return GrassColor
	case TerrainWater:
		return WaterColor
	default:
		return RoadColor
	}
}

// CorrectBackground sets the image background for the row e occupies so
// that erasing it paints terrain instead of a black box. On water the frog
// is standing on a log, so it takes the log's color.
func CorrectBackground(e *Entity) {
	switch TerrainOf(e.Row()) {
	case TerrainGrass:
		e.Image.Background = GrassColor
	case TerrainWater:
		e.Image.Background = RidingColor
	default:
		e.Image.Background = RoadColor
	}
}
