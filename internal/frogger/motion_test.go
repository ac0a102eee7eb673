package frogger

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// nopDisplay discards every draw.
type nopDisplay struct {
	images, rects int
}

func (d *nopDisplay) DrawImage(x, width, y, height int, mask core.Mask, fg, bg core.Color) {
	d.images++
}

func (d *nopDisplay) DrawRect(x, width, y, height int, c core.Color) {
	d.rects++
}

func playerAt(col, row int) Entity {
	p := NewPlayer()
	p.PlaceAt(col, row)
	return p
}

func TestIsValidMovePlayer(t *testing.T) {
	for col := 0; col < GridWidth; col++ {
		for row := 0; row < GridHeight; row++ {
			p := playerAt(col, row)
			want := map[core.Direction]bool{
				core.DirRight: p.X+p.Image.Width+p.Move <= RightBorder,
				core.DirUp:    p.Y-p.Move >= TopBorder,
				core.DirLeft:  p.X-p.Move >= LeftBorder,
				core.DirDown:  p.Y+p.Image.Height+p.Move <= BottomBorder,
			}
			for d, ok := range want {
				if got := IsValidMove(&p, d); got != ok {
					t.Errorf("cell (%d,%d) %v: IsValidMove = %v, want %v", col, row, d, got, ok)
				}
			}
		}
	}
}

func TestIsValidMoveEdges(t *testing.T) {
	tests := []struct {
		name     string
		col, row int
		dir      core.Direction
		want     bool
	}{
		{"top row up", 3, 0, core.DirUp, false},
		{"second row up", 3, 1, core.DirUp, true},
		{"bottom row down", 3, GridHeight - 1, core.DirDown, false},
		{"left column left", 0, 5, core.DirLeft, false},
		{"right column right", GridWidth - 1, 5, core.DirRight, false},
		{"middle right", 3, 5, core.DirRight, true},
		{"center", 3, 5, core.DirCenter, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := playerAt(tt.col, tt.row)
			if got := IsValidMove(&p, tt.dir); got != tt.want {
				t.Errorf("IsValidMove = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsValidMoveHazardsAlways(t *testing.T) {
	positions := []int{-100, LeftBorder, RightBorder, 500}
	for _, kind := range []Kind{KindCar, KindLog} {
		for _, x := range positions {
			e := Entity{Kind: kind, X: x, Y: x, Move: 2, Image: Car}
			for _, d := range []core.Direction{core.DirCenter, core.DirUp, core.DirDown, core.DirLeft, core.DirRight} {
				if !IsValidMove(&e, d) {
					t.Errorf("%v at %d: IsValidMove(%v) = false, want true", kind, x, d)
				}
			}
		}
	}
}

func TestAdvancePlayer(t *testing.T) {
	d := &nopDisplay{}
	p := playerAt(3, 9)
	p.Direction = core.DirUp
	if !Advance(&p, d, nil) {
		t.Fatal("move up from the bottom row should succeed")
	}
	if p.Row() != 8 {
		t.Errorf("row = %d, want 8", p.Row())
	}
	if p.X != CellX(3)+XOffset(p.Image) {
		t.Errorf("x = %d, want %d", p.X, CellX(3)+XOffset(p.Image))
	}
	if p.Image.Background != RoadColor {
		t.Errorf("background on road = %v, want %v", p.Image.Background, RoadColor)
	}
	if d.images != 1 {
		t.Errorf("expected one erase, got %d draws", d.images)
	}

	p.Direction = core.DirLeft
	Advance(&p, d, nil)
	if !p.Image.Equal(FrogLeft.WithBackground(RoadColor)) {
		t.Error("sprite should face left after moving left")
	}
}

func TestAdvancePlayerBlocked(t *testing.T) {
	d := &nopDisplay{}
	p := playerAt(0, 9)
	p.Direction = core.DirLeft
	before := p
	if Advance(&p, d, nil) {
		t.Fatal("move off the left edge should be rejected")
	}
	if p.X != before.X || p.Y != before.Y {
		t.Error("rejected move must not change the position")
	}
	if d.images != 0 {
		t.Error("rejected move must not draw")
	}
}

func TestAdvancePlayerOntoWaterBackground(t *testing.T) {
	p := playerAt(2, 4)
	p.Direction = core.DirUp
	Advance(&p, &nopDisplay{}, nil)
	if p.Image.Background != RidingColor {
		t.Errorf("background on water = %v, want %v", p.Image.Background, RidingColor)
	}
}

func TestLogBouncesAtRightBorder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := Entity{Kind: KindLog, Move: 2, Direction: core.DirRight, Image: Log}
	e.X = RightBorder - e.Image.Width - e.Move
	Advance(&e, &nopDisplay{}, rng)

	if e.Direction != core.DirLeft {
		t.Errorf("direction = %v, want left", e.Direction)
	}
	if over := e.Right() - RightBorder; over > 1 {
		t.Errorf("log overshoots the border by %d px", over)
	}
	if e.Move < LogMinMove || e.Move > LogMaxMove {
		t.Errorf("new speed %d outside [%d,%d]", e.Move, LogMinMove, LogMaxMove)
	}
}

func TestLogBouncesAtLeftBorder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e := Entity{Kind: KindLog, Move: 1, Direction: core.DirLeft, Image: Log, X: LeftBorder + 1}
	Advance(&e, &nopDisplay{}, rng)

	if e.Direction != core.DirRight {
		t.Errorf("direction = %v, want right", e.Direction)
	}
	if e.X < LeftBorder-1 {
		t.Errorf("log overshoots the border: x = %d", e.X)
	}
}

func TestCarWraps(t *testing.T) {
	tests := []struct {
		name  string
		dir   core.Direction
		x     int
		wantX int
	}{
		{"right edge", core.DirRight, RightBorder - Car.Width - 2, LeftBorder + 1},
		{"left edge", core.DirLeft, LeftBorder + 2, RightBorder - Car.Width - 1},
		{"middle", core.DirRight, 100, 102},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entity{Kind: KindCar, Move: 2, Direction: tt.dir, Image: Car, X: tt.x}
			Advance(&e, &nopDisplay{}, nil)
			if e.X != tt.wantX {
				t.Errorf("x = %d, want %d", e.X, tt.wantX)
			}
			if e.Direction != tt.dir {
				t.Errorf("cars never turn, direction = %v", e.Direction)
			}
		})
	}
}
