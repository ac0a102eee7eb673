package frogger

import (
	"testing"

	"github.com/vovakirdan/tui-frogger/internal/core"
)

// spanImage is a bare image used to pin exact spans in collision tests.
func spanImage(width int) Image {
	return Image{Width: width, Height: 18}
}

func withRow(row int, hazards ...Entity) *Hazards {
	h := &Hazards{}
	h.rows[row-1] = hazards
	return h
}

func TestResolveRoadCollision(t *testing.T) {
	const row = 5
	tests := []struct {
		name       string
		carX, carW int
		want       Verdict
	}{
		{"left edge inside player", 110, 20, VerdictDead},
		{"right edge inside player", 90, 20, VerdictDead},
		{"touching on the right", 120, 20, VerdictDead},
		{"clear to the right", 121, 20, VerdictSafe},
		{"clear to the left", 60, 20, VerdictSafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := Entity{Kind: KindFrog, IsPlayer: true, X: 100, Y: CellY(row) + 5, Image: spanImage(20)}
			car := Entity{Kind: KindCar, X: tt.carX, Y: CellY(row) + 6, Image: spanImage(tt.carW)}
			res := Resolve(&player, withRow(row, car))
			if res.Verdict != tt.want {
				t.Errorf("verdict = %v, want %v", res.Verdict, tt.want)
			}
			if player.X != 100 {
				t.Errorf("road rows must not move the player, x = %d", player.X)
			}
		})
	}
}

// A car wider than the player with both edges outside its span is not
// detected. The rectangles overlap; the edge-in-span rule misses it.
func TestResolveEnclosingCarNotDetected(t *testing.T) {
	const row = 6
	player := Entity{Kind: KindFrog, IsPlayer: true, X: 100, Y: CellY(row) + 5, Image: spanImage(20)}
	car := Entity{Kind: KindCar, X: 50, Y: CellY(row) + 5, Image: spanImage(130)}

	if car.Left() >= player.Left() || car.Right() <= player.Right() {
		t.Fatal("setup: car span [50,180] should enclose [100,120]")
	}
	if res := Resolve(&player, withRow(row, car)); res.Verdict != VerdictSafe {
		t.Errorf("verdict = %v, want %v (edge-in-span rule)", res.Verdict, VerdictSafe)
	}
}

func TestResolveLogRide(t *testing.T) {
	tests := []struct {
		name  string
		dir   core.Direction
		move  int
		carry int
	}{
		{"right", core.DirRight, 2, 2},
		{"left", core.DirLeft, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const row = 2
			player := Entity{Kind: KindFrog, IsPlayer: true, X: 100, Y: CellY(row) + 5, Image: spanImage(20)}
			raft := Entity{Kind: KindLog, X: 90, Y: CellY(row) + 4, Move: tt.move, Direction: tt.dir, Image: spanImage(60)}
			hazards := withRow(row, raft)

			res := Resolve(&player, hazards)
			if res.Verdict != VerdictRiding || !res.Alive() {
				t.Fatalf("verdict = %v, want riding", res.Verdict)
			}
			if res.Carry != tt.carry || player.X != 100+tt.carry {
				t.Errorf("carry = %d x = %d, want %d and %d", res.Carry, player.X, tt.carry, 100+tt.carry)
			}
			if hazards.Row(row)[0].X != 90 {
				t.Error("resolver must not move hazards")
			}
		})
	}
}

func TestResolveDrowns(t *testing.T) {
	const row = 1
	player := Entity{Kind: KindFrog, IsPlayer: true, X: 100, Y: CellY(row) + 5, Image: spanImage(20)}
	// Overhangs the log's left end.
	raft := Entity{Kind: KindLog, X: 105, Y: CellY(row) + 4, Move: 1, Direction: core.DirRight, Image: spanImage(60)}

	res := Resolve(&player, withRow(row, raft))
	if res.Alive() {
		t.Errorf("verdict = %v, want dead", res.Verdict)
	}
}

func TestResolveGrassIsSafe(t *testing.T) {
	for _, row := range []int{0, GridHeight - 1} {
		player := playerAt(3, row)
		if res := Resolve(&player, &Hazards{}); res.Verdict != VerdictSafe {
			t.Errorf("row %d: verdict = %v, want safe", row, res.Verdict)
		}
	}
}
