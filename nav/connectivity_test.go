package nav

import (
	"testing"

	"navgrid/pkg/alg"
)

// plateauGrid is an upper 2x2 floor at dropHeight next to a lower 2x2
// floor at zero, one empty ring apart so they are not neighbours.
func plateauGrid(cellSize, dropHeight float32) (*Grid, *Cell, *Cell) {
	grid := NewGrid(testSettings(cellSize))
	var upper, lower *Cell
	for y := int32(0); y < 2; y++ {
		for x := int32(0); x < 2; x++ {
			cell := addFlatCell(grid, x, y, dropHeight)
			if x == 1 && y == 0 {
				upper = cell
			}
		}
	}
	for y := int32(0); y < 2; y++ {
		for x := int32(3); x < 5; x++ {
			cell := addFlatCell(grid, x, y, 0)
			if x == 3 && y == 0 {
				lower = cell
			}
		}
	}
	return grid, upper, lower
}

// plateauProbe models the plateau terrain: high ground under the upper
// floor, low ground everywhere else.
func plateauProbe(dropHeight float32) *testProbe {
	return &testProbe{ground: func(x, y float32) (float32, bool) {
		if x < 200 {
			return dropHeight, true
		}
		return 0, true
	}}
}

func TestAssignEdgeCells(t *testing.T) {
	grid := testGrid(3, 100, 0)
	builder := NewConnectivityBuilder(grid, &testProbe{})
	builder.AssignEdgeCells(8)

	center := grid.GetCell(alg.IntVec2{X: 1, Y: 1}, 0)
	if center.HasTag(TagEdge) {
		t.Fatal("interior cell must not be tagged as edge")
	}
	corner := grid.GetCell(alg.IntVec2{X: 0, Y: 0}, 0)
	if !corner.HasTag(TagEdge) {
		t.Fatal("boundary cell must be tagged as edge")
	}
}

func TestAssignDroppableCells(t *testing.T) {
	grid, upper, lower := plateauGrid(100, 300)
	builder := NewConnectivityBuilder(grid, plateauProbe(300))
	builder.AssignEdgeCells(8)
	builder.AssignDroppableCells()

	if !upper.HasConnectionTo(lower) {
		t.Fatal("expected a drop connection onto the lower plateau")
	}
	found := false
	for _, connection := range upper.Connections() {
		if connection.Target == lower && connection.Tag == TagDrop {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the connection to carry the drop tag")
	}
	// Drops are one-way.
	if lower.HasConnectionTo(upper) {
		t.Fatal("drop connections must not be generated upward")
	}
}

func TestAssignDroppableCellsTooHigh(t *testing.T) {
	grid, upper, lower := plateauGrid(100, 500)
	builder := NewConnectivityBuilder(grid, plateauProbe(500))
	builder.AssignEdgeCells(8)
	builder.AssignDroppableCells()

	if upper.HasConnectionTo(lower) {
		t.Fatal("a drop beyond the maximum drop height must be rejected")
	}
}

func TestAssignDroppableCellsStepIgnored(t *testing.T) {
	grid := NewGrid(testSettings(100))
	a := addFlatCell(grid, 0, 0, 10)
	b := addFlatCell(grid, 2, 0, 0)
	builder := NewConnectivityBuilder(grid, &testProbe{})
	builder.AssignEdgeCells(8)
	builder.AssignDroppableCells()

	// A height difference within the step tolerance is plain walking.
	if a.HasConnectionTo(b) {
		t.Fatal("a drop within step tolerance must be rejected")
	}
}

func TestAssignDroppableCellsBlocked(t *testing.T) {
	grid, upper, lower := plateauGrid(100, 300)
	// A solid slab fills the space between the plateaus.
	probe := plateauProbe(300)
	probe.solids = []alg.BBox{
		alg.NewBBox(
			[3]float32{upper.Position().X() + 50, -1000, -50},
			[3]float32{upper.Position().X() + 150, 1000, 400},
		),
	}
	builder := NewConnectivityBuilder(grid, probe)
	builder.AssignEdgeCells(8)
	builder.AssignDroppableCells()

	if upper.HasConnectionTo(lower) {
		t.Fatal("an obstructed drop must be rejected")
	}
}

func TestAssignJumpableCells(t *testing.T) {
	grid, upper, _ := plateauGrid(100, 300)
	builder := NewConnectivityBuilder(grid, plateauProbe(300))
	builder.AssignEdgeCells(8)
	builder.AssignJumpableCells(TagJump, 200, 300, 980, 1.0)

	found := false
	for _, connection := range upper.Connections() {
		if connection.Tag == TagJump {
			found = true
		}
	}
	if !found {
		t.Fatal("expected at least one jump connection off the plateau edge")
	}
}

func TestAssignJumpableCellsDisabled(t *testing.T) {
	grid, upper, _ := plateauGrid(100, 300)
	builder := NewConnectivityBuilder(grid, plateauProbe(300))
	builder.AssignEdgeCells(8)
	builder.AssignJumpableCells(TagJump, 200, 300, 980, 0)

	if len(upper.Connections()) != 0 {
		t.Fatal("a zero generate fraction must produce no jumps")
	}
}
