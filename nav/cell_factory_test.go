package nav

import (
	"testing"

	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

func flatProbe(height float32) *testProbe {
	return &testProbe{ground: func(x, y float32) (float32, bool) {
		return height, true
	}}
}

func TestTryCreateCellFlat(t *testing.T) {
	grid := NewGrid(testSettings(100))
	factory := NewCellFactory(grid, flatProbe(0))

	position := alg.WithZ(grid.CoordToWorld(alg.IntVec2{X: 0, Y: 0}), 0)
	cell := factory.TryCreateCell(position)
	if cell == nil {
		t.Fatal("expected a cell on flat ground")
	}
	if cell.GridPosition() != (alg.IntVec2{X: 0, Y: 0}) {
		t.Fatalf("unexpected grid position %v", cell.GridPosition())
	}
	if cell.Height() != 0 {
		t.Fatalf("expected cell height 0, got %v", cell.Height())
	}
	if cell.HasTag(TagStep) {
		t.Fatal("flat ground must not be tagged as step")
	}
}

func TestTryCreateCellStartedSolid(t *testing.T) {
	grid := NewGrid(testSettings(100))
	factory := NewCellFactory(grid, flatProbe(0))

	// The whole sampling band sits under the ground.
	position := alg.WithZ(grid.CoordToWorld(alg.IntVec2{X: 0, Y: 0}), -500)
	if cell := factory.TryCreateCell(position); cell != nil {
		t.Fatal("a sample starting inside the ground must be rejected")
	}
}

func TestTryCreateCellNoGround(t *testing.T) {
	grid := NewGrid(testSettings(100))
	factory := NewCellFactory(grid, &testProbe{})

	position := alg.WithZ(grid.CoordToWorld(alg.IntVec2{X: 0, Y: 0}), 0)
	if cell := factory.TryCreateCell(position); cell != nil {
		t.Fatal("a void sample must be rejected")
	}
}

func TestTryCreateCellLowCeiling(t *testing.T) {
	grid := NewGrid(testSettings(100))
	// The slab hangs over the footprint center, clear of the corner
	// sample columns.
	probe := flatProbe(0)
	probe.solids = []alg.BBox{
		alg.NewBBox(mgl32.Vec3{25, 25, 30}, mgl32.Vec3{75, 75, 60}),
	}
	factory := NewCellFactory(grid, probe)

	position := alg.WithZ(grid.CoordToWorld(alg.IntVec2{X: 0, Y: 0}), 0)
	if cell := factory.TryCreateCell(position); cell != nil {
		t.Fatal("a sample without vertical clearance must be rejected")
	}
}

func TestTryCreateCellSteepSlope(t *testing.T) {
	grid := NewGrid(testSettings(100))
	// A 61 degree ramp, well past the standable angle.
	probe := &testProbe{ground: func(x, y float32) (float32, bool) {
		return 1.8 * x, true
	}}
	factory := NewCellFactory(grid, probe)

	position := alg.WithZ(grid.CoordToWorld(alg.IntVec2{X: 0, Y: 0}), 90)
	if cell := factory.TryCreateCell(position); cell != nil {
		t.Fatal("a slope past the standable angle must be rejected")
	}
}

func TestTryCreateCellGentleSlope(t *testing.T) {
	grid := NewGrid(testSettings(100))
	// A 22 degree ramp, comfortably standable.
	probe := &testProbe{ground: func(x, y float32) (float32, bool) {
		return 0.4 * x, true
	}}
	factory := NewCellFactory(grid, probe)

	position := alg.WithZ(grid.CoordToWorld(alg.IntVec2{X: 0, Y: 0}), 20)
	cell := factory.TryCreateCell(position)
	if cell == nil {
		t.Fatal("expected a cell on a standable slope")
	}
	if cell.HasTag(TagStep) {
		t.Fatal("a plain slope must not be tagged as step")
	}
}

func TestTryCreateCellStairRiser(t *testing.T) {
	grid := NewGrid(testSettings(100))
	// A single tall vertical riser through the footprint.
	probe := &testProbe{ground: func(x, y float32) (float32, bool) {
		if x < 75 {
			return 0, true
		}
		return 120, true
	}}
	factory := NewCellFactory(grid, probe)

	position := alg.WithZ(grid.CoordToWorld(alg.IntVec2{X: 0, Y: 0}), 60)
	cell := factory.TryCreateCell(position)
	if cell == nil {
		t.Fatal("expected a step cell across the riser")
	}
	if !cell.HasTag(TagStep) {
		t.Fatal("a riser footprint must be tagged as step")
	}
}
