package nav

import (
	"context"
	"testing"

	"navgrid/pkg/alg"
)

func cellAt(t *testing.T, grid *Grid, x, y int32, height float32) *Cell {
	t.Helper()
	cell := grid.GetCell(alg.IntVec2{X: x, Y: y}, height)
	if cell == nil {
		t.Fatalf("no cell at (%v, %v)", x, y)
	}
	return cell
}

func TestFindPathNilCell(t *testing.T) {
	grid := testGrid(2, 100, 0)
	finder := &PathFinder{Grid: grid}
	_, err := finder.FindPath(context.Background(), nil, cellAt(t, grid, 0, 0, 0))
	if err != ErrInvalidCell {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
}

func TestFindPathSameCell(t *testing.T) {
	grid := testGrid(2, 100, 0)
	cell := cellAt(t, grid, 0, 0, 0)
	finder := &PathFinder{Grid: grid}
	waypoints, err := finder.FindPath(context.Background(), cell, cell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 1 || waypoints[0].Cell != cell {
		t.Fatalf("expected the single-cell path, got %v waypoints", len(waypoints))
	}
}

func TestFindPathDiagonal(t *testing.T) {
	grid := testGrid(5, 100, 0)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 4, 4, 0)
	finder := &PathFinder{Grid: grid}
	waypoints, err := finder.FindPath(context.Background(), start, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Diagonal steps make this the shortest possible route.
	if len(waypoints) != 5 {
		t.Fatalf("expected 5 waypoints, got %v", len(waypoints))
	}
	if waypoints[0].Cell != start || waypoints[len(waypoints)-1].Cell != target {
		t.Fatal("path endpoints mismatch")
	}
}

// wallGrid is a 5x5 floor with column x=2 occupied, optionally leaving
// a gap at y=4.
func wallGrid(withGap bool) *Grid {
	grid := testGrid(5, 100, 0)
	for y := int32(0); y < 5; y++ {
		if withGap && y == 4 {
			continue
		}
		cell := grid.GetCell(alg.IntVec2{X: 2, Y: y}, 0)
		cell.SetOccupant(&testMover{id: uint32(100 + y), pos: cell.Position()})
	}
	return grid
}

func TestFindPathAroundWall(t *testing.T) {
	grid := wallGrid(true)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 4, 0, 0)
	finder := &PathFinder{Grid: grid}
	waypoints, err := finder.FindPath(context.Background(), start, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) == 0 {
		t.Fatal("expected a path through the gap")
	}
	for _, waypoint := range waypoints {
		if waypoint.Cell.IsOccupied() {
			t.Fatalf("path crosses occupied cell %v", waypoint.Cell.GridPosition())
		}
	}
}

func TestFindPathBlockedWall(t *testing.T) {
	grid := wallGrid(false)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 4, 0, 0)
	finder := &PathFinder{Grid: grid}
	waypoints, err := finder.FindPath(context.Background(), start, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 0 {
		t.Fatalf("expected no path through a closed wall, got %v waypoints", len(waypoints))
	}
}

func TestFindPathPartial(t *testing.T) {
	grid := wallGrid(false)
	start := cellAt(t, grid, 0, 2, 0)
	target := cellAt(t, grid, 4, 2, 0)
	finder := &PathFinder{Grid: grid, PartialEnabled: true}
	waypoints, err := finder.FindPath(context.Background(), start, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) < 2 {
		t.Fatalf("expected a truncated path toward the wall, got %v waypoints", len(waypoints))
	}
	last := waypoints[len(waypoints)-1].Cell
	if last == target {
		t.Fatal("partial path must not reach the blocked target")
	}
	// The closest reachable column sits right before the wall.
	if last.GridPosition().X != 1 {
		t.Fatalf("expected the path to stop at column 1, got %v", last.GridPosition())
	}
}

func TestFindPathCancelled(t *testing.T) {
	grid := testGrid(5, 100, 0)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 4, 4, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	finder := &PathFinder{Grid: grid}
	waypoints, err := finder.FindPath(ctx, start, target)
	if err != nil {
		t.Fatalf("cancellation must not surface an error, got %v", err)
	}
	if len(waypoints) != 0 {
		t.Fatalf("cancellation must yield an empty result, got %v waypoints", len(waypoints))
	}
}

func TestFindPathMaxDistance(t *testing.T) {
	grid := testGrid(5, 100, 0)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 4, 0, 0)

	finder := &PathFinder{Grid: grid, MaxDistance: 150}
	waypoints, err := finder.FindPath(context.Background(), start, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 0 {
		t.Fatalf("expected the cutoff to block the route, got %v waypoints", len(waypoints))
	}

	finder = &PathFinder{Grid: grid, MaxDistance: 1000}
	waypoints, err = finder.FindPath(context.Background(), start, target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) == 0 {
		t.Fatal("expected a path within a generous cutoff")
	}
}

func TestFindPathWithConnections(t *testing.T) {
	grid := NewGrid(testSettings(100))
	upper := addFlatCell(grid, 0, 0, 300)
	lower := addFlatCell(grid, 3, 0, 0)
	upper.AddConnection(lower, TagDrop)

	finder := &PathFinder{Grid: grid}
	waypoints, err := finder.FindPath(context.Background(), upper, lower)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 0 {
		t.Fatal("connections must be ignored unless enabled")
	}

	finder = &PathFinder{Grid: grid, WithConnections: true}
	waypoints, err = finder.FindPath(context.Background(), upper, lower)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) != 2 {
		t.Fatalf("expected the two-waypoint drop route, got %v", len(waypoints))
	}
	if waypoints[1].Tag != TagDrop {
		t.Fatalf("expected the drop tag on the landing waypoint, got %q", waypoints[1].Tag)
	}
}

func TestFindPathReversed(t *testing.T) {
	grid := testGrid(5, 100, 0)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 4, 4, 0)
	finder := &PathFinder{Grid: grid, Reversed: true}
	waypoints, err := finder.FindPath(context.Background(), target, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(waypoints) == 0 {
		t.Fatal("expected a path")
	}
	if waypoints[0].Cell != start || waypoints[len(waypoints)-1].Cell != target {
		t.Fatal("reversed search must come out oriented start to target")
	}
}
