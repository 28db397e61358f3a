package nav

import (
	"context"
	"testing"
	"time"

	"navgrid/pkg/alg"
)

func TestAgentNavigateAndTick(t *testing.T) {
	grid := testGrid(5, 100, 0)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 4, 0, 0)
	mover := &testMover{id: 1, pos: start.Position()}
	agent := NewAgent(grid, mover, NewPathBuilder(grid).WithoutSimplification(), 0)

	if agent.Tick(context.Background(), time.Now()) != nil {
		t.Fatal("an idle agent must not advance")
	}
	if !agent.NavigateTo(context.Background(), target) {
		t.Fatal("expected a route to the target")
	}
	if agent.HasArrived() {
		t.Fatal("agent must not be arrived right after planning")
	}

	// Walk the route by teleporting onto each returned waypoint.
	for i := 0; i < 32; i++ {
		next := agent.Tick(context.Background(), time.Now())
		if next == nil {
			break
		}
		mover.pos = next.Position()
	}
	if !agent.HasArrived() {
		t.Fatal("agent must arrive after walking every waypoint")
	}
	if alg.SqrDist2D(mover.pos, target.Position()) > 1 {
		t.Fatalf("agent stopped away from the target at %v", mover.pos)
	}
}

func TestAgentArrivalTolerance(t *testing.T) {
	grid := testGrid(3, 100, 0)
	start := cellAt(t, grid, 0, 0, 0)
	target := cellAt(t, grid, 1, 0, 0)
	// The mover straddles the cell border, within tolerance of both.
	between := start.Position().Add(target.Position()).Mul(0.5)
	mover := &testMover{id: 1, pos: between}
	agent := NewAgent(grid, mover, NewPathBuilder(grid), 0)

	if !agent.NavigateTo(context.Background(), target) {
		t.Fatal("expected a route to the adjacent cell")
	}
	// Within cellSize/2 + stepSize of every waypoint already.
	if next := agent.Tick(context.Background(), time.Now()); next != nil {
		t.Fatalf("expected immediate arrival, agent wants %v", next.GridPosition())
	}
	if !agent.HasArrived() {
		t.Fatal("agent must report arrival")
	}
}

func TestAgentCurrentMoveTag(t *testing.T) {
	grid := NewGrid(testSettings(100))
	upper := addFlatCell(grid, 0, 0, 300)
	lower := addFlatCell(grid, 3, 0, 0)
	upper.AddConnection(lower, TagDrop)
	mover := &testMover{id: 1, pos: upper.Position()}
	builder := NewPathBuilder(grid).WithConnections().WithoutSimplification()
	agent := NewAgent(grid, mover, builder, 0)

	if !agent.NavigateTo(context.Background(), lower) {
		t.Fatal("expected a route over the drop connection")
	}
	next := agent.Tick(context.Background(), time.Now())
	if next != lower {
		t.Fatalf("expected the drop landing as next cell, got %v", next)
	}
	if agent.CurrentMoveTag() != TagDrop {
		t.Fatalf("expected the drop move tag, got %q", agent.CurrentMoveTag())
	}
}

func TestAgentNavigateToNil(t *testing.T) {
	grid := testGrid(2, 100, 0)
	mover := &testMover{id: 1, pos: cellAt(t, grid, 0, 0, 0).Position()}
	agent := NewAgent(grid, mover, NewPathBuilder(grid), 0)
	if agent.NavigateTo(context.Background(), nil) {
		t.Fatal("navigation to a nil cell must fail")
	}
}

func TestRefreshOccupancy(t *testing.T) {
	grid := testGrid(3, 100, 0)
	a := cellAt(t, grid, 0, 0, 0)
	b := cellAt(t, grid, 2, 2, 0)
	mover := &testMover{id: 1, pos: a.Position()}

	grid.RefreshOccupancy([]Occupant{mover})
	if !a.IsOccupied() || b.IsOccupied() {
		t.Fatal("occupancy must mark exactly the mover's cell")
	}

	mover.pos = b.Position()
	grid.RefreshOccupancy([]Occupant{mover})
	if a.IsOccupied() || !b.IsOccupied() {
		t.Fatal("occupancy must follow the mover between refreshes")
	}
}
