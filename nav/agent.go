package nav

import (
	"context"
	"time"

	"navgrid/pkg/alg"
)

// Agent drives a mover along a built path. It owns no clock and no
// movement integration; the caller ticks it with the current time and
// moves the mover toward the returned waypoint.
type Agent struct {
	grid            *Grid
	mover           Occupant
	builder         *PathBuilder
	retraceInterval time.Duration
	path            *Path
	waypointIndex   int
	currentMoveTag  string
	target          *Cell
	arrived         bool
	lastTraceTime   time.Time
}

func NewAgent(grid *Grid, mover Occupant, builder *PathBuilder, retraceInterval time.Duration) (r *Agent) {
	r = new(Agent)
	r.grid = grid
	r.mover = mover
	r.builder = builder
	r.retraceInterval = retraceInterval
	r.arrived = true
	return r
}

func (a *Agent) HasArrived() bool {
	return a.arrived
}

// CurrentMoveTag is the movement tag of the edge the agent is currently
// traversing, empty for plain walking.
func (a *Agent) CurrentMoveTag() string {
	return a.currentMoveTag
}

func (a *Agent) Path() *Path {
	return a.path
}

// NavigateTo plans a path from the mover's current cell to target and
// reports whether any path was found.
func (a *Agent) NavigateTo(ctx context.Context, target *Cell) bool {
	if target == nil {
		return false
	}
	start := a.grid.GetNearestCell(a.mover.Position(), false, false)
	if start == nil {
		return false
	}
	path, err := a.builder.RunAsync(ctx, start, target)
	if err != nil || path.IsEmpty() {
		return false
	}
	a.path = path
	a.waypointIndex = 0
	a.currentMoveTag = ""
	a.target = target
	a.arrived = false
	a.lastTraceTime = time.Now()
	return true
}

// arrivalToleranceSqr is the squared distance within which a waypoint
// counts as reached.
func (a *Agent) arrivalToleranceSqr() float32 {
	tolerance := a.grid.Settings().CellSize/2.0 + a.grid.Settings().StepSize
	return tolerance * tolerance
}

// Tick advances the waypoint index past every waypoint already within
// arrival tolerance of the mover and returns the cell to move toward,
// nil once the path is exhausted. Paths staler than the retrace
// interval are re-planned toward the original target before advancing.
func (a *Agent) Tick(ctx context.Context, now time.Time) *Cell {
	if a.arrived || a.path == nil {
		return nil
	}
	if a.retraceInterval > 0 && now.Sub(a.lastTraceTime) > a.retraceInterval {
		a.lastTraceTime = now
		if !a.NavigateTo(ctx, a.target) {
			a.arrived = true
			a.path = nil
			return nil
		}
	}
	position := a.mover.Position()
	for a.waypointIndex < a.path.Count() {
		waypoint := a.path.Waypoint(a.waypointIndex)
		if alg.SqrDist(position, waypoint.Cell.Position()) > a.arrivalToleranceSqr() {
			a.currentMoveTag = waypoint.Tag
			return waypoint.Cell
		}
		a.waypointIndex++
	}
	a.arrived = true
	a.currentMoveTag = ""
	a.path = nil
	return nil
}

// RefreshOccupancy re-derives the occupied flag of every cell from the
// live mover list. It runs on the producer's cadence; readers tolerate
// the staleness window between passes.
func (g *Grid) RefreshOccupancy(moverList []Occupant) {
	g.ForEachCell(func(cell *Cell) {
		cell.SetOccupant(nil)
	})
	for _, mover := range moverList {
		cell := g.GetCellAt(mover.Position())
		if cell == nil {
			continue
		}
		cell.SetOccupant(mover)
	}
}
