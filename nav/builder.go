package nav

import (
	"context"
)

// Path is an ordered waypoint sequence together with the configuration
// that produced it. It is immutable once handed to the consumer except
// for the in-place simplification pass run before handoff.
type Path struct {
	grid        *Grid
	creator     Occupant
	maxDistance float32
	waypoints   []Waypoint
}

func (p *Path) Grid() *Grid {
	return p.grid
}

func (p *Path) Creator() Occupant {
	return p.creator
}

func (p *Path) MaxDistance() float32 {
	return p.maxDistance
}

func (p *Path) Waypoints() []Waypoint {
	return p.waypoints
}

func (p *Path) Count() int {
	return len(p.waypoints)
}

func (p *Path) IsEmpty() bool {
	return len(p.waypoints) == 0
}

func (p *Path) Waypoint(i int) Waypoint {
	return p.waypoints[i]
}

func (p *Path) First() Waypoint {
	return p.waypoints[0]
}

func (p *Path) Last() Waypoint {
	return p.waypoints[len(p.waypoints)-1]
}

// PathBuilder is the configuration facade composing the finder and the
// simplifier.
type PathBuilder struct {
	grid                *Grid
	creator             Occupant
	partialEnabled      bool
	maxDistance         float32
	withConnections     bool
	simplifyDisabled    bool
	simplifySegmentSize int
	simplifyIterations  int
}

func NewPathBuilder(grid *Grid) *PathBuilder {
	b := new(PathBuilder)
	b.grid = grid
	b.simplifySegmentSize = 2
	b.simplifyIterations = 8
	return b
}

// WithPathCreator exempts the requesting mover from its own occupancy
// during the search and the line-of-sight checks.
func (b *PathBuilder) WithPathCreator(creator Occupant) *PathBuilder {
	b.creator = creator
	return b
}

// WithPartialEnabled returns a best-effort truncated path when the
// target is unreachable.
func (b *PathBuilder) WithPartialEnabled() *PathBuilder {
	b.partialEnabled = true
	return b
}

// WithMaxDistance caps the cumulative search cost.
func (b *PathBuilder) WithMaxDistance(distance float32) *PathBuilder {
	b.maxDistance = distance
	return b
}

// WithConnections lets the search traverse drop and jump edges in
// addition to plain neighbours.
func (b *PathBuilder) WithConnections() *PathBuilder {
	b.withConnections = true
	return b
}

// WithoutSimplification skips the post-processing pass.
func (b *PathBuilder) WithoutSimplification() *PathBuilder {
	b.simplifyDisabled = true
	return b
}

type searchResult struct {
	waypoints []Waypoint
	err       error
}

func (b *PathBuilder) newFinder(reversed bool) *PathFinder {
	return &PathFinder{
		Grid:            b.grid,
		Creator:         b.creator,
		PartialEnabled:  b.partialEnabled,
		MaxDistance:     b.maxDistance,
		WithConnections: b.withConnections,
		Reversed:        reversed,
	}
}

func (b *PathBuilder) finish(waypoints []Waypoint) *Path {
	path := &Path{
		grid:        b.grid,
		creator:     b.creator,
		maxDistance: b.maxDistance,
		waypoints:   waypoints,
	}
	if !b.simplifyDisabled && !path.IsEmpty() {
		path.Simplify(b.simplifySegmentSize, b.simplifyIterations)
	}
	return path
}

// RunAsync executes the search on a worker goroutine and blocks only
// the calling goroutine until it completes or ctx is cancelled.
// Cancellation yields an empty path, never an error.
func (b *PathBuilder) RunAsync(ctx context.Context, start, target *Cell) (*Path, error) {
	resultChan := make(chan searchResult, 1)
	go func() {
		waypoints, err := b.newFinder(false).FindPath(ctx, start, target)
		resultChan <- searchResult{waypoints: waypoints, err: err}
	}()
	result := <-resultChan
	if result.err != nil {
		return nil, result.err
	}
	return b.finish(result.waypoints), nil
}

// RunParallelAsync races a forward search against a reverse search to
// shorten worst-case latency and cancels the loser as soon as a usable
// result arrives. Drop and jump connections are one-way, so the reverse
// leg searches the symmetric plain-neighbour graph only and never
// produces partial results; an empty leg does not decide the race while
// the other is still searching.
func (b *PathBuilder) RunParallelAsync(ctx context.Context, start, target *Cell) (*Path, error) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	resultChan := make(chan searchResult, 2)
	go func() {
		waypoints, err := b.newFinder(false).FindPath(raceCtx, start, target)
		resultChan <- searchResult{waypoints: waypoints, err: err}
	}()
	go func() {
		finder := b.newFinder(true)
		finder.WithConnections = false
		finder.PartialEnabled = false
		waypoints, err := finder.FindPath(raceCtx, target, start)
		resultChan <- searchResult{waypoints: waypoints, err: err}
	}()
	result := <-resultChan
	if result.err == nil && len(result.waypoints) == 0 {
		result = <-resultChan
	}
	cancel()
	if result.err != nil {
		return nil, result.err
	}
	return b.finish(result.waypoints), nil
}
