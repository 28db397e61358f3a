package nav

import (
	"math/rand"

	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

// ConnectivityBuilder synthesizes the extra edges plain geometry does
// not give: ledge drops and gap jumps. It runs during the generation
// phase, before any search is active.
type ConnectivityBuilder struct {
	grid  *Grid
	probe TerrainProbe
	rng   *rand.Rand

	// Drop candidates are searched on rings between these distances.
	DropSearchMinRing int32
	DropSearchMaxRing int32
	// Compass directions simulated per jump source.
	SidesToCheck int
	// Attempt a symmetric link back from accepted jump landings.
	GenerateReverse bool
}

func NewConnectivityBuilder(grid *Grid, probe TerrainProbe) *ConnectivityBuilder {
	c := new(ConnectivityBuilder)
	c.grid = grid
	c.probe = probe
	c.rng = rand.New(rand.NewSource(int64(grid.CellCount())))
	c.DropSearchMinRing = 1
	c.DropSearchMaxRing = 3
	c.SidesToCheck = 8
	c.GenerateReverse = true
	return c
}

// AssignEdgeCells tags any cell with fewer than maxNeighbourCount
// plain neighbours as an edge: a grid boundary or ledge candidate.
func (c *ConnectivityBuilder) AssignEdgeCells(maxNeighbourCount int) {
	if maxNeighbourCount <= 0 {
		maxNeighbourCount = 8
	}
	c.grid.ForEachCell(func(cell *Cell) {
		if len(c.grid.GetNeighbours(cell)) < maxNeighbourCount {
			cell.AddTag(TagEdge)
		}
	})
}

// AssignDroppableCells scans outward from every edge cell for a lower
// cell reachable by falling off the ledge, and attaches a drop-tagged
// connection to the first qualifying one.
func (c *ConnectivityBuilder) AssignDroppableCells() {
	s := c.grid.Settings()
	c.grid.ForEachCell(func(cell *Cell) {
		if !cell.HasTag(TagEdge) {
			return
		}
		for ring := c.DropSearchMinRing; ring <= c.DropSearchMaxRing; ring++ {
			for _, offset := range alg.RingOffsets(ring) {
				candidate := c.grid.GetCell(cell.GridPosition().Add(offset), cell.Height())
				if candidate == nil || candidate == cell {
					continue
				}
				drop := cell.Height() - candidate.Height()
				if drop <= s.StepSize || drop > s.MaxDropHeight {
					continue
				}
				if cell.IsNeighbour(candidate) {
					continue
				}
				// Ordinary steps have more run than rise.
				horizontal := alg.Dist2D(cell.Position(), candidate.Position())
				if drop <= horizontal {
					continue
				}
				if c.grid.LineOfSight(cell, candidate, nil) {
					continue
				}
				if cell.HasConnectionTo(candidate) {
					continue
				}
				if !c.hasDropClearance(cell, candidate) {
					continue
				}
				cell.AddConnection(candidate, TagDrop)
				return
			}
		}
	})
}

// hasDropClearance verifies a mover can leave the ledge horizontally
// and then fall onto the landing cell without obstruction.
func (c *ConnectivityBuilder) hasDropClearance(cell, candidate *Cell) bool {
	s := c.grid.Settings()
	box := alg.NewBBoxCentered(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{s.WidthClearance, s.WidthClearance, s.HeightClearance},
	)
	hover := s.StepSize + s.HeightClearance/2

	egressStart := alg.WithZ(cell.Position(), cell.Height()+hover)
	egressEnd := alg.WithZ(candidate.Position(), cell.Height()+hover)
	res := c.probe.BoxProbe(box, egressStart, egressEnd)
	if res.Hit {
		return false
	}

	landEnd := alg.WithZ(candidate.Position(), candidate.Height()+hover)
	res = c.probe.BoxProbe(box, egressEnd, landEnd)
	return !res.Hit
}

// AssignJumpableCells simulates projectile trajectories off every edge
// cell (sampled at rate generateFraction to bound cost on large grids)
// and connects the source to the landing cell with the given tag when
// the landing is not already reachable.
func (c *ConnectivityBuilder) AssignJumpableCells(tag string, horizontalSpeed, verticalSpeed, gravity, generateFraction float32) {
	if generateFraction <= 0 || horizontalSpeed <= 0 {
		return
	}
	directions := c.compassDirections()
	c.grid.ForEachCell(func(cell *Cell) {
		if !cell.HasTag(TagEdge) {
			return
		}
		if c.rng.Float32() > generateFraction {
			return
		}
		accepted := make([]*Cell, 0)
		for _, dir := range directions {
			landing := c.simulateJump(cell.Position(), dir, horizontalSpeed, verticalSpeed, gravity)
			target := c.grid.GetNearestCell(landing, true, false)
			if target == nil || target == cell {
				continue
			}
			if cell.IsNeighbour(target) || cell.HasConnectionTo(target) {
				continue
			}
			if c.grid.LineOfSight(cell, target, nil) {
				continue
			}
			if c.isRedundantJump(cell, target, accepted) {
				continue
			}
			cell.AddConnection(target, tag)
			accepted = append(accepted, target)
			if c.GenerateReverse && !c.grid.LineOfSight(target, cell, nil) && !target.HasConnectionTo(cell) {
				back := cell.Position().Sub(target.Position())
				back = alg.WithZ(back, 0)
				if back.Len() > 0 {
					back = back.Mul(1 / back.Len())
					reverseLanding := c.simulateJump(target.Position(), back, horizontalSpeed, verticalSpeed, gravity)
					if c.grid.GetNearestCell(reverseLanding, true, false) == cell {
						target.AddConnection(cell, tag)
					}
				}
			}
		}
	})
}

// isRedundantJump rejects a landing that duplicates line-of-sight
// reachability with an already accepted target or existing connection.
func (c *ConnectivityBuilder) isRedundantJump(cell, target *Cell, accepted []*Cell) bool {
	for _, prev := range accepted {
		if c.grid.LineOfSight(prev, target, nil) {
			return true
		}
	}
	for _, conn := range cell.Connections() {
		if c.grid.LineOfSight(conn.Target, target, nil) {
			return true
		}
	}
	return false
}

// simulateJump steps along the parabola from start until the swept box
// is blocked or the fall exceeds the maximum drop height, returning
// the stopping point.
func (c *ConnectivityBuilder) simulateJump(start mgl32.Vec3, dir mgl32.Vec3, horizontalSpeed, verticalSpeed, gravity float32) mgl32.Vec3 {
	s := c.grid.Settings()
	box := alg.NewBBoxCentered(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{s.WidthClearance, s.WidthClearance, s.HeightClearance},
	)
	origin := start.Add(mgl32.Vec3{0, 0, s.StepSize + s.HeightClearance/2})
	dt := s.CellSize / (4 * horizontalSpeed)
	prev := origin
	const maxSteps = 256
	for i := 1; i <= maxSteps; i++ {
		t := float32(i) * dt
		pos := origin.
			Add(dir.Mul(horizontalSpeed * t)).
			Add(mgl32.Vec3{0, 0, verticalSpeed*t - 0.5*gravity*t*t})
		if origin.Z()-pos.Z() > s.MaxDropHeight {
			break
		}
		res := c.probe.BoxProbe(box, prev, pos)
		if res.Hit {
			prev = res.EndPosition
			break
		}
		prev = pos
	}
	return prev
}

func (c *ConnectivityBuilder) compassDirections() []mgl32.Vec3 {
	count := c.SidesToCheck
	if count <= 0 {
		count = 8
	}
	directions := make([]mgl32.Vec3, 0, count)
	for i := 0; i < count; i++ {
		yaw := float32(i) * 360.0 / float32(count)
		directions = append(directions, alg.NewRotation(yaw).Forward())
	}
	return directions
}
