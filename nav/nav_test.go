package nav

import (
	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

// Shared test fixtures: a flat grid builder, a configurable mover and
// a terrain probe over a ground height function plus solid boxes.

func testSettings(cellSize float32) GridSettings {
	settings := DefaultGridSettings()
	settings.CellSize = cellSize
	extent := 10 * cellSize
	settings.Bounds = alg.NewBBox(
		mgl32.Vec3{-extent, -extent, -500},
		mgl32.Vec3{extent, extent, 500},
	)
	return settings
}

func addFlatCell(grid *Grid, x, y int32, z float32) *Cell {
	coord := alg.IntVec2{X: x, Y: y}
	center := alg.WithZ(grid.CoordToWorld(coord), z)
	cell := NewCell(grid, coord, center, [4]float32{z, z, z, z})
	grid.AddCell(cell)
	return cell
}

// testGrid is an n x n flat floor at height z, coords 0..n-1.
func testGrid(n int32, cellSize float32, z float32) *Grid {
	grid := NewGrid(testSettings(cellSize))
	for y := int32(0); y < n; y++ {
		for x := int32(0); x < n; x++ {
			addFlatCell(grid, x, y, z)
		}
	}
	return grid
}

type testMover struct {
	id  uint32
	pos mgl32.Vec3
}

func (m *testMover) ID() uint32 {
	return m.id
}

func (m *testMover) Position() mgl32.Vec3 {
	return m.pos
}

// testProbe samples a ground height function and solid boxes the way a
// terrain engine would.
type testProbe struct {
	ground func(x, y float32) (float32, bool)
	solids []alg.BBox
}

func (p *testProbe) underGround(point mgl32.Vec3) bool {
	if p.ground == nil {
		return false
	}
	height, ok := p.ground(point.X(), point.Y())
	return ok && point.Z() < height
}

func (p *testProbe) groundNormal(x, y float32) mgl32.Vec3 {
	left, okL := p.ground(x-1, y)
	right, okR := p.ground(x+1, y)
	south, okS := p.ground(x, y-1)
	north, okN := p.ground(x, y+1)
	if !okL || !okR || !okS || !okN {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{left - right, south - north, 2}.Normalize()
}

func (p *testProbe) insideSolid(point mgl32.Vec3) bool {
	for _, solid := range p.solids {
		if solid.Contains(point) {
			return true
		}
	}
	return false
}

func (p *testProbe) RayProbe(origin, end mgl32.Vec3) RayResult {
	if p.insideSolid(origin) || p.underGround(origin) {
		return RayResult{StartedSolid: true}
	}
	direction := end.Sub(origin)
	length := direction.Len()
	if length == 0 {
		return RayResult{}
	}
	const step = float32(0.5)
	prev := origin
	for travelled := step; ; travelled += step {
		if travelled > length {
			travelled = length
		}
		point := origin.Add(direction.Mul(travelled / length))
		if p.insideSolid(point) || p.underGround(point) {
			// Bisect to the surface.
			free := prev
			blocked := point
			for i := 0; i < 20; i++ {
				mid := free.Add(blocked.Sub(free).Mul(0.5))
				if p.insideSolid(mid) || p.underGround(mid) {
					blocked = mid
				} else {
					free = mid
				}
			}
			normal := mgl32.Vec3{0, 0, 1}
			if p.ground != nil && !p.insideSolid(blocked) {
				if height, ok := p.ground(free.X(), free.Y()); ok {
					free = alg.WithZ(free, height)
				}
				normal = p.groundNormal(free.X(), free.Y())
			}
			return RayResult{Hit: true, Position: free, Normal: normal}
		}
		if travelled >= length {
			return RayResult{}
		}
		prev = point
	}
}

func (p *testProbe) boxBlocked(box alg.BBox, center mgl32.Vec3) bool {
	world := box.Translate(center)
	for _, solid := range p.solids {
		if world.Intersects(solid) {
			return true
		}
	}
	if p.ground != nil {
		if height, ok := p.ground(center.X(), center.Y()); ok && height > world.Mins.Z() {
			return true
		}
	}
	return false
}

func (p *testProbe) BoxProbe(box alg.BBox, start, end mgl32.Vec3) BoxResult {
	if p.boxBlocked(box, start) {
		return BoxResult{Hit: true, EndPosition: start}
	}
	direction := end.Sub(start)
	length := direction.Len()
	if length == 0 {
		return BoxResult{EndPosition: start}
	}
	const step = float32(0.5)
	prev := start
	for travelled := step; ; travelled += step {
		if travelled > length {
			travelled = length
		}
		point := start.Add(direction.Mul(travelled / length))
		if p.boxBlocked(box, point) {
			return BoxResult{Hit: true, EndPosition: prev}
		}
		if travelled >= length {
			return BoxResult{EndPosition: point}
		}
		prev = point
	}
}
