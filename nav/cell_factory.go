package nav

import (
	"math"

	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

// nearVerticalAngle separates steep-but-climbable geometry (stair
// risers, walls the step probe walks over) from unwalkable slopes.
const nearVerticalAngle = float32(85.0)

// CellFactory samples terrain through the probe and produces walkable
// cells, or rejects the location.
type CellFactory struct {
	grid  *Grid
	probe TerrainProbe
}

func NewCellFactory(grid *Grid, probe TerrainProbe) *CellFactory {
	f := new(CellFactory)
	f.grid = grid
	f.probe = probe
	return f
}

// HeightBand is the vertical sampling range around a candidate height:
// the worst height difference a standable slope or step can produce
// across one cell.
func (f *CellFactory) HeightBand() float32 {
	s := f.grid.Settings()
	return alg.Max(s.CellSize*alg.TanDeg(s.StandableAngle), s.StepSize)
}

// TryCreateCell samples the cell footprint centered at position and
// returns a cell, or nil when any walkability rejection fires. The
// position's height is the center of the sampling band.
func (f *CellFactory) TryCreateCell(position mgl32.Vec3) *Cell {
	s := f.grid.Settings()
	half := s.CellSize / 2
	band := f.HeightBand()

	cornerOffsets := [4]mgl32.Vec3{
		{-half, -half, 0},
		{half, -half, 0},
		{-half, half, 0},
		{half, half, 0},
	}
	var heights [4]float32
	for i, offset := range cornerOffsets {
		corner := position.Add(s.Rotation.Apply(offset))
		res := f.probe.RayProbe(
			alg.WithZ(corner, position.Z()+band),
			alg.WithZ(corner, position.Z()-band),
		)
		if res.StartedSolid || !res.Hit {
			return nil
		}
		heights[i] = res.Position.Z()
	}

	minHeight := heights[0]
	maxHeight := heights[0]
	for _, h := range heights[1:] {
		minHeight = alg.Min(minHeight, h)
		maxHeight = alg.Max(maxHeight, h)
	}

	if !f.hasVerticalClearance(position, maxHeight) {
		return nil
	}

	isStep := false
	if maxHeight-minHeight > s.StepSize/2 {
		walkable, step := f.detectStep(position, heights, minHeight, maxHeight)
		if !walkable {
			return nil
		}
		isStep = step
	}

	center := alg.WithZ(position, (minHeight+maxHeight)/2)
	cell := NewCell(f.grid, f.grid.WorldToCoord(center), center, heights)
	if isStep {
		cell.AddTag(TagStep)
	}
	return cell
}

// hasVerticalClearance probes the space a mover needs above the ground
// sample. The obstruction height above ground must be at least the
// step tolerance plus the configured height clearance.
func (f *CellFactory) hasVerticalClearance(position mgl32.Vec3, groundHeight float32) bool {
	s := f.grid.Settings()
	box := alg.NewBBoxCentered(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{s.WidthClearance, s.WidthClearance, 1},
	)
	start := alg.WithZ(position, groundHeight+s.StepSize)
	end := alg.WithZ(position, groundHeight+s.StepSize+s.HeightClearance)
	res := f.probe.BoxProbe(box, start, end)
	if !res.Hit {
		return true
	}
	obstruction := res.EndPosition.Z() - groundHeight
	return obstruction >= s.StepSize+s.HeightClearance
}

// detectStep classifies a patch whose corner samples disagree beyond
// the step tolerance. Probing horizontally at increasing heights
// between the lowest and highest corner, converging landing-distance
// deltas across at least 3 samples mean stair-like terrain; a single
// obstruction steeper than the standable angle that is not near
// vertical means an unwalkable slope.
func (f *CellFactory) detectStep(position mgl32.Vec3, heights [4]float32, minHeight, maxHeight float32) (walkable bool, isStep bool) {
	s := f.grid.Settings()

	// Within the standable angle the disagreement is just a slope.
	slope := float32(math.Atan(float64((maxHeight-minHeight)/s.CellSize))) * 180 / math.Pi
	if slope <= s.StandableAngle {
		return true, false
	}

	lowIdx := 0
	highIdx := 0
	for i := 1; i < 4; i++ {
		if heights[i] < heights[lowIdx] {
			lowIdx = i
		}
		if heights[i] > heights[highIdx] {
			highIdx = i
		}
	}
	half := s.CellSize / 2
	cornerOffsets := [4]mgl32.Vec3{
		{-half, -half, 0},
		{half, -half, 0},
		{-half, half, 0},
		{half, half, 0},
	}
	lowCorner := position.Add(s.Rotation.Apply(cornerOffsets[lowIdx]))
	highCorner := position.Add(s.Rotation.Apply(cornerOffsets[highIdx]))
	direction := alg.WithZ(highCorner.Sub(lowCorner), 0)
	if direction.Len() == 0 {
		return false, false
	}
	direction = direction.Mul(1 / direction.Len())

	increment := s.StepSize / 2
	tolerance := s.CellSize * 0.1
	lastDistance := float32(-1)
	converged := 1
	for h := minHeight + increment; h < maxHeight; h += increment {
		origin := alg.WithZ(lowCorner, h)
		res := f.probe.RayProbe(origin, origin.Add(direction.Mul(s.CellSize)))
		distance := s.CellSize
		if res.Hit {
			distance = alg.Dist2D(origin, res.Position)
			angle := surfaceAngle(res.Normal)
			if angle > s.StandableAngle && angle < nearVerticalAngle {
				return false, false
			}
		}
		if lastDistance >= 0 && alg.Abs(distance-lastDistance) <= tolerance {
			converged++
			if converged >= 3 {
				return true, true
			}
		} else {
			converged = 1
		}
		lastDistance = distance
	}
	return false, false
}

// surfaceAngle is the angle in degrees between a surface normal and
// straight up.
func surfaceAngle(normal mgl32.Vec3) float32 {
	length := normal.Len()
	if length == 0 {
		return 0
	}
	cos := normal.Z() / length
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return float32(math.Acos(float64(cos))) * 180 / math.Pi
}
