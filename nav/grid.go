package nav

import (
	"math"

	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

// GridSettings is the immutable configuration a grid is generated
// under. Distances are world units, angles degrees.
type GridSettings struct {
	Identifier      string
	Bounds          alg.BBox
	Rotation        alg.Rotation
	CellSize        float32
	StepSize        float32
	WidthClearance  float32
	HeightClearance float32
	StandableAngle  float32
	MaxDropHeight   float32
}

func DefaultGridSettings() GridSettings {
	return GridSettings{
		Identifier:      "main",
		CellSize:        24.0,
		StepSize:        12.0,
		WidthClearance:  24.0,
		HeightClearance: 72.0,
		StandableAngle:  45.0,
		MaxDropHeight:   400.0,
	}
}

// Grid is the spatial index of cells. A coordinate holds an ordered
// stack of cells so vertically layered floors (a bridge over ground)
// coexist. Structural mutation is a generation-phase operation, tag
// and occupancy updates happen at runtime without locking.
type Grid struct {
	settings GridSettings
	cellMap  map[alg.IntVec2][]*Cell
}

func NewGrid(settings GridSettings) *Grid {
	g := new(Grid)
	g.settings = settings
	g.cellMap = make(map[alg.IntVec2][]*Cell)
	return g
}

func (g *Grid) Settings() GridSettings {
	return g.settings
}

func (g *Grid) Identifier() string {
	return g.settings.Identifier
}

func (g *Grid) CellCount() int {
	count := 0
	for _, stack := range g.cellMap {
		count += len(stack)
	}
	return count
}

// AddCell appends the cell to its coordinate stack, creating the stack
// if absent. Insertion order is preserved.
func (g *Grid) AddCell(cell *Cell) {
	coord := cell.GridPosition()
	stack, exist := g.cellMap[coord]
	if !exist {
		stack = make([]*Cell, 0, 1)
	}
	g.cellMap[coord] = append(stack, cell)
}

// GetCell returns the first stack entry at coord whose lowest corner
// height minus the step tolerance lies below height, in insertion
// order. With multiple stacked cells the result depends on generation
// order, not on vertical ordering.
func (g *Grid) GetCell(coord alg.IntVec2, height float32) *Cell {
	for _, cell := range g.cellMap[coord] {
		if cell.Height()-g.settings.StepSize < height {
			return cell
		}
	}
	return nil
}

// GetCellAt resolves a world position to its coordinate and looks the
// cell up at the position's height.
func (g *Grid) GetCellAt(position mgl32.Vec3) *Cell {
	return g.GetCell(g.WorldToCoord(position), position.Z())
}

// GetNearestCell scans every cell for the one closest to position by
// squared distance. This is a full scan and is explicitly expensive.
func (g *Grid) GetNearestCell(position mgl32.Vec3, onlyBelow bool, unoccupiedOnly bool) *Cell {
	var nearest *Cell
	nearestDist := float32(math.MaxFloat32)
	for _, stack := range g.cellMap {
		for _, cell := range stack {
			if onlyBelow && cell.Height() > position.Z()+g.settings.StepSize {
				continue
			}
			if unoccupiedOnly && cell.IsOccupied() {
				continue
			}
			dist := alg.SqrDist(cell.Position(), position)
			if dist < nearestDist {
				nearest = cell
				nearestDist = dist
			}
		}
	}
	return nearest
}

// GetCellInArea spirals outward from position looking for the first
// cell within step range, bounded by ceil(width/cellSize)*2 rings.
func (g *Grid) GetCellInArea(position mgl32.Vec3, width float32) *Cell {
	maxRing := int32(math.Ceil(float64(width/g.settings.CellSize))) * 2
	center := g.WorldToCoord(position)
	var found *Cell
	alg.SpiralSearch(center, maxRing, func(coord alg.IntVec2) bool {
		cell := g.GetCell(coord, position.Z())
		if cell == nil {
			return false
		}
		if alg.Abs(cell.Height()-position.Z()) > g.settings.StepSize {
			return false
		}
		found = cell
		return true
	})
	return found
}

// IsNeighbour reports plain geometric adjacency between two cells.
func (g *Grid) IsNeighbour(a, b *Cell) bool {
	return a != nil && a.IsNeighbour(b)
}

// GetNeighbours returns the cells at the 8 surrounding coordinates at
// this cell's height that are geometric neighbours.
func (g *Grid) GetNeighbours(cell *Cell) []*Cell {
	neighbours := make([]*Cell, 0, 8)
	for offset := range neighbourCornerPairs {
		other := g.GetCell(cell.GridPosition().Add(offset), cell.Height())
		if other == nil {
			continue
		}
		if !cell.IsNeighbour(other) {
			continue
		}
		neighbours = append(neighbours, other)
	}
	return neighbours
}

// LineOfSight verifies an unobstructed, unoccupied cell-to-cell walk
// from start to end. pathCreator is exempt from its own occupancy.
func (g *Grid) LineOfSight(start, end *Cell, pathCreator Occupant) bool {
	if start == nil || end == nil {
		return false
	}
	if start.OccupiedBlocks(pathCreator) || end.OccupiedBlocks(pathCreator) {
		return false
	}
	if start == end {
		return true
	}
	maxSteps := int(math.Ceil(float64(alg.Dist2D(start.Position(), end.Position()) / g.settings.CellSize)))
	current := start
	for i := 0; i < maxSteps; i++ {
		direction := alg.IntVec2{
			X: alg.SignInt32(end.GridPosition().X - current.GridPosition().X),
			Y: alg.SignInt32(end.GridPosition().Y - current.GridPosition().Y),
		}
		next := g.GetCell(current.GridPosition().Add(direction), current.Height())
		if next == nil {
			return false
		}
		if next.OccupiedBlocks(pathCreator) {
			return false
		}
		// Anti-drift guard: the stack lookup may land on a cell that
		// is not actually adjacent to the previous one.
		if !current.IsNeighbour(next) {
			return false
		}
		if next == end {
			return true
		}
		current = next
	}
	return false
}

// ForEachCell visits every cell of the grid in unspecified order.
func (g *Grid) ForEachCell(visit func(cell *Cell)) {
	for _, stack := range g.cellMap {
		for _, cell := range stack {
			visit(cell)
		}
	}
}

// WorldToCoord maps a world position into the integer grid plane,
// honoring the grid orientation around the bounds center.
func (g *Grid) WorldToCoord(position mgl32.Vec3) alg.IntVec2 {
	center := g.settings.Bounds.Center()
	local := g.settings.Rotation.Unapply(position.Sub(center))
	return alg.IntVec2{
		X: int32(math.Floor(float64(local.X() / g.settings.CellSize))),
		Y: int32(math.Floor(float64(local.Y() / g.settings.CellSize))),
	}
}

// CoordToWorld returns the world-space center of the cell footprint at
// coord, at the height of the bounds center.
func (g *Grid) CoordToWorld(coord alg.IntVec2) mgl32.Vec3 {
	local := mgl32.Vec3{
		(float32(coord.X) + 0.5) * g.settings.CellSize,
		(float32(coord.Y) + 0.5) * g.settings.CellSize,
		0,
	}
	center := g.settings.Bounds.Center()
	return center.Add(g.settings.Rotation.Apply(local))
}
