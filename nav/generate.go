package nav

import (
	"context"

	"navgrid/pkg/alg"
	"navgrid/pkg/logger"

	"github.com/go-gl/mathgl/mgl32"
)

// Generator builds a complete grid from terrain: cell sampling over the
// bounds footprint first, then the connectivity passes. Generation is
// the single-producer phase, the result is handed to readers afterwards.
type Generator struct {
	grid    *Grid
	factory *CellFactory
	builder *ConnectivityBuilder
	// Jump synthesis parameters. Jumps are skipped when EnableJump is
	// false or HorizontalSpeed is zero.
	EnableJump        bool
	HorizontalSpeed   float32
	VerticalSpeed     float32
	Gravity           float32
	GenerateFraction  float32
	MaxNeighbourCount int
}

func NewGenerator(grid *Grid, probe TerrainProbe) (r *Generator) {
	r = new(Generator)
	r.grid = grid
	r.factory = NewCellFactory(grid, probe)
	r.builder = NewConnectivityBuilder(grid, probe)
	r.GenerateFraction = 1.0
	r.MaxNeighbourCount = 8
	return r
}

func (g *Generator) ConnectivityBuilder() *ConnectivityBuilder {
	return g.builder
}

// coordRange is the inclusive grid coordinate footprint of the bounds,
// covering all four rotated corners.
func (g *Generator) coordRange() (alg.IntVec2, alg.IntVec2) {
	bounds := g.grid.Settings().Bounds
	corners := [4]mgl32.Vec3{
		bounds.Mins,
		{bounds.Maxs.X(), bounds.Mins.Y(), 0},
		{bounds.Mins.X(), bounds.Maxs.Y(), 0},
		bounds.Maxs,
	}
	minCoord := g.grid.WorldToCoord(corners[0])
	maxCoord := minCoord
	for _, corner := range corners[1:] {
		coord := g.grid.WorldToCoord(corner)
		minCoord.X = minInt32(minCoord.X, coord.X)
		minCoord.Y = minInt32(minCoord.Y, coord.Y)
		maxCoord.X = maxInt32(maxCoord.X, coord.X)
		maxCoord.Y = maxInt32(maxCoord.Y, coord.Y)
	}
	return minCoord, maxCoord
}

// Generate runs the full pipeline. Cancellation through ctx stops the
// scan early and leaves the grid partially built.
func (g *Generator) Generate(ctx context.Context) error {
	s := g.grid.Settings()
	minCoord, maxCoord := g.coordRange()
	logger.Info("grid generate start, id: %v, coord range: %v - %v", s.Identifier, minCoord, maxCoord)
	for y := minCoord.Y; y <= maxCoord.Y; y++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for x := minCoord.X; x <= maxCoord.X; x++ {
			g.scanColumn(alg.IntVec2{X: x, Y: y})
		}
	}
	logger.Info("grid cell scan done, id: %v, cell count: %v", s.Identifier, g.grid.CellCount())
	g.builder.AssignEdgeCells(g.MaxNeighbourCount)
	g.builder.AssignDroppableCells()
	if g.EnableJump && g.HorizontalSpeed > 0 {
		g.builder.AssignJumpableCells(TagJump, g.HorizontalSpeed, g.VerticalSpeed, g.Gravity, g.GenerateFraction)
	}
	logger.Info("grid generate done, id: %v, cell count: %v", s.Identifier, g.grid.CellCount())
	return nil
}

// scanColumn walks one coordinate from the top of the bounds downward,
// creating a cell per distinct floor. After a hit the scan descends far
// enough that the next sampling band starts strictly below the created
// floor, so stacked storeys each get their own cell and no floor is
// sampled twice; after a miss it descends one sampling band.
func (g *Generator) scanColumn(coord alg.IntVec2) {
	s := g.grid.Settings()
	band := g.factory.HeightBand()
	descent := band + s.StepSize
	if s.HeightClearance > descent {
		descent = s.HeightClearance
	}
	center := g.grid.CoordToWorld(coord)
	z := s.Bounds.Maxs.Z() - band
	for z > s.Bounds.Mins.Z() {
		cell := g.factory.TryCreateCell(alg.WithZ(center, z))
		if cell == nil {
			z -= band
			continue
		}
		g.grid.AddCell(cell)
		z = cell.Height() - descent
	}
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
