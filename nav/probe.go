package nav

import (
	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

// Occupant is an opaque handle to a mover standing on the grid. The
// requesting mover of a search is exempt from its own occupancy.
type Occupant interface {
	ID() uint32
	Position() mgl32.Vec3
}

// RayResult is the outcome of a ray intersection query.
type RayResult struct {
	Hit          bool
	Position     mgl32.Vec3
	Normal       mgl32.Vec3
	StartedSolid bool
}

// BoxResult is the outcome of a swept box query. EndPosition is where
// the sweep stopped, equal to the requested end when nothing was hit.
type BoxResult struct {
	Hit         bool
	EndPosition mgl32.Vec3
	Occupant    Occupant
}

// TerrainProbe is the collision capability the grid construction
// consumes. The core never depends on a concrete physics engine.
type TerrainProbe interface {
	RayProbe(origin, end mgl32.Vec3) RayResult
	BoxProbe(box alg.BBox, start, end mgl32.Vec3) BoxResult
}
