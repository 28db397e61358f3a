package heightfield

import (
	"navgrid/nav"
	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

// HeightField is a terrain model probes sample against: a regular
// lattice of ground heights on the X/Y plane plus axis-aligned solid
// boxes for walls, ceilings and props. It implements nav.TerrainProbe.
type HeightField struct {
	originX float32
	originY float32
	spacing float32
	columns int
	rows    int
	heights []float32
	solids  []alg.BBox
}

func NewHeightField(originX, originY, spacing float32, columns, rows int) *HeightField {
	h := new(HeightField)
	h.originX = originX
	h.originY = originY
	h.spacing = spacing
	h.columns = columns
	h.rows = rows
	h.heights = make([]float32, columns*rows)
	h.solids = make([]alg.BBox, 0)
	return h
}

func (h *HeightField) SetHeight(column, row int, height float32) {
	if column < 0 || column >= h.columns || row < 0 || row >= h.rows {
		return
	}
	h.heights[row*h.columns+column] = height
}

func (h *HeightField) FillHeight(height float32) {
	for i := range h.heights {
		h.heights[i] = height
	}
}

func (h *HeightField) AddSolid(box alg.BBox) {
	h.solids = append(h.solids, box)
}

func (h *HeightField) heightAt(column, row int) float32 {
	if column < 0 {
		column = 0
	}
	if column >= h.columns {
		column = h.columns - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= h.rows {
		row = h.rows - 1
	}
	return h.heights[row*h.columns+column]
}

// GroundHeight bilinearly interpolates the lattice at a world point.
// Points outside the lattice report no ground.
func (h *HeightField) GroundHeight(x, y float32) (float32, bool) {
	fx := (x - h.originX) / h.spacing
	fy := (y - h.originY) / h.spacing
	if fx < 0 || fy < 0 || fx > float32(h.columns-1) || fy > float32(h.rows-1) {
		return 0, false
	}
	column := int(fx)
	row := int(fy)
	tx := fx - float32(column)
	ty := fy - float32(row)
	h00 := h.heightAt(column, row)
	h10 := h.heightAt(column+1, row)
	h01 := h.heightAt(column, row+1)
	h11 := h.heightAt(column+1, row+1)
	bottom := h00 + (h10-h00)*tx
	top := h01 + (h11-h01)*tx
	return bottom + (top-bottom)*ty, true
}

// groundNormal approximates the surface normal from central height
// differences one lattice step apart.
func (h *HeightField) groundNormal(x, y float32) mgl32.Vec3 {
	left, okL := h.GroundHeight(x-h.spacing, y)
	right, okR := h.GroundHeight(x+h.spacing, y)
	south, okS := h.GroundHeight(x, y-h.spacing)
	north, okN := h.GroundHeight(x, y+h.spacing)
	if !okL || !okR || !okS || !okN {
		return mgl32.Vec3{0, 0, 1}
	}
	normal := mgl32.Vec3{left - right, south - north, 2 * h.spacing}
	return normal.Normalize()
}

func (h *HeightField) insideSolid(point mgl32.Vec3) (alg.BBox, bool) {
	for _, solid := range h.solids {
		if solid.Contains(point) {
			return solid, true
		}
	}
	return alg.BBox{}, false
}

func (h *HeightField) underGround(point mgl32.Vec3) bool {
	ground, ok := h.GroundHeight(point.X(), point.Y())
	return ok && point.Z() < ground
}

func (h *HeightField) marchStep() float32 {
	step := h.spacing / 4
	if step < 0.25 {
		step = 0.25
	}
	return step
}

// solidEntry resolves the face crossed between the last free point and
// the blocked point: the face normal plus the free point snapped onto
// the face plane, so surface heights come out exact.
func solidEntry(solid alg.BBox, free, blocked mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	// The blocked side is compared inclusively: a sample landing exactly
	// on a face still entered through that face.
	switch {
	case free.Z() >= solid.Maxs.Z() && blocked.Z() <= solid.Maxs.Z():
		return alg.WithZ(free, solid.Maxs.Z()), mgl32.Vec3{0, 0, 1}
	case free.Z() <= solid.Mins.Z() && blocked.Z() >= solid.Mins.Z():
		return alg.WithZ(free, solid.Mins.Z()), mgl32.Vec3{0, 0, -1}
	case free.X() <= solid.Mins.X() && blocked.X() >= solid.Mins.X():
		return mgl32.Vec3{solid.Mins.X(), free.Y(), free.Z()}, mgl32.Vec3{-1, 0, 0}
	case free.X() >= solid.Maxs.X() && blocked.X() <= solid.Maxs.X():
		return mgl32.Vec3{solid.Maxs.X(), free.Y(), free.Z()}, mgl32.Vec3{1, 0, 0}
	case free.Y() <= solid.Mins.Y() && blocked.Y() >= solid.Mins.Y():
		return mgl32.Vec3{free.X(), solid.Mins.Y(), free.Z()}, mgl32.Vec3{0, -1, 0}
	case free.Y() >= solid.Maxs.Y() && blocked.Y() <= solid.Maxs.Y():
		return mgl32.Vec3{free.X(), solid.Maxs.Y(), free.Z()}, mgl32.Vec3{0, 1, 0}
	}
	return free, mgl32.Vec3{0, 0, 1}
}

// RayProbe marches the segment and reports the first ground or solid
// crossing. Ground hits refine the crossing point by bisection so the
// reported height sits on the surface.
func (h *HeightField) RayProbe(origin, end mgl32.Vec3) nav.RayResult {
	if _, inside := h.insideSolid(origin); inside || h.underGround(origin) {
		return nav.RayResult{StartedSolid: true}
	}
	direction := end.Sub(origin)
	length := direction.Len()
	if length == 0 {
		return nav.RayResult{}
	}
	step := h.marchStep()
	prev := origin
	for travelled := step; ; travelled += step {
		if travelled > length {
			travelled = length
		}
		point := origin.Add(direction.Mul(travelled / length))
		if solid, inside := h.insideSolid(point); inside {
			free := bisectSolid(h, prev, point)
			position, normal := solidEntry(solid, free, point)
			return nav.RayResult{
				Hit:      true,
				Position: position,
				Normal:   normal,
			}
		}
		if h.underGround(point) {
			crossing := bisectGround(h, prev, point)
			return nav.RayResult{
				Hit:      true,
				Position: crossing,
				Normal:   h.groundNormal(crossing.X(), crossing.Y()),
			}
		}
		if travelled >= length {
			return nav.RayResult{}
		}
		prev = point
	}
}

func bisectSolid(h *HeightField, free, blocked mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 16; i++ {
		mid := free.Add(blocked.Sub(free).Mul(0.5))
		if _, inside := h.insideSolid(mid); inside {
			blocked = mid
		} else {
			free = mid
		}
	}
	return free
}

func bisectGround(h *HeightField, above, below mgl32.Vec3) mgl32.Vec3 {
	for i := 0; i < 16; i++ {
		mid := above.Add(below.Sub(above).Mul(0.5))
		if h.underGround(mid) {
			below = mid
		} else {
			above = mid
		}
	}
	ground, ok := h.GroundHeight(above.X(), above.Y())
	if ok {
		return alg.WithZ(above, ground)
	}
	return above
}

// boxBlocked reports whether the mover box centered at center overlaps
// a solid or sinks into the ground at any footprint sample.
func (h *HeightField) boxBlocked(box alg.BBox, center mgl32.Vec3) bool {
	world := box.Translate(center)
	for _, solid := range h.solids {
		if world.Intersects(solid) {
			return true
		}
	}
	samples := [5][2]float32{
		{center.X(), center.Y()},
		{world.Mins.X(), world.Mins.Y()},
		{world.Maxs.X(), world.Mins.Y()},
		{world.Mins.X(), world.Maxs.Y()},
		{world.Maxs.X(), world.Maxs.Y()},
	}
	for _, sample := range samples {
		ground, ok := h.GroundHeight(sample[0], sample[1])
		if ok && ground > world.Mins.Z() {
			return true
		}
	}
	return false
}

// BoxProbe sweeps the box from start to end and reports how far it got.
func (h *HeightField) BoxProbe(box alg.BBox, start, end mgl32.Vec3) nav.BoxResult {
	if h.boxBlocked(box, start) {
		return nav.BoxResult{Hit: true, EndPosition: start}
	}
	direction := end.Sub(start)
	length := direction.Len()
	if length == 0 {
		return nav.BoxResult{EndPosition: start}
	}
	step := h.marchStep()
	prev := start
	for travelled := step; ; travelled += step {
		if travelled > length {
			travelled = length
		}
		point := start.Add(direction.Mul(travelled / length))
		if h.boxBlocked(box, point) {
			return nav.BoxResult{Hit: true, EndPosition: prev}
		}
		if travelled >= length {
			return nav.BoxResult{EndPosition: point}
		}
		prev = point
	}
}
