package alg

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BBox is an axis-aligned bounding box.
type BBox struct {
	Mins mgl32.Vec3
	Maxs mgl32.Vec3
}

func NewBBox(mins, maxs mgl32.Vec3) BBox {
	for i := 0; i < 3; i++ {
		if mins[i] > maxs[i] {
			mins[i], maxs[i] = maxs[i], mins[i]
		}
	}
	return BBox{Mins: mins, Maxs: maxs}
}

// NewBBoxCentered builds a box of the given full extents around center.
func NewBBoxCentered(center mgl32.Vec3, extents mgl32.Vec3) BBox {
	half := extents.Mul(0.5)
	return BBox{Mins: center.Sub(half), Maxs: center.Add(half)}
}

func (b BBox) Center() mgl32.Vec3 {
	return b.Mins.Add(b.Maxs).Mul(0.5)
}

func (b BBox) Size() mgl32.Vec3 {
	return b.Maxs.Sub(b.Mins)
}

func (b BBox) Translate(offset mgl32.Vec3) BBox {
	return BBox{Mins: b.Mins.Add(offset), Maxs: b.Maxs.Add(offset)}
}

func (b BBox) Contains(point mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if point[i] < b.Mins[i] || point[i] > b.Maxs[i] {
			return false
		}
	}
	return true
}

func (b BBox) Intersects(other BBox) bool {
	for i := 0; i < 3; i++ {
		if b.Maxs[i] < other.Mins[i] || b.Mins[i] > other.Maxs[i] {
			return false
		}
	}
	return true
}
