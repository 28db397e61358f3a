package alg

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// IntVec2 is an integer coordinate on the 2D grid plane.
type IntVec2 struct {
	X int32
	Y int32
}

func (v IntVec2) Add(other IntVec2) IntVec2 {
	return IntVec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v IntVec2) Sub(other IntVec2) IntVec2 {
	return IntVec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// ChebyshevDistance is the ring distance between two coordinates.
func (v IntVec2) ChebyshevDistance(other IntVec2) int32 {
	dx := AbsInt32(v.X - other.X)
	dy := AbsInt32(v.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func AbsInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// WithZ returns v with its vertical component replaced.
func WithZ(v mgl32.Vec3, z float32) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), v.Y(), z}
}

// SqrDist is the squared distance between two points.
func SqrDist(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

// SqrDist2D is the squared distance projected onto the ground plane.
func SqrDist2D(a, b mgl32.Vec3) float32 {
	dx := a.X() - b.X()
	dy := a.Y() - b.Y()
	return dx*dx + dy*dy
}

func Dist2D(a, b mgl32.Vec3) float32 {
	return Sqrt(SqrDist2D(a, b))
}

func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func TanDeg(deg float32) float32 {
	return float32(math.Tan(float64(deg) * math.Pi / 180.0))
}

func CosDeg(deg float32) float32 {
	return float32(math.Cos(float64(deg) * math.Pi / 180.0))
}

func SinDeg(deg float32) float32 {
	return float32(math.Sin(float64(deg) * math.Pi / 180.0))
}

func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// SignInt32 normalizes v to -1/0/1.
func SignInt32(v int32) int32 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
