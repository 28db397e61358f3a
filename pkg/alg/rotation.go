package alg

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Rotation is a yaw-only rotation about the vertical axis, in degrees.
// Grids are oriented with it and positions are mapped in and out of
// grid-local space through Apply/Unapply.
type Rotation struct {
	Yaw float32
}

func NewRotation(yaw float32) Rotation {
	return Rotation{Yaw: yaw}
}

// Forward is the unit vector on the ground plane the rotation faces.
func (r Rotation) Forward() mgl32.Vec3 {
	return mgl32.Vec3{CosDeg(r.Yaw), SinDeg(r.Yaw), 0}
}

// Apply rotates v from grid-local space into world space.
func (r Rotation) Apply(v mgl32.Vec3) mgl32.Vec3 {
	c := CosDeg(r.Yaw)
	s := SinDeg(r.Yaw)
	return mgl32.Vec3{
		v.X()*c - v.Y()*s,
		v.X()*s + v.Y()*c,
		v.Z(),
	}
}

// Unapply rotates v from world space back into grid-local space.
func (r Rotation) Unapply(v mgl32.Vec3) mgl32.Vec3 {
	c := CosDeg(-r.Yaw)
	s := SinDeg(-r.Yaw)
	return mgl32.Vec3{
		v.X()*c - v.Y()*s,
		v.X()*s + v.Y()*c,
		v.Z(),
	}
}
