// Package math provides float32 vector, matrix and triangle helpers for the
// ivy generator.
package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Common direction vectors.
var (
	Up   = Vec3{0, 1, 0}
	Down = Vec3{0, -1, 0}
)

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector, or the zero vector if v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Angle returns the unsigned angle between v and other in radians.
// Returns 0 when either vector has no length.
func (v Vec3) Angle(other Vec3) float32 {
	denom := v.Length() * other.Length()
	if denom < 1e-15 {
		return 0
	}
	c := v.Dot(other) / denom
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math32.Acos(c)
}

// RotateAround rotates the point v by angle radians about the axis passing
// through pivot. axis must be normalized.
func (v Vec3) RotateAround(pivot, axis Vec3, angle float32) Vec3 {
	q := mgl32.QuatRotate(angle, mgl32.Vec3{axis.X, axis.Y, axis.Z})
	d := v.Sub(pivot)
	r := q.Rotate(mgl32.Vec3{d.X, d.Y, d.Z})
	return pivot.Add(Vec3{r[0], r[1], r[2]})
}
