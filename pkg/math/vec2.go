package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// Polar returns the angle of v measured counter-clockwise from the +X axis,
// in [0, 2π). The zero vector maps to 0.
func (v Vec2) Polar() float32 {
	if v.X == 0 {
		switch {
		case v.Y > 0:
			return math32.Pi / 2
		case v.Y < 0:
			return 3 * math32.Pi / 2
		}
		return 0
	}
	phi := math32.Atan(v.Y / v.X)
	if v.X < 0 {
		phi += math32.Pi
	} else if v.Y < 0 {
		phi += 2 * math32.Pi
	}
	return phi
}

// FromPolar returns the unit vector at angle phi.
func FromPolar(phi float32) Vec2 {
	return Vec2{math32.Cos(phi), math32.Sin(phi)}
}
