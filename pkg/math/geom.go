package math

import "github.com/chewxy/math32"

// BarycentricTolerance is the allowed deviation of alpha+beta+gamma from 1
// for a point to count as inside a triangle.
const BarycentricTolerance = 1e-5

// degenerateAreaRatio is the area, relative to the squared longest edge,
// at or below which a triangle is treated as degenerate. Being relative it
// holds for surfaces modelled at any unit scale.
const degenerateAreaRatio = 1e-7

// Barycentric computes the area-ratio barycentric coordinates of p with
// respect to the triangle (a, b, c). ok is false when p lies outside the
// triangle (the unsigned coordinates no longer sum to 1) or when the
// triangle is degenerate.
func Barycentric(a, b, c, p Vec3) (alpha, beta, gamma float32, ok bool) {
	ab, ac, bc := b.Sub(a), c.Sub(a), c.Sub(b)
	area := 0.5 * ab.Cross(ac).Length()
	edgeSq := max(ab.Dot(ab), ac.Dot(ac), bc.Dot(bc))
	if area <= degenerateAreaRatio*edgeSq {
		return 0, 0, 0, false
	}

	alpha = 0.5 * b.Sub(p).Cross(c.Sub(p)).Length() / area
	beta = 0.5 * a.Sub(p).Cross(c.Sub(p)).Length() / area
	gamma = 0.5 * a.Sub(p).Cross(b.Sub(p)).Length() / area

	if math32.Abs(1-alpha-beta-gamma) > BarycentricTolerance {
		return alpha, beta, gamma, false
	}
	return alpha, beta, gamma, true
}

// ProjectOntoPlane projects p onto the plane through origin with unit normal n.
func ProjectOntoPlane(p, origin, n Vec3) Vec3 {
	return p.Sub(n.Scale(n.Dot(p.Sub(origin))))
}

// Reflect mirrors p across the plane through origin with unit normal n.
func Reflect(p, origin, n Vec3) Vec3 {
	p0 := ProjectOntoPlane(p, origin, n)
	return p.Add(p0.Sub(p).Scale(2))
}
