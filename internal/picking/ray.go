// Package picking provides ray casting against the surface for seed placement.
package picking

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// epsilon below which a ray is treated as parallel to a triangle.
const epsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay returns a ray from origin along dir, normalizing dir.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit describes the nearest intersection of a ray with a mesh.
type Hit struct {
	T        float32
	Point    math.Vec3
	Triangle int // index into the mesh's triangles
	Normal   math.Vec3
}

// IntersectTriangle tests the ray against triangle (a, b, c) from either side
// using the Möller–Trumbore algorithm. Returns the distance to the hit.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < epsilon {
		return 0, false // Ray parallel to triangle
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// IntersectSphere tests ray intersection with a sphere.
// If the ray starts inside the sphere, returns the exit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)

	t = -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectMesh returns the nearest hit of the ray on a prepared mesh. The
// bounding sphere is tested first.
func (r Ray) IntersectMesh(m *mesh.Mesh) (Hit, bool) {
	if m == nil || len(m.Triangles) == 0 {
		return Hit{}, false
	}
	if _, ok := r.IntersectSphere(m.BoundingSpherePos, m.BoundingSphereRadius); !ok {
		return Hit{}, false
	}

	best := Hit{T: gomath.MaxFloat32, Triangle: -1}
	for i := range m.Triangles {
		tri := &m.Triangles[i]
		t, ok := r.IntersectTriangle(tri.Verts[0].Pos, tri.Verts[1].Pos, tri.Verts[2].Pos)
		if ok && t < best.T {
			best = Hit{T: t, Triangle: i, Normal: tri.Norm}
		}
	}
	if best.Triangle < 0 {
		return Hit{}, false
	}
	best.Point = r.At(best.T)
	return best, true
}

// IntersectPlaneZ intersects the ray with the plane z = planeZ.
// Returns the intersection point (X, Y) and whether the intersection is valid.
func (r Ray) IntersectPlaneZ(planeZ float32) (x, y float32, ok bool) {
	if math32.Abs(r.Direction.Z) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeZ - r.Origin.Z) / r.Direction.Z
	if t < 0 {
		return 0, 0, false
	}

	p := r.At(t)
	return p.X, p.Y, true
}
