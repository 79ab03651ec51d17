package ivy

import (
	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// ComputeAdhesion returns the attraction of the surface at pos: a vector
// toward the nearest front-facing triangle within the adhesion cutoff,
// scaled by a linear falloff that reaches zero at the cutoff. Without a
// candidate the result is the zero vector.
func (iv *Ivy) ComputeAdhesion(surface *mesh.Mesh, pos math.Vec3) math.Vec3 {
	maxDistance := scale(surface) * iv.Params.MaxAdhesionDistance
	minDistance := maxDistance

	var adhesion math.Vec3
	for i := range triangles(surface) {
		t := &surface.Triangles[i]
		v0 := t.Verts[0].Pos

		nq := t.Norm.Dot(pos.Sub(v0))
		if nq < 0 {
			continue // backside
		}

		p0 := pos.Sub(t.Norm.Scale(nq))
		if _, _, _, ok := math.Barycentric(v0, t.Verts[1].Pos, t.Verts[2].Pos, p0); !ok {
			continue
		}

		distance := p0.Distance(pos)
		if distance < minDistance {
			minDistance = distance
			adhesion = p0.Sub(pos).Normalize().Scale(1 - distance/maxDistance)
		}
	}
	return adhesion
}
