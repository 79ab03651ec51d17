package ivy

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// maxCollisionPasses bounds the reflect-and-retest loop.
const maxCollisionPasses = 5

// ComputeCollision tests the segment oldPos→newPos against the surface.
// A segment entering a triangle from its front side is mirrored across the
// triangle plane and climbing is reported. Mirroring can cause a new
// penetration, so the test repeats until a pass finds no entry; if that
// takes more than maxCollisionPasses reflections ok is false and the caller
// should kill the root.
func (iv *Ivy) ComputeCollision(surface *mesh.Mesh, oldPos, newPos math.Vec3) (pos math.Vec3, climbing, ok bool) {
	tris := triangles(surface)

	for pass := 0; ; pass++ {
		intersection := false

		for i := range tris {
			t := &tris[i]
			v0 := t.Verts[0].Pos
			dir := newPos.Sub(oldPos)

			denom := t.Norm.Dot(dir)
			if denom == 0 {
				continue // parallel to the plane
			}

			t0 := -t.Norm.Dot(oldPos.Sub(v0)) / denom
			if t0 < 0 || t0 > 1 || math32.IsNaN(t0) {
				continue
			}

			hit := oldPos.Add(dir.Scale(t0))
			if _, _, _, in := math.Barycentric(v0, t.Verts[1].Pos, t.Verts[2].Pos, hit); !in {
				continue
			}

			// Only segments entering the surface are corrected
			if denom < 0 {
				newPos = math.Reflect(newPos, v0, t.Norm)
				intersection = true
				climbing = true
			}
		}

		if !intersection {
			return newPos, climbing, true
		}
		if pass >= maxCollisionPasses {
			return newPos, climbing, false
		}
	}
}
