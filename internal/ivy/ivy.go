// Package ivy grows a branching ivy over a triangle surface and synthesizes
// leaf and branch geometry from the growth history.
//
// An Ivy is driven synchronously: Seed once, call Grow repeatedly until the
// driver stops or every root has died, then call Birth. The surface mesh is
// passed into every call and must not change while an Ivy is growing.
// An Ivy is not safe for concurrent use.
package ivy

import (
	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// Ivy holds the growth state of one plant.
type Ivy struct {
	Params Params
	Roots  []*Root

	rng Rand
}

// New returns an unseeded ivy drawing randomness from rng.
func New(params Params, rng Rand) *Ivy {
	return &Ivy{
		Params: params,
		rng:    rng,
	}
}

// Seed discards all roots and starts a single root at pos.
func (iv *Ivy) Seed(pos math.Vec3) {
	iv.Roots = []*Root{{
		Nodes: []Node{{
			Pos:        pos,
			PrimaryDir: math.Up,
			Climbing:   true,
		}},
		Alive: true,
	}}
}

// Seeded reports whether Seed has been called.
func (iv *Ivy) Seeded() bool {
	return len(iv.Roots) > 0
}

// LivingBranches returns the number of roots still growing.
func (iv *Ivy) LivingBranches() int {
	n := 0
	for _, r := range iv.Roots {
		if r.Alive {
			n++
		}
	}
	return n
}

// Alive reports whether any root can still grow.
func (iv *Ivy) Alive() bool {
	return iv.LivingBranches() > 0
}

// NodeCount returns the total number of nodes across all roots.
func (iv *Ivy) NodeCount() int {
	n := 0
	for _, r := range iv.Roots {
		n += len(r.Nodes)
	}
	return n
}

// scale returns the surface bounding radius that relative parameters are
// measured against.
func scale(surface *mesh.Mesh) float32 {
	if surface == nil {
		return 1
	}
	return surface.BoundingSphereRadius
}

// triangles returns the surface triangles, tolerating a nil surface.
func triangles(surface *mesh.Mesh) []mesh.Triangle {
	if surface == nil {
		return nil
	}
	return surface.Triangles
}
