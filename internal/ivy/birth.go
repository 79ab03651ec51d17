package ivy

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/ivygen/internal/logger"
	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// Material names registered by Birth, in id order.
const (
	MaterialLeafAdult = "leaf_adult"
	MaterialLeafYoung = "leaf_young"
	MaterialBranch    = "branch"
)

// Material ids assigned by Birth.
const (
	MatLeafAdult uint32 = 1
	MatLeafYoung uint32 = 2
	MatBranch    uint32 = 3
)

const (
	smoothPasses = 5
	leafPasses   = 10
)

// smoothKernel is an 11-tap bell curve; its taps sum to smoothNorm.
var smoothKernel = [...]float32{1, 2, 4, 7, 9, 10, 9, 7, 4, 2, 1}

const smoothNorm = 56

// branchCorners are the rotation angles of the second and third vertex of
// a branch cross-section.
var branchCorners = [2]float32{2.09, 4.18}

// Textures are the texture paths referenced by the birth materials.
type Textures struct {
	LeafAdult string
	LeafYoung string
	Branch    string
}

// Birth converts the growth history into a leaf and branch mesh. Adhesion
// vectors are smoothed first; the raw vectors are kept, so Birth may be
// called again after further growth.
func (iv *Ivy) Birth(surface *mesh.Mesh, tex Textures) (*mesh.Mesh, error) {
	radius := scale(surface)
	leafSize := radius * iv.Params.IvySize * iv.Params.IvyLeafSize
	branchSize := radius * iv.Params.IvySize * iv.Params.IvyBranchSize

	for _, root := range iv.Roots {
		smoothAdhesion(root)
	}

	out := mesh.New()
	out.AddMaterial(MaterialLeafAdult, tex.LeafAdult)
	out.AddMaterial(MaterialLeafYoung, tex.LeafYoung)
	out.AddMaterial(MaterialBranch, tex.Branch)

	for _, root := range iv.Roots {
		iv.birthLeaves(out, root, leafSize)
	}
	leafTris := len(out.Triangles)

	for _, root := range iv.Roots {
		birthBranch(out, root, branchSize)
	}

	if err := out.Build(); err != nil {
		return nil, fmt.Errorf("build ivy mesh: %w", err)
	}

	logger.Debug("ivy born",
		zap.Int("roots", len(iv.Roots)),
		zap.Int("leaf_triangles", leafTris),
		zap.Int("branch_triangles", len(out.Triangles)-leafTris),
		zap.Int("vertices", len(out.Vertices)))

	return out, nil
}

// smoothAdhesion convolves the raw adhesion vectors along the root into
// SmoothAdhesion. Taps past either end read the end node.
func smoothAdhesion(root *Root) {
	n := len(root.Nodes)
	if n == 0 {
		return
	}

	cur := make([]math.Vec3, n)
	next := make([]math.Vec3, n)
	for i := range root.Nodes {
		cur[i] = root.Nodes[i].Adhesion
	}

	half := len(smoothKernel) / 2
	for pass := 0; pass < smoothPasses; pass++ {
		for i := range cur {
			var sum math.Vec3
			for k, w := range smoothKernel {
				j := min(max(i+k-half, 0), n-1)
				sum = sum.Add(cur[j].Scale(w))
			}
			next[i] = sum.Scale(1.0 / smoothNorm)
		}
		cur, next = next, cur
	}

	for i := range root.Nodes {
		root.Nodes[i].SmoothAdhesion = cur[i]
	}
}

// birthLeaves scatters leaf quads along root. A node's chance of carrying
// a leaf grows toward the tip and, for downward adhesion, near the base.
func (iv *Ivy) birthLeaves(out *mesh.Mesh, root *Root, leafSize float32) {
	total := root.Length()
	if total <= 0 {
		return
	}
	threshold := 1 - iv.Params.LeafProbability

	for pass := 0; pass < leafPasses; pass++ {
		for i := range root.Nodes {
			node := &root.Nodes[i]
			adh := node.SmoothAdhesion

			ratio := node.Length / total
			weight := math32.Pow(ratio, 0.7)
			groundIvy := max(0, -math.Up.Dot(adh.Normalize()))
			weight += groundIvy * math32.Pow(1-ratio, 2)

			// The ground bonus can push weight slightly past 1
			gate := min(weight, 1)
			if iv.rng.Float32()*gate <= threshold {
				continue
			}

			alignment := adh.Length()

			// The epsilon keeps the polar angle stable on the axes
			phi := math.Vec2{X: adh.Z, Y: adh.X}.Normalize().
				Add(math.Vec2{X: 1e-5, Y: 1e-5}).Polar() - math32.Pi*0.5
			theta := adh.Angle(math.Down) * 0.5

			center := node.Pos.Add(jitter(iv.rng).Normalize().Scale(leafSize))
			sizeWeight := 1.5 - (math32.Cos(weight*2*math32.Pi)*0.5 + 0.5)

			phi += rangeF(iv.rng, -0.5, 0.5) * (1.3 - alignment)
			theta += rangeF(iv.rng, -0.5, 0.5) * (1.1 - alignment)

			s := leafSize * sizeWeight
			corners := [4]math.Vec3{
				{X: -s, Z: s},
				{X: s, Z: s},
				{X: -s, Z: -s},
				{X: s, Z: -s},
			}
			uvs := [4]math.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}

			for c, off := range corners {
				p := center.Add(off).
					RotateAround(center, math.Vec3{Z: 1}, theta).
					RotateAround(center, math.Up, phi)
				p = p.Add(jitter(iv.rng).Normalize().Scale(s * 0.5))
				out.AddVertex(p)
				out.AddTexCoord(uvs[c])
			}

			mat := MatLeafAdult
			if iv.rng.Float32()*gate > threshold {
				mat = MatLeafYoung
			}

			n := uint32(len(out.Vertices))
			addTriangle(out, mat, n-1, n-3, n-2)
			addTriangle(out, mat, n-2, n, n-1)
		}
	}
}

// birthBranch sweeps a triangular tube along root. The tube is thinner for
// later generations and tapers toward the tip.
func birthBranch(out *mesh.Mesh, root *Root, branchSize float32) {
	if len(root.Nodes) < 2 {
		return
	}

	total := root.Length()
	diameter := 1/float32(root.Parents+1) + 1

	for i := 0; i < len(root.Nodes)-1; i++ {
		node := root.Nodes[i]

		var weight float32
		if total > 0 {
			weight = node.Length / total
		}

		axis := root.Nodes[i+1].Pos.Sub(node.Pos).Normalize()
		b0 := math.Down.Cross(axis).Normalize().
			Scale(diameter * branchSize * (1.3 - weight)).
			Add(node.Pos)

		out.AddVertex(b0)
		for _, angle := range branchCorners {
			out.AddVertex(b0.RotateAround(node.Pos, axis, angle))
		}

		var v float32
		if i%2 == 0 {
			v = 1
		}
		out.AddTexCoord(math.Vec2{X: 0, Y: v})
		out.AddTexCoord(math.Vec2{X: 0.3, Y: v})
		out.AddTexCoord(math.Vec2{X: 0.6, Y: v})

		if i == 0 {
			continue
		}

		n := uint32(len(out.Vertices))
		addTriangle(out, MatBranch, n-3, n, n-4)
		addTriangle(out, MatBranch, n-4, n, n-1)
		addTriangle(out, MatBranch, n-4, n-1, n-5)
		addTriangle(out, MatBranch, n-5, n-1, n-2)
		addTriangle(out, MatBranch, n-5, n-2, n)
		addTriangle(out, MatBranch, n-5, n, n-3)
	}
}

// addTriangle appends a triangle whose texcoord ids equal its vertex ids.
func addTriangle(out *mesh.Mesh, mat uint32, a, b, c uint32) {
	ids := [3]uint32{a, b, c}
	out.Triangles = append(out.Triangles, mesh.Triangle{
		V:     ids,
		T:     ids,
		MatID: mat,
	})
}
