package ivy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// straightRoot returns a root of n nodes spaced along +X.
func straightRoot(n int, step float32) *Root {
	root := &Root{Alive: true}
	for i := 0; i < n; i++ {
		root.Nodes = append(root.Nodes, Node{
			Pos:        math.Vec3{X: float32(i) * step},
			PrimaryDir: math.Vec3{X: 1},
			Length:     float32(i) * step,
		})
	}
	return root
}

var testTextures = Textures{
	LeafAdult: "adult.png",
	LeafYoung: "young.png",
	Branch:    "branch.png",
}

func TestBirthMaterials(t *testing.T) {
	iv := New(DefaultParams(), NewRand(1))
	iv.Roots = []*Root{straightRoot(3, 0.1)}

	m, err := iv.Birth(nil, testTextures)
	require.NoError(t, err)
	require.Len(t, m.Materials, 3)

	assert.Equal(t, mesh.Material{ID: MatLeafAdult, Name: MaterialLeafAdult, TexFile: "adult.png"}, m.Materials[0])
	assert.Equal(t, mesh.Material{ID: MatLeafYoung, Name: MaterialLeafYoung, TexFile: "young.png"}, m.Materials[1])
	assert.Equal(t, mesh.Material{ID: MatBranch, Name: MaterialBranch, TexFile: "branch.png"}, m.Materials[2])
}

func TestBirthBranchOnly(t *testing.T) {
	const nodes = 20

	params := DefaultParams()
	params.LeafProbability = 0

	iv := New(params, NewRand(1))
	iv.Roots = []*Root{straightRoot(nodes, 0.1)}

	m, err := iv.Birth(nil, testTextures)
	require.NoError(t, err)

	counts := m.TrianglesByMaterial()
	assert.Zero(t, counts[MatLeafAdult])
	assert.Zero(t, counts[MatLeafYoung])
	assert.Equal(t, 6*(nodes-2), counts[MatBranch])
	assert.Len(t, m.Vertices, 3*(nodes-1))
	assert.Len(t, m.TexCoords, 3*(nodes-1))
	assert.Len(t, m.Normals, len(m.Vertices))
}

func TestBirthBranchCrossSection(t *testing.T) {
	params := DefaultParams()
	params.LeafProbability = 0

	iv := New(params, NewRand(1))
	root := straightRoot(4, 1)
	iv.Roots = []*Root{root}

	m, err := iv.Birth(nil, testTextures)
	require.NoError(t, err)

	branchSize := params.IvySize * params.IvyBranchSize
	diameter := float32(2) // seed root has no parents

	for i := 0; i < 3; i++ {
		node := root.Nodes[i]
		weight := node.Length / root.Length()
		want := diameter * branchSize * (1.3 - weight)

		for k := 0; k < 3; k++ {
			v := m.Vertices[i*3+k].Pos
			// Cross-section lies in the plane perpendicular to the segment
			assert.InDelta(t, node.Pos.X, v.X, 1e-5)
			assert.InDelta(t, want, v.Distance(node.Pos), 1e-5)
		}

		wantV := float32(0)
		if i%2 == 0 {
			wantV = 1
		}
		assert.Equal(t, math.Vec2{X: 0, Y: wantV}, m.TexCoords[i*3].UV)
		assert.Equal(t, math.Vec2{X: 0.3, Y: wantV}, m.TexCoords[i*3+1].UV)
		assert.Equal(t, math.Vec2{X: 0.6, Y: wantV}, m.TexCoords[i*3+2].UV)
	}
}

func TestBirthSkipsSingleNodeRoots(t *testing.T) {
	params := DefaultParams()
	params.LeafProbability = 1

	iv := New(params, NewRand(1))
	iv.Seed(math.Vec3{})

	m, err := iv.Birth(nil, testTextures)
	require.NoError(t, err)
	assert.Empty(t, m.Triangles)
	assert.Empty(t, m.Vertices)
	assert.Equal(t, float32(1), m.BoundingSphereRadius)
}

func TestBirthLeaves(t *testing.T) {
	const nodes = 20

	params := DefaultParams()
	params.LeafProbability = 1

	// Every draw passes the gate wherever the weight is positive
	iv := New(params, constRand(0.9))
	iv.Roots = []*Root{straightRoot(nodes, 0.1)}

	m, err := iv.Birth(nil, testTextures)
	require.NoError(t, err)

	// Node 0 has zero weight and never carries a leaf
	leaves := leafPasses * (nodes - 1)
	counts := m.TrianglesByMaterial()
	assert.Equal(t, 2*leaves, counts[MatLeafYoung])
	assert.Zero(t, counts[MatLeafAdult])
	assert.Equal(t, 6*(nodes-2), counts[MatBranch])
	assert.Len(t, m.Vertices, 4*leaves+3*(nodes-1))

	// Leaf quads share texcoord ids with vertex ids
	for _, tri := range m.Triangles[:2*leaves] {
		assert.Equal(t, tri.V, tri.T)
	}
	assert.Equal(t, math.Vec2{X: 0, Y: 1}, m.TexCoords[0].UV)
	assert.Equal(t, math.Vec2{X: 1, Y: 1}, m.TexCoords[1].UV)
	assert.Equal(t, math.Vec2{X: 0, Y: 0}, m.TexCoords[2].UV)
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, m.TexCoords[3].UV)
	assert.Equal(t, [3]uint32{3, 1, 2}, m.Triangles[0].V)
	assert.Equal(t, [3]uint32{2, 4, 3}, m.Triangles[1].V)
}

func TestBirthLeafProbabilityZero(t *testing.T) {
	params := DefaultParams()
	params.LeafProbability = 0

	iv := New(params, NewRand(77))
	iv.Seed(math.Vec3{Y: 1.001})
	surface := mesh.Box(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	for i := 0; i < 150; i++ {
		iv.Grow(surface)
	}

	m, err := iv.Birth(surface, testTextures)
	require.NoError(t, err)
	counts := m.TrianglesByMaterial()
	assert.Zero(t, counts[MatLeafAdult]+counts[MatLeafYoung])
	assert.NotZero(t, counts[MatBranch])
}

func TestBirthDeterministic(t *testing.T) {
	surface := mesh.Box(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	born := func() *mesh.Mesh {
		iv := New(DefaultParams(), NewRand(99))
		iv.Seed(math.Vec3{Y: 1.001})
		for i := 0; i < 120; i++ {
			iv.Grow(surface)
		}
		m, err := iv.Birth(surface, testTextures)
		require.NoError(t, err)
		return m
	}

	a, b := born(), born()
	assert.Equal(t, a.Vertices, b.Vertices)
	assert.Equal(t, a.TexCoords, b.TexCoords)
	require.Equal(t, len(a.Triangles), len(b.Triangles))
	for i := range a.Triangles {
		assert.Equal(t, a.Triangles[i].V, b.Triangles[i].V)
		assert.Equal(t, a.Triangles[i].MatID, b.Triangles[i].MatID)
	}
}

func TestSmoothAdhesion(t *testing.T) {
	t.Run("impulse spreads symmetrically", func(t *testing.T) {
		root := straightRoot(61, 0.1)
		root.Nodes[30].Adhesion = math.Vec3{Y: -1}

		smoothAdhesion(root)

		var sum float32
		for _, n := range root.Nodes {
			sum += n.SmoothAdhesion.Y
		}
		assert.InDelta(t, -1, sum, 1e-4)
		assert.InDelta(t, root.Nodes[29].SmoothAdhesion.Y, root.Nodes[31].SmoothAdhesion.Y, 1e-6)
		assert.Less(t, root.Nodes[30].SmoothAdhesion.Y, root.Nodes[29].SmoothAdhesion.Y)
		assert.Less(t, root.Nodes[30].SmoothAdhesion.Y, float32(0))
		assert.Zero(t, root.Nodes[0].SmoothAdhesion.Y)

		// Raw vectors are untouched
		assert.Equal(t, math.Vec3{Y: -1}, root.Nodes[30].Adhesion)
		assert.True(t, root.Nodes[29].Adhesion.IsZero())
	})

	t.Run("constant field is preserved", func(t *testing.T) {
		root := straightRoot(5, 0.1)
		for i := range root.Nodes {
			root.Nodes[i].Adhesion = math.Vec3{X: 0.5, Z: -0.25}
		}

		smoothAdhesion(root)

		for _, n := range root.Nodes {
			assert.InDelta(t, 0.5, n.SmoothAdhesion.X, 1e-5)
			assert.InDelta(t, -0.25, n.SmoothAdhesion.Z, 1e-5)
		}
	})

	t.Run("rerun gives the same result", func(t *testing.T) {
		root := straightRoot(12, 0.1)
		root.Nodes[3].Adhesion = math.Vec3{X: 1}

		smoothAdhesion(root)
		first := root.Nodes[4].SmoothAdhesion
		smoothAdhesion(root)
		assert.Equal(t, first, root.Nodes[4].SmoothAdhesion)
	})
}
