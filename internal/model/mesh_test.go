package model

import (
	"testing"

	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// stripMesh builds n separate triangles per material name, plus extra
// triangles without a material.
func stripMesh(t *testing.T, perMaterial map[string]int, order []string, untextured int) *mesh.Mesh {
	t.Helper()

	m := mesh.New()
	add := func(mat uint32, x float32) {
		a := m.AddVertex(math.Vec3{X: x})
		b := m.AddVertex(math.Vec3{X: x + 1})
		c := m.AddVertex(math.Vec3{X: x, Y: 1})
		uv := m.AddTexCoord(math.Vec2{X: 0.5, Y: 0.25})
		m.Triangles = append(m.Triangles, mesh.Triangle{
			V:     [3]uint32{a, b, c},
			T:     [3]uint32{uv, uv, uv},
			MatID: mat,
		})
	}

	var x float32
	for _, name := range order {
		id := m.AddMaterial(name, name+".png")
		for i := 0; i < perMaterial[name]; i++ {
			add(id, x)
			x++
		}
	}
	for i := 0; i < untextured; i++ {
		add(0, x)
		x++
	}

	if err := m.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func TestBuildChunksEmpty(t *testing.T) {
	if chunks := BuildChunks(nil, BuildOptions{}); chunks != nil {
		t.Errorf("expected no chunks for nil mesh, got %d", len(chunks))
	}
	if chunks := BuildChunks(mesh.New(), BuildOptions{}); chunks != nil {
		t.Errorf("expected no chunks for empty mesh, got %d", len(chunks))
	}
}

func TestBuildChunksByMaterial(t *testing.T) {
	m := stripMesh(t, map[string]int{"leaf_adult": 2, "leaf_young": 0, "branch": 3},
		[]string{"leaf_adult", "leaf_young", "branch"}, 1)

	chunks := BuildChunks(m, BuildOptions{})

	want := []struct {
		name, material, tex string
		triangles           int
	}{
		{"leaf_adult_0", "leaf_adult", "leaf_adult.png", 2},
		{"branch_0", "branch", "branch.png", 3},
		{"default_0", "default", "", 1},
	}

	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		c := chunks[i]
		if c.Name != w.name || c.Material != w.material || c.TexFile != w.tex {
			t.Errorf("chunk %d: got (%s, %s, %s), want (%s, %s, %s)",
				i, c.Name, c.Material, c.TexFile, w.name, w.material, w.tex)
		}
		if c.Triangles() != w.triangles {
			t.Errorf("chunk %d: expected %d triangles, got %d", i, w.triangles, c.Triangles())
		}
	}
}

func TestBuildChunksSplitsOnBudget(t *testing.T) {
	m := stripMesh(t, map[string]int{"branch": 10}, []string{"branch"}, 0)

	// 8 rounds down to 6 vertices: two triangles per chunk
	chunks := BuildChunks(m, BuildOptions{MaxVertices: 8})

	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}
	total := 0
	for i, c := range chunks {
		if len(c.Vertices) > 6 {
			t.Errorf("chunk %d has %d vertices, budget is 6", i, len(c.Vertices))
		}
		if len(c.Vertices)%3 != 0 {
			t.Errorf("chunk %d splits a triangle: %d vertices", i, len(c.Vertices))
		}
		total += c.Triangles()
	}
	if total != 10 {
		t.Errorf("expected 10 triangles across chunks, got %d", total)
	}
	if chunks[4].Name != "branch_4" {
		t.Errorf("expected last chunk branch_4, got %s", chunks[4].Name)
	}
}

func TestBuildChunksVertexData(t *testing.T) {
	m := stripMesh(t, map[string]int{"branch": 1}, []string{"branch"}, 0)

	chunks := BuildChunks(m, BuildOptions{})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]

	if c.Vertices[1].Position != [3]float32{1, 0, 0} {
		t.Errorf("unexpected position %v", c.Vertices[1].Position)
	}
	if c.Vertices[0].TexCoord != [2]float32{0.5, 0.25} {
		t.Errorf("unexpected texcoord %v", c.Vertices[0].TexCoord)
	}
	// Counter-clockwise in XY, so the normal faces +Z
	for i, v := range c.Vertices {
		if v.Normal[2] < 0.99 {
			t.Errorf("vertex %d: expected +Z normal, got %v", i, v.Normal)
		}
	}
	if c.Bounds.Min != [3]float32{0, 0, 0} || c.Bounds.Max != [3]float32{1, 1, 0} {
		t.Errorf("unexpected bounds %+v", c.Bounds)
	}
}

func TestBuildOptionsLimit(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{0, DefaultMaxVertices},
		{-5, DefaultMaxVertices},
		{1, 3},
		{7, 6},
		{9, 9},
	}
	for _, tt := range tests {
		if got := (BuildOptions{MaxVertices: tt.max}).limit(); got != tt.want {
			t.Errorf("limit(%d) = %d, want %d", tt.max, got, tt.want)
		}
	}
	if DefaultMaxVertices%3 != 0 {
		t.Errorf("default budget %d is not a whole number of triangles", DefaultMaxVertices)
	}
}
