// Package model flattens a born ivy mesh into renderer-ready chunks.
package model

// DefaultMaxVertices is the per-object vertex budget of 16-bit indexed
// renderers, less a small margin.
const DefaultMaxVertices = 65000 - 2

// Vertex is an unindexed render vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Chunk is one renderable object: a run of triangles sharing a material.
// Every three consecutive vertices form a triangle.
type Chunk struct {
	Name     string
	Material string
	TexFile  string
	Vertices []Vertex
	Bounds   Bounds
}

// Triangles returns the number of triangles in the chunk.
func (c *Chunk) Triangles() int {
	return len(c.Vertices) / 3
}

// Bounds holds the axis-aligned bounding box of a chunk.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// BuildOptions contains options for chunk building.
type BuildOptions struct {
	// MaxVertices caps the vertices per chunk. It is rounded down to a
	// multiple of 3; zero selects DefaultMaxVertices.
	MaxVertices int
}

func (o BuildOptions) limit() int {
	n := o.MaxVertices
	if n <= 0 {
		n = DefaultMaxVertices
	}
	n -= n % 3
	if n < 3 {
		n = 3
	}
	return n
}
