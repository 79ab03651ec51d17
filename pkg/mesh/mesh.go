// Package mesh provides an id-referenced triangle mesh.
//
// Triangles store 1-based ids into the mesh's vertex, normal, texcoord and
// material sequences (0 means unset). Ids are resolved into direct references
// by PrepareData, which must run again after any structural change.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/ivygen/pkg/math"
)

// Mesh errors.
var (
	ErrInvalidID   = errors.New("invalid element id")
	ErrInvalidSoup = errors.New("invalid triangle soup")
)

// Vertex is a mesh position.
type Vertex struct {
	Pos math.Vec3
}

// Normal is a mesh normal direction.
type Normal struct {
	Dir math.Vec3
}

// TexCoord is a mesh texture coordinate.
type TexCoord struct {
	UV math.Vec2
}

// Material is a single-texture material.
type Material struct {
	ID      uint32
	Name    string
	TexFile string
}

// Triangle references its corners by 1-based id.
type Triangle struct {
	V     [3]uint32 // vertex ids
	N     [3]uint32 // normal ids (0 = none)
	T     [3]uint32 // texcoord ids (0 = none)
	MatID uint32    // material id (0 = none)

	// Norm is the face normal, computed by CalculateVertexNormals.
	Norm math.Vec3

	// Resolved by PrepareData.
	Verts     [3]*Vertex
	Normals   [3]*Normal
	TexCoords [3]*TexCoord
	Mat       *Material
}

// Mesh is a triangle mesh with a derived bounding sphere.
type Mesh struct {
	Vertices  []Vertex
	Normals   []Normal
	TexCoords []TexCoord
	Materials []Material
	Triangles []Triangle

	BoundingSpherePos    math.Vec3
	BoundingSphereRadius float32
}

// New returns an empty mesh.
func New() *Mesh {
	m := &Mesh{}
	m.Reset()
	return m
}

// Reset clears all geometry and restores the unit bounding sphere.
func (m *Mesh) Reset() {
	m.Vertices = nil
	m.Normals = nil
	m.TexCoords = nil
	m.Materials = nil
	m.Triangles = nil
	m.BoundingSpherePos = math.Vec3{}
	m.BoundingSphereRadius = 1
}

// AddVertex appends a vertex and returns its id.
func (m *Mesh) AddVertex(p math.Vec3) uint32 {
	m.Vertices = append(m.Vertices, Vertex{Pos: p})
	return uint32(len(m.Vertices))
}

// AddNormal appends a normal and returns its id.
func (m *Mesh) AddNormal(d math.Vec3) uint32 {
	m.Normals = append(m.Normals, Normal{Dir: d})
	return uint32(len(m.Normals))
}

// AddTexCoord appends a texture coordinate and returns its id.
func (m *Mesh) AddTexCoord(uv math.Vec2) uint32 {
	m.TexCoords = append(m.TexCoords, TexCoord{UV: uv})
	return uint32(len(m.TexCoords))
}

// AddMaterial appends a material, assigns it the next id and returns it.
func (m *Mesh) AddMaterial(name, texFile string) uint32 {
	id := uint32(len(m.Materials) + 1)
	m.Materials = append(m.Materials, Material{ID: id, Name: name, TexFile: texFile})
	return id
}

// MaterialByName returns the id of the named material, or 0.
func (m *Mesh) MaterialByName(name string) uint32 {
	for _, mat := range m.Materials {
		if mat.Name == name {
			return mat.ID
		}
	}
	return 0
}

// PrepareData resolves triangle ids into references and recomputes the
// bounding sphere. A mesh without vertices keeps a unit radius.
func (m *Mesh) PrepareData() error {
	for i := range m.Triangles {
		t := &m.Triangles[i]
		for k := 0; k < 3; k++ {
			if t.V[k] == 0 || int(t.V[k]) > len(m.Vertices) {
				return fmt.Errorf("triangle %d: vertex id %d of %d: %w", i, t.V[k], len(m.Vertices), ErrInvalidID)
			}
			t.Verts[k] = &m.Vertices[t.V[k]-1]

			t.Normals[k] = nil
			if t.N[k] != 0 {
				if int(t.N[k]) > len(m.Normals) {
					return fmt.Errorf("triangle %d: normal id %d of %d: %w", i, t.N[k], len(m.Normals), ErrInvalidID)
				}
				t.Normals[k] = &m.Normals[t.N[k]-1]
			}

			t.TexCoords[k] = nil
			if t.T[k] != 0 {
				if int(t.T[k]) > len(m.TexCoords) {
					return fmt.Errorf("triangle %d: texcoord id %d of %d: %w", i, t.T[k], len(m.TexCoords), ErrInvalidID)
				}
				t.TexCoords[k] = &m.TexCoords[t.T[k]-1]
			}
		}

		t.Mat = nil
		if t.MatID != 0 {
			if int(t.MatID) > len(m.Materials) {
				return fmt.Errorf("triangle %d: material id %d of %d: %w", i, t.MatID, len(m.Materials), ErrInvalidID)
			}
			t.Mat = &m.Materials[t.MatID-1]
		}
	}

	if len(m.Vertices) == 0 {
		m.BoundingSpherePos = math.Vec3{}
		m.BoundingSphereRadius = 1
		return nil
	}

	var center math.Vec3
	for _, v := range m.Vertices {
		center = center.Add(v.Pos)
	}
	center = center.Scale(1 / float32(len(m.Vertices)))

	var radius float32
	for _, v := range m.Vertices {
		radius = math32.Max(radius, v.Pos.Distance(center))
	}

	m.BoundingSpherePos = center
	m.BoundingSphereRadius = radius
	return nil
}

// CalculateVertexNormals recomputes face normals and replaces the normal
// sequence with one averaged normal per vertex. Normal ids are set to the
// vertex ids; call PrepareData afterwards to re-resolve references.
func (m *Mesh) CalculateVertexNormals() {
	m.Normals = make([]Normal, len(m.Vertices))

	for i := range m.Triangles {
		t := &m.Triangles[i]
		p0 := m.Vertices[t.V[0]-1].Pos
		p1 := m.Vertices[t.V[1]-1].Pos
		p2 := m.Vertices[t.V[2]-1].Pos
		t.Norm = p0.Sub(p1).Cross(p1.Sub(p2)).Normalize()

		for k := 0; k < 3; k++ {
			t.N[k] = t.V[k]
			n := &m.Normals[t.N[k]-1]
			n.Dir = n.Dir.Add(t.Norm)
		}
	}

	for i := range m.Normals {
		m.Normals[i].Dir = m.Normals[i].Dir.Normalize()
	}
}

// Build resolves ids, recomputes vertex normals and resolves again.
func (m *Mesh) Build() error {
	if err := m.PrepareData(); err != nil {
		return err
	}
	m.CalculateVertexNormals()
	return m.PrepareData()
}

// FlipNormals inverts face and vertex normals.
func (m *Mesh) FlipNormals() {
	for i := range m.Triangles {
		m.Triangles[i].Norm = m.Triangles[i].Norm.Neg()
	}
	for i := range m.Normals {
		m.Normals[i].Dir = m.Normals[i].Dir.Neg()
	}
}

// Transform moves every vertex by mat and rebuilds normals and bounds.
func (m *Mesh) Transform(mat math.Mat4) error {
	for i := range m.Vertices {
		m.Vertices[i].Pos = mat.TransformPoint(m.Vertices[i].Pos)
	}
	return m.Build()
}

// TrianglesByMaterial counts triangles per material id.
func (m *Mesh) TrianglesByMaterial() map[uint32]int {
	counts := make(map[uint32]int)
	for _, t := range m.Triangles {
		counts[t.MatID]++
	}
	return counts
}
