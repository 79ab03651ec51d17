package model

import (
	"fmt"

	"github.com/Faultbox/ivygen/pkg/mesh"
)

// untextured names chunks of triangles without a material.
const untextured = "default"

// BuildChunks splits m by material and flattens each material's triangles
// into chunks of at most opts.MaxVertices vertices. Chunks follow material
// order, with unassigned triangles last; a triangle is never split across
// chunks. m must have been prepared.
func BuildChunks(m *mesh.Mesh, opts BuildOptions) []Chunk {
	if m == nil || len(m.Triangles) == 0 {
		return nil
	}
	limit := opts.limit()

	groups := make(map[uint32][]*mesh.Triangle)
	for i := range m.Triangles {
		t := &m.Triangles[i]
		groups[t.MatID] = append(groups[t.MatID], t)
	}

	order := make([]uint32, 0, len(m.Materials)+1)
	for _, mat := range m.Materials {
		order = append(order, mat.ID)
	}
	order = append(order, 0)

	var chunks []Chunk
	for _, id := range order {
		tris := groups[id]
		if len(tris) == 0 {
			continue
		}

		name, tex := untextured, ""
		if id != 0 {
			mat := m.Materials[id-1]
			name, tex = mat.Name, mat.TexFile
		}

		for start, index := 0, 0; start < len(tris); index++ {
			end := min(start+limit/3, len(tris))
			chunk := Chunk{
				Name:     fmt.Sprintf("%s_%d", name, index),
				Material: name,
				TexFile:  tex,
				Vertices: make([]Vertex, 0, (end-start)*3),
				Bounds: Bounds{
					Min: [3]float32{1e10, 1e10, 1e10},
					Max: [3]float32{-1e10, -1e10, -1e10},
				},
			}

			for _, t := range tris[start:end] {
				for k := 0; k < 3; k++ {
					v := vertexOf(t, k)
					updateBounds(&chunk.Bounds, v.Position)
					chunk.Vertices = append(chunk.Vertices, v)
				}
			}

			chunks = append(chunks, chunk)
			start = end
		}
	}
	return chunks
}

// vertexOf reads corner k of a resolved triangle. Missing normals fall back
// to the face normal and missing texcoords to zero.
func vertexOf(t *mesh.Triangle, k int) Vertex {
	p := t.Verts[k].Pos
	n := t.Norm
	if t.Normals[k] != nil {
		n = t.Normals[k].Dir
	}

	var uv [2]float32
	if t.TexCoords[k] != nil {
		uv = [2]float32{t.TexCoords[k].UV.X, t.TexCoords[k].UV.Y}
	}

	return Vertex{
		Position: [3]float32{p.X, p.Y, p.Z},
		Normal:   [3]float32{n.X, n.Y, n.Z},
		TexCoord: uv,
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
