package mesh

import (
	"fmt"

	"github.com/Faultbox/ivygen/pkg/math"
)

// Soup is a host-provided triangle soup with 0-based indices.
// Normals and UVs are optional; when present they are indexed like Positions.
type Soup struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Indices   []int
}

// FromSoup converts a triangle soup into a built mesh. Missing normals and
// UVs are backfilled with zero placeholders, and vertex normals are
// recomputed from the faces.
func FromSoup(s Soup) (*Mesh, error) {
	if len(s.Indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices is not a whole number of triangles: %w", len(s.Indices), ErrInvalidSoup)
	}

	m := New()
	m.Vertices = make([]Vertex, len(s.Positions))
	for i, p := range s.Positions {
		m.Vertices[i].Pos = p
	}

	m.Normals = make([]Normal, len(s.Positions))
	if len(s.Normals) > 0 {
		if len(s.Normals) != len(s.Positions) {
			return nil, fmt.Errorf("%d normals for %d positions: %w", len(s.Normals), len(s.Positions), ErrInvalidSoup)
		}
		for i, n := range s.Normals {
			m.Normals[i].Dir = n
		}
	}

	m.TexCoords = make([]TexCoord, len(s.Positions))
	if len(s.UVs) > 0 {
		if len(s.UVs) != len(s.Positions) {
			return nil, fmt.Errorf("%d uvs for %d positions: %w", len(s.UVs), len(s.Positions), ErrInvalidSoup)
		}
		for i, uv := range s.UVs {
			m.TexCoords[i].UV = uv
		}
	}

	m.Triangles = make([]Triangle, 0, len(s.Indices)/3)
	for i := 0; i < len(s.Indices); i += 3 {
		var t Triangle
		for k := 0; k < 3; k++ {
			idx := s.Indices[i+k]
			if idx < 0 || idx >= len(s.Positions) {
				return nil, fmt.Errorf("index %d at %d out of range: %w", idx, i+k, ErrInvalidSoup)
			}
			id := uint32(idx + 1)
			t.V[k], t.N[k], t.T[k] = id, id, id
		}
		m.Triangles = append(m.Triangles, t)
	}

	if err := m.Build(); err != nil {
		return nil, err
	}
	return m, nil
}
