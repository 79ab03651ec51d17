package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ivygen/pkg/math"
)

func TestFromSoupBackfillsAttributes(t *testing.T) {
	s := Soup{
		Positions: []math.Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}},
		Indices:   []int{0, 1, 2},
	}

	m, err := FromSoup(s)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 3)
	assert.Len(t, m.Normals, 3)
	assert.Len(t, m.TexCoords, 3)
	assert.Equal(t, [3]uint32{1, 2, 3}, m.Triangles[0].V)
	assert.Equal(t, [3]uint32{1, 2, 3}, m.Triangles[0].T)

	// Normals recomputed from the face
	assert.InDelta(t, 1, m.Normals[0].Dir.Y, 1e-6)
	assert.InDelta(t, 1, m.Triangles[0].Norm.Y, 1e-6)
}

func TestFromSoupKeepsUVs(t *testing.T) {
	s := Soup{
		Positions: []math.Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}},
		UVs:       []math.Vec2{{0, 0}, {0, 1}, {1, 0}},
		Indices:   []int{0, 1, 2},
	}

	m, err := FromSoup(s)
	require.NoError(t, err)
	assert.Equal(t, math.Vec2{0, 1}, m.Triangles[0].TexCoords[1].UV)
}

func TestFromSoupErrors(t *testing.T) {
	pos := []math.Vec3{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}}

	tests := []struct {
		name string
		soup Soup
	}{
		{"partial triangle", Soup{Positions: pos, Indices: []int{0, 1}}},
		{"index out of range", Soup{Positions: pos, Indices: []int{0, 1, 3}}},
		{"negative index", Soup{Positions: pos, Indices: []int{0, -1, 2}}},
		{"normal count mismatch", Soup{Positions: pos, Normals: []math.Vec3{{0, 1, 0}}, Indices: []int{0, 1, 2}}},
		{"uv count mismatch", Soup{Positions: pos, UVs: []math.Vec2{{0, 0}}, Indices: []int{0, 1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSoup(tt.soup)
			assert.ErrorIs(t, err, ErrInvalidSoup)
		})
	}
}

func TestFromSoupEmpty(t *testing.T) {
	m, err := FromSoup(Soup{})
	require.NoError(t, err)
	assert.Empty(t, m.Triangles)
	assert.Equal(t, float32(1), m.BoundingSphereRadius)
}
