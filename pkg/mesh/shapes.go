package mesh

import "github.com/Faultbox/ivygen/pkg/math"

// Plane returns a built square of the given half size lying at height y,
// facing +Y.
func Plane(halfSize, y float32) *Mesh {
	s := Soup{
		Positions: []math.Vec3{
			{-halfSize, y, -halfSize},
			{-halfSize, y, halfSize},
			{halfSize, y, halfSize},
			{halfSize, y, -halfSize},
		},
		Indices: []int{0, 1, 2, 0, 2, 3},
	}
	return mustFromSoup(s)
}

// Box returns a built axis-aligned box with outward-facing triangles.
func Box(min, max math.Vec3) *Mesh {
	s := Soup{
		Positions: []math.Vec3{
			{min.X, min.Y, min.Z}, // 0
			{max.X, min.Y, min.Z}, // 1
			{max.X, max.Y, min.Z}, // 2
			{min.X, max.Y, min.Z}, // 3
			{min.X, min.Y, max.Z}, // 4
			{max.X, min.Y, max.Z}, // 5
			{max.X, max.Y, max.Z}, // 6
			{min.X, max.Y, max.Z}, // 7
		},
		Indices: []int{
			0, 2, 1, 0, 3, 2, // -Z
			4, 5, 6, 4, 6, 7, // +Z
			0, 4, 7, 0, 7, 3, // -X
			1, 2, 6, 1, 6, 5, // +X
			0, 1, 5, 0, 5, 4, // -Y
			3, 7, 6, 3, 6, 2, // +Y
		},
	}
	return mustFromSoup(s)
}

// mustFromSoup is FromSoup for the fixed index tables above. Those tables
// are whole triangles indexing only their own positions, so an error here
// is a programming mistake.
func mustFromSoup(s Soup) *Mesh {
	m, err := FromSoup(s)
	if err != nil {
		panic("mesh: invalid shape soup: " + err.Error())
	}
	return m
}
