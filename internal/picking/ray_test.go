package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{X: 0, Y: 0, Z: 0}
	b := math.Vec3{X: 1, Y: 0, Z: 0}
	c := math.Vec3{X: 0, Y: 0, Z: 1}

	tests := []struct {
		name     string
		ray      Ray
		hit      bool
		distance float32
	}{
		{"straight down", NewRay(math.Vec3{X: 0.25, Y: 2, Z: 0.25}, math.Down), true, 2},
		{"from below", NewRay(math.Vec3{X: 0.25, Y: -1, Z: 0.25}, math.Up), true, 1},
		{"pointing away", NewRay(math.Vec3{X: 0.25, Y: 2, Z: 0.25}, math.Up), false, 0},
		{"outside", NewRay(math.Vec3{X: 0.9, Y: 2, Z: 0.9}, math.Down), false, 0},
		{"parallel", NewRay(math.Vec3{X: -1, Y: 0, Z: 0.25}, math.Vec3{X: 1}), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := tt.ray.IntersectTriangle(a, b, c)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.distance, d, 1e-5)
			}
		})
	}
}

func TestIntersectSphere(t *testing.T) {
	center := math.Vec3{Y: 5}

	d, hit := NewRay(math.Vec3{}, math.Up).IntersectSphere(center, 1)
	require.True(t, hit)
	assert.InDelta(t, 4, d, 1e-5)

	d, hit = NewRay(center, math.Up).IntersectSphere(center, 1)
	require.True(t, hit, "inside the sphere")
	assert.InDelta(t, 1, d, 1e-5)

	_, hit = NewRay(math.Vec3{}, math.Down).IntersectSphere(center, 1)
	assert.False(t, hit, "sphere behind origin")

	_, hit = NewRay(math.Vec3{X: 3}, math.Up).IntersectSphere(center, 1)
	assert.False(t, hit, "miss")
}

func TestIntersectMeshNearest(t *testing.T) {
	box := mesh.Box(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	hit, ok := NewRay(math.Vec3{X: 0.3, Y: 10, Z: 0.2}, math.Down).IntersectMesh(box)
	require.True(t, ok)
	assert.InDelta(t, 9, hit.T, 1e-4)
	assert.InDelta(t, 1, hit.Point.Y, 1e-4)
	assert.InDelta(t, 0.3, hit.Point.X, 1e-5)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-5, "top face")
	assert.GreaterOrEqual(t, hit.Triangle, 0)
}

func TestIntersectMeshMiss(t *testing.T) {
	box := mesh.Box(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	_, ok := NewRay(math.Vec3{X: 5, Y: 10}, math.Down).IntersectMesh(box)
	assert.False(t, ok)

	_, ok = NewRay(math.Vec3{}, math.Down).IntersectMesh(nil)
	assert.False(t, ok)

	_, ok = NewRay(math.Vec3{}, math.Down).IntersectMesh(mesh.New())
	assert.False(t, ok)
}

func TestIntersectPlaneZ(t *testing.T) {
	x, y, ok := NewRay(math.Vec3{X: 1, Y: 2, Z: -10}, math.Vec3{Z: 1}).IntersectPlaneZ(0)
	require.True(t, ok)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, 2, y, 1e-6)

	_, _, ok = NewRay(math.Vec3{Z: -10}, math.Vec3{Z: -1}).IntersectPlaneZ(0)
	assert.False(t, ok, "plane behind origin")

	_, _, ok = NewRay(math.Vec3{Z: -10}, math.Vec3{X: 1}).IntersectPlaneZ(0)
	assert.False(t, ok, "parallel")
}
