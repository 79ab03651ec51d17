package ivy

import (
	"math/rand/v2"

	"github.com/Faultbox/ivygen/pkg/math"
)

// Rand is the random source consumed by growth and birth. Every draw is a
// uniform value in [0, 1); the order of draws is fixed, so identical seeds
// reproduce identical ivy.
type Rand interface {
	Float32() float32
}

// NewRand returns a seeded PCG source.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// rangeF returns a uniform value in [min, max).
func rangeF(r Rand, min, max float32) float32 {
	return min + r.Float32()*(max-min)
}

// jitter returns a vector with components uniform in [-0.5, 0.5), drawn
// in x, y, z order.
func jitter(r Rand) math.Vec3 {
	x := rangeF(r, -0.5, 0.5)
	y := rangeF(r, -0.5, 0.5)
	z := rangeF(r, -0.5, 0.5)
	return math.Vec3{X: x, Y: y, Z: z}
}
