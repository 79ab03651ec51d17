package ivy

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/ivygen/internal/logger"
	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// upBias lifts the random growth direction slightly.
var upBias = math.Vec3{Y: 0.2}

// StepStats summarizes one call to Grow.
type StepStats struct {
	Stepped int // roots that appended a node
	Died    int // roots that died during this step
	Spawned int // child roots created (0 or 1)
}

// Grow advances every living root by one node, then spawns at most one
// child root. Dead roots are skipped; a root never comes back to life.
func (iv *Ivy) Grow(surface *mesh.Mesh) StepStats {
	var stats StepStats

	radius := scale(surface)
	ivySize := radius * iv.Params.IvySize
	maxFloatLength := radius * iv.Params.MaxFloatLength
	w := iv.Params.blendWeights()

	// Children appended below are not stepped until the next call
	roots := iv.Roots
	for ri, root := range roots {
		if !root.Alive {
			continue
		}

		last := *root.Last()
		if last.FloatingLength > maxFloatLength {
			root.Alive = false
			stats.Died++
			continue
		}

		randomDir := jitter(iv.rng).Add(upBias).Normalize()
		adhesion := iv.ComputeAdhesion(surface, last.Pos)

		grow := last.PrimaryDir.Scale(w.primary).
			Add(randomDir.Scale(w.random)).
			Add(adhesion.Scale(w.adhesion)).
			Scale(ivySize)

		gravity := math.Down.Scale(ivySize * iv.Params.GravityWeight)
		if maxFloatLength > 0 {
			gravity = gravity.Scale(math32.Pow(last.FloatingLength/maxFloatLength, 0.7))
		} else {
			gravity = math.Vec3{}
		}

		newPos, climbing, ok := iv.ComputeCollision(surface, last.Pos, last.Pos.Add(grow).Add(gravity))
		if !ok {
			// The attempted node is kept as the dead tip
			root.Alive = false
			stats.Died++
			logger.Debug("root died in collision deadlock",
				zap.Int("root", ri),
				zap.Int("nodes", len(root.Nodes)))
		}

		// Travel without gravity, after collision correction
		grow = newPos.Sub(last.Pos).Sub(gravity)
		step := newPos.Distance(last.Pos)

		node := Node{
			Pos:        newPos,
			PrimaryDir: last.PrimaryDir.Scale(0.5).Add(grow.Normalize().Scale(0.5)).Normalize(),
			Adhesion:   adhesion,
			Length:     last.Length + step,
			Climbing:   climbing,
		}
		if !climbing {
			node.FloatingLength = last.FloatingLength + step
		}
		root.Nodes = append(root.Nodes, node)
		stats.Stepped++
	}

	if iv.branch() {
		stats.Spawned++
	}
	return stats
}

// branch scans the living roots and spawns at most one child root at a
// node chosen with probability peaking at mid-length. It reports whether
// a child was created.
func (iv *Ivy) branch() bool {
	for _, root := range iv.Roots {
		if !root.Alive || root.Parents > MaxParents {
			continue
		}

		total := root.Length()
		if total <= 0 {
			continue
		}

		for _, node := range root.Nodes {
			weight := 1 - (math32.Cos(node.Length/total*2*math32.Pi)*0.5 + 0.5)
			probability := iv.rng.Float32()

			if probability*weight > iv.Params.BranchingProbability {
				iv.Roots = append(iv.Roots, &Root{
					Nodes: []Node{{
						Pos:            node.Pos,
						PrimaryDir:     math.Up,
						FloatingLength: node.FloatingLength,
						Climbing:       true,
					}},
					Alive:   true,
					Parents: root.Parents + 1,
				})
				return true
			}
		}
	}
	return false
}
