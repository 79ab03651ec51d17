package ivy

import "github.com/Faultbox/ivygen/pkg/math"

// MaxParents is the deepest root that may still spawn children, giving a
// maximum hierarchy depth of MaxParents+1.
const MaxParents = 3

// Node is the recorded state of one growth step along a root.
type Node struct {
	Pos math.Vec3

	// PrimaryDir is the running weighted average of the travel direction.
	PrimaryDir math.Vec3

	// Adhesion is the raw attraction toward the nearest surface.
	Adhesion math.Vec3

	// SmoothAdhesion is Adhesion after birth smoothing; zero until Birth runs.
	SmoothAdhesion math.Vec3

	// Length is the cumulative length from the root's first node.
	Length float32

	// FloatingLength is the distance travelled since the last surface contact.
	FloatingLength float32

	// Climbing is set when this node's segment was reflected off the surface.
	Climbing bool
}

// Root is one branch: an append-only chain of nodes.
type Root struct {
	Nodes []Node
	Alive bool

	// Parents is the branching generation, 0 for the seed root.
	Parents int
}

// Last returns the most recent node.
func (r *Root) Last() *Node {
	return &r.Nodes[len(r.Nodes)-1]
}

// Length returns the cumulative length of the root.
func (r *Root) Length() float32 {
	if len(r.Nodes) == 0 {
		return 0
	}
	return r.Last().Length
}
