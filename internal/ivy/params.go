package ivy

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid ivy parameters")

// Params holds the growth and birth knobs. Sizes and distances are
// fractions of the surface's bounding sphere radius.
type Params struct {
	IvySize       float32 // Step length
	IvyLeafSize   float32 // Leaf size relative to IvySize
	IvyBranchSize float32 // Branch radius relative to IvySize

	MaxFloatLength      float32 // Unattached length at which a root dies
	MaxAdhesionDistance float32 // Surface attraction cutoff

	PrimaryWeight  float32 // Weight of the previous direction
	RandomWeight   float32 // Weight of the random direction
	GravityWeight  float32 // Gravity strength, not normalized
	AdhesionWeight float32 // Weight of the surface attraction

	BranchingProbability float32 // Threshold for spawning a child root
	LeafProbability      float32 // Leaf density, 0 produces no leaves
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		IvySize:              0.005,
		IvyLeafSize:          1.5,
		IvyBranchSize:        0.15,
		MaxFloatLength:       0.1,
		MaxAdhesionDistance:  0.1,
		PrimaryWeight:        0.5,
		RandomWeight:         0.2,
		GravityWeight:        1.0,
		AdhesionWeight:       0.1,
		BranchingProbability: 0.95,
		LeafProbability:      0.7,
	}
}

// Validate rejects negative knobs.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float32
	}{
		{"ivy_size", p.IvySize},
		{"ivy_leaf_size", p.IvyLeafSize},
		{"ivy_branch_size", p.IvyBranchSize},
		{"max_float_length", p.MaxFloatLength},
		{"max_adhesion_distance", p.MaxAdhesionDistance},
		{"primary_weight", p.PrimaryWeight},
		{"random_weight", p.RandomWeight},
		{"gravity_weight", p.GravityWeight},
		{"adhesion_weight", p.AdhesionWeight},
		{"branching_probability", p.BranchingProbability},
		{"leaf_probability", p.LeafProbability},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%s = %v: %w", f.name, f.value, ErrInvalidParams)
		}
	}
	if p.LeafProbability > 1 {
		return fmt.Errorf("leaf_probability = %v exceeds 1: %w", p.LeafProbability, ErrInvalidParams)
	}
	return nil
}

// blend holds the normalized direction weights for one growth step.
type blend struct {
	primary, random, adhesion float32
}

// blendWeights normalizes the primary, random and adhesion weights to sum
// to 1. All three are zero when their sum is zero.
func (p Params) blendWeights() blend {
	sum := p.PrimaryWeight + p.RandomWeight + p.AdhesionWeight
	if sum <= 0 {
		return blend{}
	}
	return blend{
		primary:  p.PrimaryWeight / sum,
		random:   p.RandomWeight / sum,
		adhesion: p.AdhesionWeight / sum,
	}
}
