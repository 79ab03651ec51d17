package main

import (
	"fmt"

	"github.com/Faultbox/ivygen/internal/config"
	"github.com/Faultbox/ivygen/pkg/formats"
	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// loadSurface reads the configured surface and applies its placement.
func loadSurface(cfg config.SurfaceConfig) (*mesh.Mesh, error) {
	var surface *mesh.Mesh
	switch {
	case cfg.Path != "":
		obj, err := formats.LoadOBJ(cfg.Path)
		if err != nil {
			return nil, err
		}
		surface = obj.Mesh
	case cfg.Shape == config.ShapePlane:
		surface = mesh.Plane(cfg.Size, 0)
	case cfg.Shape == config.ShapeBox:
		s := cfg.Size
		surface = mesh.Box(math.Vec3{X: -s, Y: -s, Z: -s}, math.Vec3{X: s, Y: s, Z: s})
	default:
		return nil, fmt.Errorf("surface shape %q: %w", cfg.Shape, config.ErrInvalidConfig)
	}

	if err := surface.Transform(cfg.Transform()); err != nil {
		return nil, fmt.Errorf("placing surface: %w", err)
	}
	return surface, nil
}
