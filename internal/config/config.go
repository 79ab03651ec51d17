// Package config handles ivygen configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/ivygen/internal/ivy"
	"github.com/Faultbox/ivygen/internal/model"
	"github.com/Faultbox/ivygen/pkg/math"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Surface shapes usable without a mesh file.
const (
	ShapePlane = "plane"
	ShapeBox   = "box"
)

// Config holds all ivygen settings.
type Config struct {
	Growth   GrowthConfig   `yaml:"growth" toml:"growth"`
	Birth    BirthConfig    `yaml:"birth" toml:"birth"`
	Textures TexturesConfig `yaml:"textures" toml:"textures"`
	Surface  SurfaceConfig  `yaml:"surface" toml:"surface"`
	Seed     SeedConfig     `yaml:"seed" toml:"seed"`
	Run      RunConfig      `yaml:"run" toml:"run"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// GrowthConfig holds the growth knobs. Lengths are fractions of the
// surface's bounding radius.
type GrowthConfig struct {
	IvySize              float32 `yaml:"ivy_size" toml:"ivy_size"`
	MaxFloatLength       float32 `yaml:"max_float_length" toml:"max_float_length"`
	MaxAdhesionDistance  float32 `yaml:"max_adhesion_distance" toml:"max_adhesion_distance"`
	PrimaryWeight        float32 `yaml:"primary_weight" toml:"primary_weight"`
	RandomWeight         float32 `yaml:"random_weight" toml:"random_weight"`
	GravityWeight        float32 `yaml:"gravity_weight" toml:"gravity_weight"`
	AdhesionWeight       float32 `yaml:"adhesion_weight" toml:"adhesion_weight"`
	BranchingProbability float32 `yaml:"branching_probability" toml:"branching_probability"`
}

// BirthConfig holds the mesh synthesis knobs.
type BirthConfig struct {
	IvyLeafSize     float32 `yaml:"ivy_leaf_size" toml:"ivy_leaf_size"`
	IvyBranchSize   float32 `yaml:"ivy_branch_size" toml:"ivy_branch_size"`
	LeafProbability float32 `yaml:"leaf_probability" toml:"leaf_probability"`
}

// TexturesConfig holds the texture paths written to the material library.
type TexturesConfig struct {
	LeafAdult string `yaml:"leaf_adult" toml:"leaf_adult"`
	LeafYoung string `yaml:"leaf_young" toml:"leaf_young"`
	Branch    string `yaml:"branch" toml:"branch"`
}

// SurfaceConfig selects the surface to grow on: an OBJ file when Path is
// set, otherwise a built-in shape. The transform is applied as scale, then
// rotation about Y, then translation.
type SurfaceConfig struct {
	Path      string     `yaml:"path" toml:"path"`
	Shape     string     `yaml:"shape" toml:"shape"`           // plane or box
	Size      float32    `yaml:"size" toml:"size"`             // Half extent of the shape
	Position  [3]float32 `yaml:"position" toml:"position"`     // Translation
	Scale     float32    `yaml:"scale" toml:"scale"`           // Uniform scale
	RotationY float32    `yaml:"rotation_y" toml:"rotation_y"` // Degrees
}

// SeedConfig places the seed either at Position or where the ray from
// RayOrigin along RayDirection meets the surface.
type SeedConfig struct {
	UseRay       bool       `yaml:"use_ray" toml:"use_ray"`
	Position     [3]float32 `yaml:"position" toml:"position"`
	RayOrigin    [3]float32 `yaml:"ray_origin" toml:"ray_origin"`
	RayDirection [3]float32 `yaml:"ray_direction" toml:"ray_direction"`
	Mode2D       bool       `yaml:"mode_2d" toml:"mode_2d"` // Intersect the z = 0 plane instead
}

// RunConfig holds the growth loop settings.
type RunConfig struct {
	MaxSteps   int    `yaml:"max_steps" toml:"max_steps"`
	RandomSeed uint64 `yaml:"random_seed" toml:"random_seed"`
}

// OutputConfig holds the export settings.
type OutputConfig struct {
	Dir                 string `yaml:"dir" toml:"dir"`
	Name                string `yaml:"name" toml:"name"`
	MaxVerticesPerChunk int    `yaml:"max_vertices_per_chunk" toml:"max_vertices_per_chunk"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	p := ivy.DefaultParams()
	return &Config{
		Growth: GrowthConfig{
			IvySize:              p.IvySize,
			MaxFloatLength:       p.MaxFloatLength,
			MaxAdhesionDistance:  p.MaxAdhesionDistance,
			PrimaryWeight:        p.PrimaryWeight,
			RandomWeight:         p.RandomWeight,
			GravityWeight:        p.GravityWeight,
			AdhesionWeight:       p.AdhesionWeight,
			BranchingProbability: p.BranchingProbability,
		},
		Birth: BirthConfig{
			IvyLeafSize:     p.IvyLeafSize,
			IvyBranchSize:   p.IvyBranchSize,
			LeafProbability: p.LeafProbability,
		},
		Textures: TexturesConfig{
			LeafAdult: "textures/leaf_adult.png",
			LeafYoung: "textures/leaf_young.png",
			Branch:    "textures/branch.png",
		},
		Surface: SurfaceConfig{
			Shape: ShapeBox,
			Size:  1,
			Scale: 1,
		},
		Seed: SeedConfig{
			UseRay:       true,
			RayOrigin:    [3]float32{0.3, 5, 0.1},
			RayDirection: [3]float32{0, -1, 0},
		},
		Run: RunConfig{
			MaxSteps:   500,
			RandomSeed: 1,
		},
		Output: OutputConfig{
			Dir:                 ".",
			Name:                "ivy",
			MaxVerticesPerChunk: model.DefaultMaxVertices,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Params returns the ivy parameters described by the config.
func (c *Config) Params() ivy.Params {
	return ivy.Params{
		IvySize:              c.Growth.IvySize,
		IvyLeafSize:          c.Birth.IvyLeafSize,
		IvyBranchSize:        c.Birth.IvyBranchSize,
		MaxFloatLength:       c.Growth.MaxFloatLength,
		MaxAdhesionDistance:  c.Growth.MaxAdhesionDistance,
		PrimaryWeight:        c.Growth.PrimaryWeight,
		RandomWeight:         c.Growth.RandomWeight,
		GravityWeight:        c.Growth.GravityWeight,
		AdhesionWeight:       c.Growth.AdhesionWeight,
		BranchingProbability: c.Growth.BranchingProbability,
		LeafProbability:      c.Birth.LeafProbability,
	}
}

// TextureSet returns the birth texture paths.
func (c *Config) TextureSet() ivy.Textures {
	return ivy.Textures{
		LeafAdult: c.Textures.LeafAdult,
		LeafYoung: c.Textures.LeafYoung,
		Branch:    c.Textures.Branch,
	}
}

// Validate checks the config for values the generator cannot use.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Surface.Path == "" && c.Surface.Shape != ShapePlane && c.Surface.Shape != ShapeBox {
		return fmt.Errorf("surface shape %q: %w", c.Surface.Shape, ErrInvalidConfig)
	}
	if c.Surface.Scale <= 0 {
		return fmt.Errorf("surface scale %v: %w", c.Surface.Scale, ErrInvalidConfig)
	}
	if c.Seed.UseRay && !c.Seed.Mode2D && c.Seed.RayDirection == [3]float32{} {
		return fmt.Errorf("seed ray has no direction: %w", ErrInvalidConfig)
	}
	if c.Run.MaxSteps < 0 {
		return fmt.Errorf("max_steps %d: %w", c.Run.MaxSteps, ErrInvalidConfig)
	}
	if c.Output.Name == "" {
		return fmt.Errorf("empty output name: %w", ErrInvalidConfig)
	}
	return nil
}

// Transform returns the surface placement matrix.
func (s SurfaceConfig) Transform() math.Mat4 {
	angle := s.RotationY * math32.Pi / 180
	return math.Translate(s.Position[0], s.Position[1], s.Position[2]).
		Mul(math.RotateY(angle)).
		Mul(math.Scale(s.Scale, s.Scale, s.Scale))
}

// Vec converts a config triple into a vector.
func Vec(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
