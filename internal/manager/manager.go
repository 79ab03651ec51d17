// Package manager drives an ivy over a loaded surface on behalf of a host.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/ivygen/internal/ivy"
	"github.com/Faultbox/ivygen/internal/logger"
	"github.com/Faultbox/ivygen/internal/model"
	"github.com/Faultbox/ivygen/internal/picking"
	"github.com/Faultbox/ivygen/pkg/formats"
	"github.com/Faultbox/ivygen/pkg/math"
	"github.com/Faultbox/ivygen/pkg/mesh"
)

// Manager errors.
var (
	ErrNoSurface  = errors.New("no surface loaded")
	ErrNotSeeded  = errors.New("ivy not seeded")
	ErrNotBorn    = errors.New("ivy not born")
	ErrSeedMiss   = errors.New("seed ray missed the surface")
	ErrNilSurface = errors.New("nil surface")
)

// Options configures a Manager.
type Options struct {
	Params     ivy.Params
	Textures   ivy.Textures
	RandomSeed uint64
}

// Status is a snapshot of the manager state.
type Status struct {
	Surface   bool
	Seeded    bool
	Steps     int
	Roots     int
	Living    int
	Nodes     int
	Born      bool
	Triangles int
}

// Manager owns the surface, the growing ivy and the born mesh. Every
// exported method is a single critical section.
type Manager struct {
	opts    Options
	surface *mesh.Mesh
	ivy     *ivy.Ivy
	born    *mesh.Mesh
	steps   int
	mu      sync.Mutex
}

// NewManager creates a manager after validating the growth parameters.
func NewManager(opts Options) (*Manager, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	return &Manager{opts: opts}, nil
}

// LoadSurface installs m as the growth surface, rebuilding its normals and
// bounds. Any previous growth is discarded.
func (m *Manager) LoadSurface(surface *mesh.Mesh) error {
	if surface == nil {
		return ErrNilSurface
	}

	// Build mutates the mesh, which may be the one Step is reading.
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := surface.Build(); err != nil {
		return fmt.Errorf("building surface: %w", err)
	}

	m.surface = surface
	m.ivy = nil
	m.born = nil
	m.steps = 0

	logger.Info("surface loaded",
		zap.Int("vertices", len(surface.Vertices)),
		zap.Int("triangles", len(surface.Triangles)),
		zap.Float32("radius", surface.BoundingSphereRadius))
	return nil
}

// LoadSurfaceSoup converts a host triangle soup and loads it as the surface.
func (m *Manager) LoadSurfaceSoup(s mesh.Soup) error {
	surface, err := mesh.FromSoup(s)
	if err != nil {
		return err
	}
	return m.LoadSurface(surface)
}

// PlaceSeed starts a fresh ivy at pos.
func (m *Manager) PlaceSeed(pos math.Vec3) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placeSeed(pos)
}

// PlaceSeedRay seeds where ray first meets the surface. In 2D mode the ray
// is intersected with the z = 0 plane instead.
func (m *Manager) PlaceSeedRay(ray picking.Ray, mode2D bool) (math.Vec3, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.surface == nil {
		return math.Vec3{}, ErrNoSurface
	}

	var pos math.Vec3
	if mode2D {
		x, y, ok := ray.IntersectPlaneZ(0)
		if !ok {
			return math.Vec3{}, ErrSeedMiss
		}
		pos = math.Vec3{X: x, Y: y}
	} else {
		hit, ok := ray.IntersectMesh(m.surface)
		if !ok {
			return math.Vec3{}, ErrSeedMiss
		}
		pos = hit.Point
	}

	return pos, m.placeSeed(pos)
}

func (m *Manager) placeSeed(pos math.Vec3) error {
	if m.surface == nil {
		return ErrNoSurface
	}

	m.ivy = ivy.New(m.opts.Params, ivy.NewRand(m.opts.RandomSeed))
	m.ivy.Seed(pos)
	m.born = nil
	m.steps = 0

	logger.Info("ivy seeded",
		zap.Float32("x", pos.X),
		zap.Float32("y", pos.Y),
		zap.Float32("z", pos.Z))
	return nil
}

// Step advances the ivy by one growth step.
func (m *Manager) Step() (ivy.StepStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ivy == nil {
		return ivy.StepStats{}, ErrNotSeeded
	}
	return m.step(), nil
}

func (m *Manager) step() ivy.StepStats {
	stats := m.ivy.Grow(m.surface)
	m.steps++
	return stats
}

// Run steps the ivy until every root has died, maxSteps steps have run, or
// ctx is done. It returns the number of steps taken.
func (m *Manager) Run(ctx context.Context, maxSteps int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ivy == nil {
		return 0, ErrNotSeeded
	}

	n := 0
	for n < maxSteps && m.ivy.Alive() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		m.step()
		n++
	}

	logger.Info("growth finished",
		zap.Int("steps", n),
		zap.Int("roots", len(m.ivy.Roots)),
		zap.Int("living", m.ivy.LivingBranches()),
		zap.Int("nodes", m.ivy.NodeCount()))
	return n, nil
}

// Birth synthesizes the leaf and branch mesh from the current growth.
func (m *Manager) Birth() (*mesh.Mesh, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ivy == nil {
		return nil, ErrNotSeeded
	}

	born, err := m.ivy.Birth(m.surface, m.opts.Textures)
	if err != nil {
		return nil, err
	}
	m.born = born

	counts := born.TrianglesByMaterial()
	logger.Info("ivy born",
		zap.Int("vertices", len(born.Vertices)),
		zap.Int("leaf_adult", counts[ivy.MatLeafAdult]),
		zap.Int("leaf_young", counts[ivy.MatLeafYoung]),
		zap.Int("branch", counts[ivy.MatBranch]))
	return born, nil
}

// Export writes the born mesh as <name>.obj and <name>.mtl into dir.
func (m *Manager) Export(dir, name string) (objPath, mtlPath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.born == nil {
		return "", "", ErrNotBorn
	}

	objPath, mtlPath, err = formats.WriteOBJ(dir, name, m.born)
	if err != nil {
		return "", "", err
	}

	logger.Info("ivy exported", zap.String("obj", objPath), zap.String("mtl", mtlPath))
	return objPath, mtlPath, nil
}

// Chunks flattens the born mesh into renderer chunks.
func (m *Manager) Chunks(opts model.BuildOptions) ([]model.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.born == nil {
		return nil, ErrNotBorn
	}
	return model.BuildChunks(m.born, opts), nil
}

// Status returns a snapshot of the manager state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{
		Surface: m.surface != nil,
		Steps:   m.steps,
	}
	if m.ivy != nil {
		s.Seeded = true
		s.Roots = len(m.ivy.Roots)
		s.Living = m.ivy.LivingBranches()
		s.Nodes = m.ivy.NodeCount()
	}
	if m.born != nil {
		s.Born = true
		s.Triangles = len(m.born.Triangles)
	}
	return s
}
