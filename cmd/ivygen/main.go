// ivygen grows procedural ivy over a surface mesh and exports it as OBJ.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/ivygen/internal/config"
	"github.com/Faultbox/ivygen/internal/logger"
	"github.com/Faultbox/ivygen/internal/manager"
	"github.com/Faultbox/ivygen/internal/model"
	"github.com/Faultbox/ivygen/internal/picking"
	"github.com/Faultbox/ivygen/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "grow":
		cmdGrow(args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ivygen - procedural ivy generator

Usage:
  ivygen <command> [options]

Commands:
  grow [flags]          Grow ivy on a surface and export <name>.obj/.mtl
  info <file.obj>       Show mesh statistics
  config [flags] [path] Write the effective config (default: user config dir)

Grow flags:
  -config <file>        Config file (.yaml, .yml or .toml)
  -surface <file.obj>   Surface mesh (default: built-in shape from config)
  -out <dir>            Output directory
  -name <name>          Output base name
  -steps <n>            Maximum growth steps
  -rng-seed <n>         Random seed
  -debug                Enable debug logging

Examples:
  ivygen grow -surface wall.obj -steps 800 -out ./export
  ivygen grow -config ivygen.toml -name arch
  ivygen info export/ivy.obj
  ivygen config -steps 800 ivygen.toml`)
}

func cmdGrow(args []string) {
	// Parse CLI flags first
	if err := config.ParseFlags(args); err != nil {
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := grow(ctx, cfg); err != nil {
		logger.Error("grow failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// grow runs one full generation: surface, seed, growth, birth, export.
func grow(ctx context.Context, cfg *config.Config) error {
	mgr, err := manager.NewManager(manager.Options{
		Params:     cfg.Params(),
		Textures:   cfg.TextureSet(),
		RandomSeed: cfg.Run.RandomSeed,
	})
	if err != nil {
		return err
	}

	surface, err := loadSurface(cfg.Surface)
	if err != nil {
		return err
	}
	if err := mgr.LoadSurface(surface); err != nil {
		return err
	}

	if cfg.Seed.UseRay {
		ray := picking.NewRay(config.Vec(cfg.Seed.RayOrigin), config.Vec(cfg.Seed.RayDirection))
		if _, err := mgr.PlaceSeedRay(ray, cfg.Seed.Mode2D); err != nil {
			return err
		}
	} else if err := mgr.PlaceSeed(config.Vec(cfg.Seed.Position)); err != nil {
		return err
	}

	if _, err := mgr.Run(ctx, cfg.Run.MaxSteps); err != nil {
		return err
	}

	if _, err := mgr.Birth(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return err
	}
	if _, _, err := mgr.Export(cfg.Output.Dir, cfg.Output.Name); err != nil {
		return err
	}

	chunks, err := mgr.Chunks(model.BuildOptions{MaxVertices: cfg.Output.MaxVerticesPerChunk})
	if err != nil {
		return err
	}
	for _, c := range chunks {
		logger.Debug("render chunk",
			zap.String("name", c.Name),
			zap.String("texture", c.TexFile),
			zap.Int("vertices", len(c.Vertices)))
	}
	logger.Info("done", zap.Int("chunks", len(chunks)))
	return nil
}

func cmdConfig(args []string) {
	if err := config.ParseFlags(args); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	var path string
	if rest := config.Args(); len(rest) > 0 {
		path = rest[0]
	}
	written, err := writeConfig(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config written to %s\n", written)
}

// writeConfig saves cfg to path, or to the user config directory when path
// is empty, and returns where it went.
func writeConfig(cfg *config.Config, path string) (string, error) {
	if path == "" {
		return filepath.Join(config.ConfigDir(), "config.yaml"), cfg.Save()
	}
	return path, cfg.SaveTo(path)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ivygen info <file.obj>")
		os.Exit(1)
	}

	obj, err := formats.LoadOBJ(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	m := obj.Mesh

	fmt.Printf("Mesh:      %s\n", args[0])
	fmt.Printf("Vertices:  %d\n", len(m.Vertices))
	fmt.Printf("Normals:   %d\n", len(m.Normals))
	fmt.Printf("TexCoords: %d\n", len(m.TexCoords))
	fmt.Printf("Triangles: %d\n", len(m.Triangles))
	fmt.Printf("Bounds:    center (%.3f, %.3f, %.3f) radius %.3f\n",
		m.BoundingSpherePos.X, m.BoundingSpherePos.Y, m.BoundingSpherePos.Z, m.BoundingSphereRadius)

	if len(m.Materials) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Triangles by material:")

	counts := m.TrianglesByMaterial()
	ids := make([]uint32, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		name, tex := "(none)", ""
		if id != 0 {
			name, tex = m.Materials[id-1].Name, m.Materials[id-1].TexFile
		}
		fmt.Printf("  %-12s %-8d %s\n", name, counts[id], tex)
	}
}
