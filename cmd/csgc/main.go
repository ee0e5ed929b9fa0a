// Command csgc evaluates a CSG script and writes one binary STL file per
// output root.
//
// Usage:
//
//	csgc [-config csgc.toml] [-kernel bsp|sdfx|manifold] [-out dir] [-watch] [-v] script.lisp
//
// Exit status is 0 on success, 1 when the script fails to evaluate or a
// mesh cannot be written, and 2 on bad usage or configuration. With -watch
// the script is rebuilt every time it changes until the process is
// interrupted; build failures are logged and do not end the loop.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chazu/lignin-csg/pkg/engine"
	"github.com/chazu/lignin-csg/pkg/kernel"
	"github.com/chazu/lignin-csg/pkg/scene"
	"github.com/chazu/lignin-csg/pkg/tessellate"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

// run is main without the process exit, so it can be driven from tests.
// ctx only matters in watch mode, where cancelling it ends the loop.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("csgc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: csgc [flags] script.lisp\n\n")
		fs.PrintDefaults()
	}

	var (
		configPath = fs.String("config", "", "TOML or YAML config `file`")
		kernelName = fs.String("kernel", "", "geometry kernel: bsp, sdfx or manifold")
		outDir     = fs.String("out", "", "output `dir`ectory for STL files")
		segments   = fs.Int("segments", 0, "default segments for cylinders and spheres")
		rings      = fs.Int("rings", 0, "default rings for spheres")
		cells      = fs.Int("cells", 0, "marching cubes cells for the sdfx kernel")
		scenePath  = fs.String("scene", "", "also write the evaluated scene as JSON to `file`")
		watchMode  = fs.Bool("watch", false, "rebuild whenever the script changes")
		verbose    = fs.Bool("v", false, "verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	script := fs.Arg(0)

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			fmt.Fprintf(stderr, "csgc: %v\n", err)
			return exitUsage
		}
	}

	// Flags given on the command line override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "kernel":
			cfg.Kernel = *kernelName
		case "out":
			cfg.OutDir = *outDir
		case "segments":
			cfg.Segments = *segments
		case "rings":
			cfg.Rings = *rings
		case "cells":
			cfg.MeshCells = *cells
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "csgc: %v\n", err)
		return exitUsage
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	k, err := cfg.NewKernel()
	if err != nil {
		log.Error("kernel", "err", err)
		return exitUsage
	}

	p := &pipeline{
		script:    script,
		scenePath: *scenePath,
		outDir:    cfg.OutDir,
		eng:       engine.NewEngineWithDefaults(cfg.Defaults()),
		kernel:    k,
		log:       log,
	}
	if *watchMode {
		p.cache = tessellate.NewCache()
		return watch(ctx, p)
	}
	return p.build()
}

// pipeline turns one script into STL files. In watch mode the same
// pipeline is rebuilt repeatedly, sharing its engine and solid cache.
type pipeline struct {
	script    string
	scenePath string
	outDir    string

	eng    *engine.Engine
	kernel kernel.Kernel
	cache  *tessellate.Cache
	log    *slog.Logger
}

// build runs the script once and returns an exit code.
func (p *pipeline) build() int {
	log := p.log

	src, err := os.ReadFile(p.script)
	if err != nil {
		log.Error("read script", "err", err)
		return exitFail
	}

	s, evalErrs, err := p.eng.Evaluate(string(src))
	if err != nil {
		log.Error("evaluate", "script", p.script, "err", err)
		return exitFail
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			log.Error("evaluate", "script", p.script, "line", e.Line, "err", e.Message)
		}
		return exitFail
	}
	for _, v := range scene.Validate(s) {
		log.Warn("scene", "finding", v.Error())
	}
	log.Debug("evaluated", "script", p.script, "nodes", s.NodeCount(), "roots", len(s.Roots))

	if p.scenePath != "" {
		if err := writeScene(p.scenePath, s); err != nil {
			log.Error("write scene", "err", err)
			return exitFail
		}
	}

	if len(s.Roots) == 0 {
		log.Warn("script has no output roots; nothing to write", "script", p.script)
		return exitOK
	}

	hits, misses := p.cacheStats()
	meshes, err := tessellate.TessellateWith(s, p.kernel, tessellate.Options{Cache: p.cache, Logger: log})
	if err != nil {
		log.Error("tessellate", "err", err)
		return exitFail
	}

	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		log.Error("create output directory", "err", err)
		return exitFail
	}
	for _, m := range meshes {
		if m.IsEmpty() {
			continue
		}
		path := filepath.Join(p.outDir, fileName(m.PartName)+".stl")
		if err := m.SaveSTL(path); err != nil {
			log.Error("write mesh", "part", m.PartName, "err", err)
			return exitFail
		}
		log.Info("wrote", "part", m.PartName, "path", path, "triangles", m.TriangleCount())
	}

	if p.cache != nil {
		h, m := p.cacheStats()
		log.Info("build finished", "generation", s.Version, "cache_hits", h-hits, "cache_misses", m-misses)
	}
	return exitOK
}

func (p *pipeline) cacheStats() (hits, misses int) {
	if p.cache == nil {
		return 0, 0
	}
	return p.cache.Stats()
}

// writeScene writes s to path as indented JSON.
func writeScene(path string, s *scene.Scene) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// fileName maps a part name to a safe file name stem.
func fileName(part string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '_'
	}, part)
	if strings.Trim(name, "._") == "" {
		return "part"
	}
	return name
}
