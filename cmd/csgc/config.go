package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/lignin-csg/pkg/kernel"
	"github.com/chazu/lignin-csg/pkg/kernel/bsp"
	"github.com/chazu/lignin-csg/pkg/kernel/manifold"
	"github.com/chazu/lignin-csg/pkg/kernel/sdfx"
	"github.com/chazu/lignin-csg/pkg/scene"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Kernel names accepted by -kernel and the kernel config key.
const (
	KernelBSP      = "bsp"
	KernelSDFX     = "sdfx"
	KernelManifold = "manifold" // needs a build with -tags=manifold
)

// DefaultMeshCells is the marching cubes resolution used by the sdfx kernel.
const DefaultMeshCells = 200

// Config holds the settings for a csgc run. It is read from a TOML or YAML
// file and then overridden by command line flags.
type Config struct {
	Kernel    string `toml:"kernel" yaml:"kernel"`         // bsp, sdfx or manifold
	OutDir    string `toml:"out_dir" yaml:"out_dir"`       // where STL files are written
	Segments  int    `toml:"segments" yaml:"segments"`     // default curved-primitive segments
	Rings     int    `toml:"rings" yaml:"rings"`           // default sphere rings
	MeshCells int    `toml:"mesh_cells" yaml:"mesh_cells"` // sdfx marching cubes cells
	Verbose   bool   `toml:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Kernel:    KernelBSP,
		OutDir:    ".",
		Segments:  scene.DefaultSegments,
		Rings:     scene.DefaultRings,
		MeshCells: DefaultMeshCells,
	}
}

// LoadConfig reads path over the defaults. The format follows the file
// extension: .yaml and .yml are YAML, anything else is TOML. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Kernel {
	case KernelBSP, KernelSDFX, KernelManifold:
	default:
		return fmt.Errorf("config: unknown kernel %q (want %s, %s or %s)", c.Kernel, KernelBSP, KernelSDFX, KernelManifold)
	}
	if c.OutDir == "" {
		return fmt.Errorf("config: out_dir must not be empty")
	}
	if c.Segments < 3 {
		return fmt.Errorf("config: segments %d must be at least 3", c.Segments)
	}
	if c.Rings < 2 {
		return fmt.Errorf("config: rings %d must be at least 2", c.Rings)
	}
	if c.MeshCells < 8 {
		return fmt.Errorf("config: mesh_cells %d must be at least 8", c.MeshCells)
	}
	return nil
}

// Defaults returns the scene defaults the configuration implies.
func (c Config) Defaults() scene.Defaults {
	return scene.Defaults{Segments: c.Segments, Rings: c.Rings}
}

// NewKernel constructs the configured geometry kernel.
func (c Config) NewKernel() (kernel.Kernel, error) {
	switch c.Kernel {
	case KernelBSP:
		return bsp.New(), nil
	case KernelSDFX:
		return sdfx.NewWithCells(c.MeshCells), nil
	case KernelManifold:
		k, err := manifold.New()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return k, nil
	}
	return nil, fmt.Errorf("config: unknown kernel %q", c.Kernel)
}
