//go:build !manifold

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chazu/lignin-csg/pkg/kernel/manifold"
)

func TestManifoldKernelNeedsBuildTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kernel = KernelManifold
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	_, err := cfg.NewKernel()
	if !errors.Is(err, manifold.ErrUnavailable) {
		t.Fatalf("NewKernel error = %v, want manifold.ErrUnavailable", err)
	}

	dir := t.TempDir()
	script := writeFile(t, dir, "cube.lisp", `(output (box 1 1 1))`)
	cfgFile := writeFile(t, dir, "csgc.yaml", "kernel: manifold\n")

	tests := []struct {
		name string
		args []string
	}{
		{"flag", []string{"-kernel", "manifold", script}},
		{"config file", []string{"-config", cfgFile, script}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if code := run(context.Background(), tt.args, &stderr); code != exitUsage {
				t.Errorf("exit %d, want %d", code, exitUsage)
			}
			if !strings.Contains(stderr.String(), "-tags=manifold") {
				t.Errorf("expected the build tag hint on stderr, got %q", stderr.String())
			}
		})
	}
}
