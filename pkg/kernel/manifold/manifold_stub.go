//go:build !manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library. When the "manifold" build tag is not set, this stub
// is compiled instead and New returns ErrUnavailable.
//
// Build with: go build -tags=manifold
package manifold

import "github.com/chazu/lignin-csg/pkg/kernel"

// New reports that the Manifold kernel was not compiled in.
func New() (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
