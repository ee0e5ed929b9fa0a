//go:build !manifold

package manifold

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewWithoutTag(t *testing.T) {
	k, err := New()
	if k != nil {
		t.Fatalf("New() = %T, want nil kernel without the manifold tag", k)
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("New() error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "-tags=manifold") {
		t.Errorf("error %q should name the build tag", err)
	}

	// Callers that wrap the error can still recognise it.
	wrapped := fmt.Errorf("config: %w", err)
	if !errors.Is(wrapped, ErrUnavailable) {
		t.Error("wrapped error lost ErrUnavailable")
	}
}
