package rxerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrNotFoundWrapping(t *testing.T) {
	wrapped := fmt.Errorf("lookup failed: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("expected wrapped error to match ErrNotFound via errors.Is")
	}
}
