package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRef_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		require.Regexp(t, refPattern, NewRef())
	}
}

func TestNewRef_PracticallyUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		ref := NewRef()
		_, dup := seen[ref]
		require.False(t, dup, "duplicate ref %s after %d draws", ref, i)
		seen[ref] = struct{}{}
	}
}
