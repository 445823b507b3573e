package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsReproducible(t *testing.T) {
	a, b := New(99), New(99)
	for range 16 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestNewSeedIsPositive(t *testing.T) {
	for range 32 {
		assert.Greater(t, NewSeed(), int64(0))
	}
}
