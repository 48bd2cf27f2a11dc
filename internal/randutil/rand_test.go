package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for range 16 {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestFromOptional(t *testing.T) {
	seed := int64(7)
	got, rng := FromOptional(&seed)
	assert.Equal(t, seed, got)
	assert.Equal(t, New(7).Uint64(), rng.Uint64())

	got, rng = FromOptional(nil)
	assert.NotZero(t, got)
	assert.NotNil(t, rng)
}
