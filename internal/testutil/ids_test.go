package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceGenerator(t *testing.T) {
	gen := NewSequenceGenerator("row")

	assert.Equal(t, "row-1", gen.NewID())
	assert.Equal(t, "row-2", gen.NewID())
	assert.Equal(t, "row-3", gen.NewID())
}

func TestSequenceGenerator_IndependentInstances(t *testing.T) {
	a := NewSequenceGenerator("a")
	b := NewSequenceGenerator("b")

	assert.Equal(t, "a-1", a.NewID())
	assert.Equal(t, "b-1", b.NewID())
}
