package backend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	nf := NotFound("trips")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsStorageFault(nf))
	assert.Contains(t, nf.Error(), "trips")

	sf := StorageFault(errors.New("disk full"))
	assert.True(t, IsStorageFault(sf))
	assert.ErrorContains(t, sf, "disk full")
}

func TestErrorHelpers_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("query failed: %w", NotFound("wallets"))
	assert.True(t, IsNotFound(wrapped))

	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
