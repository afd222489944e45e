package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator returns predictable identifiers for testing.
//
// Production code assigns UUIDv7 surrogate ids and session tokens; golden
// traces and assertions need stable values instead. SequenceGenerator yields
// "<prefix>-1", "<prefix>-2", ... in order.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator with the given prefix.
//
// Example:
//
//	gen := testutil.NewSequenceGenerator("row")
//	gen.NewID() // "row-1"
//	gen.NewID() // "row-2"
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
// Implements backend.IDGenerator.
func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
