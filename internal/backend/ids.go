package backend

import (
	"github.com/google/uuid"
)

// IDGenerator produces surrogate identifiers for rows inserted without one.
// Implemented by UUIDv7Generator (production) and testutil.SequenceGenerator
// (tests).
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, so ids assigned to
// successive inserts sort by creation time. That keeps surrogate ids useful
// as a debugging breadcrumb even though nothing orders by them.
//
// Uses github.com/google/uuid for RFC 4122 compliant UUIDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
