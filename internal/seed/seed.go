package seed

import (
	"context"
	"fmt"
	"sort"

	"github.com/rihla-app/localbase/internal/backend"
	"github.com/rihla-app/localbase/internal/row"
)

// Seed is a set of collections to populate after a reset.
type Seed struct {
	Collections map[string][]row.Row
}

// Names returns the collection names in sorted order so application is
// deterministic.
func (s *Seed) Names() []string {
	names := make([]string, 0, len(s.Collections))
	for name := range s.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RowCount returns the total number of rows across all collections.
func (s *Seed) RowCount() int {
	n := 0
	for _, rows := range s.Collections {
		n += len(rows)
	}
	return n
}

// Apply resets the backend and inserts every seed collection. Rows without
// an id get a surrogate from the backend's generator.
func Apply(ctx context.Context, b *backend.Backend, s *Seed) error {
	if err := b.Reset(ctx); err != nil {
		return fmt.Errorf("reset before seed: %w", err)
	}
	for _, name := range s.Names() {
		if _, err := b.Insert(ctx, name, s.Collections[name]...); err != nil {
			return fmt.Errorf("seed collection %s: %w", name, err)
		}
	}
	b.Logger().Info("seed applied", "collections", len(s.Collections), "rows", s.RowCount())
	return nil
}
