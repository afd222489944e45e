package backend

import (
	"context"

	"github.com/rihla-app/localbase/internal/query"
	"github.com/rihla-app/localbase/internal/row"
)

// Insert appends rows to a collection, assigning a freshly generated
// surrogate id to any row lacking one. Returns the inserted rows as
// confirmation. The input rows are not modified.
//
// No uniqueness constraint exists beyond the id convention: the emulated
// backend accepts whatever field sets the application writes.
func (b *Backend) Insert(ctx context.Context, collection string, rows ...row.Row) ([]row.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, err := b.store.ReadCollection(ctx, collection)
	if err != nil {
		return nil, StorageFault(err)
	}

	inserted := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		next := r.Clone()
		if next == nil {
			next = row.Row{}
		}
		if _, ok := next.ID(); !ok {
			next[row.IDField] = row.String(b.ids.NewID())
		}
		existing = append(existing, next)
		inserted = append(inserted, next)
	}

	if err := b.store.WriteCollection(ctx, collection, existing); err != nil {
		return nil, StorageFault(err)
	}

	b.logger.Debug("inserted rows", "collection", collection, "count", len(inserted))
	return inserted, nil
}

// Upsert replaces-or-appends each input row by id. A row whose id matches an
// existing row is merged into it field-wise (incoming fields overwrite,
// omitted fields are retained); anything else is appended, generating an id
// if absent. Returns the resulting rows in input order.
//
// Upsert is idempotent: applying the same call twice leaves the collection
// in the same state as applying it once.
func (b *Backend) Upsert(ctx context.Context, collection string, rows ...row.Row) ([]row.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, err := b.store.ReadCollection(ctx, collection)
	if err != nil {
		return nil, StorageFault(err)
	}

	result := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		incoming := r.Clone()
		if incoming == nil {
			incoming = row.Row{}
		}

		id, hasID := incoming.ID()
		merged := false
		if hasID {
			for i, current := range existing {
				currentID, ok := current.ID()
				if ok && currentID == id {
					existing[i] = current.Merge(incoming)
					result = append(result, existing[i])
					merged = true
					break
				}
			}
		}
		if merged {
			continue
		}

		if !hasID {
			incoming[row.IDField] = row.String(b.ids.NewID())
		}
		existing = append(existing, incoming)
		result = append(result, incoming)
	}

	if err := b.store.WriteCollection(ctx, collection, existing); err != nil {
		return nil, StorageFault(err)
	}

	b.logger.Debug("upserted rows", "collection", collection, "count", len(result))
	return result, nil
}

// Update merges a partial-row patch into every row matching the predicates
// and returns the updated rows. Zero matches is not an error: the result is
// simply empty.
func (b *Backend) Update(ctx context.Context, collection string, preds []query.Predicate, patch row.Row) ([]row.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, err := b.store.ReadCollection(ctx, collection)
	if err != nil {
		return nil, StorageFault(err)
	}

	updated := []row.Row{}
	for i, current := range existing {
		if query.Matches(current, preds) {
			existing[i] = current.Merge(patch)
			updated = append(updated, existing[i])
		}
	}

	if len(updated) == 0 {
		return updated, nil
	}

	if err := b.store.WriteCollection(ctx, collection, existing); err != nil {
		return nil, StorageFault(err)
	}

	b.logger.Debug("updated rows", "collection", collection, "count", len(updated))
	return updated, nil
}

// Delete removes every row matching the predicates and returns the removed
// rows. Zero matches is not an error.
func (b *Backend) Delete(ctx context.Context, collection string, preds []query.Predicate) ([]row.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, err := b.store.ReadCollection(ctx, collection)
	if err != nil {
		return nil, StorageFault(err)
	}

	kept := make([]row.Row, 0, len(existing))
	removed := []row.Row{}
	for _, current := range existing {
		if query.Matches(current, preds) {
			removed = append(removed, current)
			continue
		}
		kept = append(kept, current)
	}

	if len(removed) == 0 {
		return removed, nil
	}

	if err := b.store.WriteCollection(ctx, collection, kept); err != nil {
		return nil, StorageFault(err)
	}

	b.logger.Debug("deleted rows", "collection", collection, "count", len(removed))
	return removed, nil
}
