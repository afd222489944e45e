package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rihla-app/localbase/internal/row"
)

// WriteCollection replaces a collection's full row sequence atomically.
// The delete-and-insert runs in one transaction, so a reader never observes
// a partial write and a failed write leaves the previous sequence intact.
//
// The rows' insertion order is preserved in the pos column.
func (s *Store) WriteCollection(ctx context.Context, collection string, rows []row.Row) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write collection %q: begin tx: %w", collection, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM rows WHERE collection = ?
	`, collection); err != nil {
		return fmt.Errorf("write collection %q: clear: %w", collection, err)
	}

	for pos, r := range rows {
		doc, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("write collection %q: encode row %d: %w", collection, pos, err)
		}

		id, _ := r.ID()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rows (collection, pos, id, doc)
			VALUES (?, ?, ?, ?)
		`, collection, pos, id, string(doc)); err != nil {
			return fmt.Errorf("write collection %q: insert row %d: %w", collection, pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write collection %q: commit: %w", collection, err)
	}
	return nil
}

// WriteSlot stores a single record under a slot name, replacing any
// previous occupant.
func (s *Store) WriteSlot(ctx context.Context, name string, r row.Row) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("write slot %q: encode: %w", name, err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (name, doc) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET doc = excluded.doc
	`, name, string(doc)); err != nil {
		return fmt.Errorf("write slot %q: %w", name, err)
	}
	return nil
}

// ClearSlot removes a slot's record. Clearing an empty slot is not an error.
func (s *Store) ClearSlot(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM slots WHERE name = ?
	`, name); err != nil {
		return fmt.Errorf("clear slot %q: %w", name, err)
	}
	return nil
}
