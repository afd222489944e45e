package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rihla-app/localbase/internal/row"
)

// ReadCollection returns every row of a collection in insertion order.
// A collection that has never been written yields an empty slice, not an
// error - collections are created lazily on first write.
func (s *Store) ReadCollection(ctx context.Context, collection string) ([]row.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc
		FROM rows
		WHERE collection = ?
		ORDER BY pos ASC
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("read collection %q: %w", collection, err)
	}
	defer rows.Close()

	result := []row.Row{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("read collection %q: scan: %w", collection, err)
		}

		var r row.Row
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, fmt.Errorf("read collection %q: decode row: %w", collection, err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read collection %q: iterate: %w", collection, err)
	}

	return result, nil
}

// Collections returns the names of every collection that holds at least one
// row, in lexical order.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT collection
		FROM rows
		ORDER BY collection ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list collections: scan: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collections: iterate: %w", err)
	}

	return names, nil
}

// ReadSlot returns the single record stored under a slot name.
// The second return value reports whether the slot is occupied.
func (s *Store) ReadSlot(ctx context.Context, name string) (row.Row, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM slots WHERE name = ?
	`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %q: %w", name, err)
	}

	var r row.Row
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, false, fmt.Errorf("read slot %q: decode: %w", name, err)
	}
	return r, true, nil
}
