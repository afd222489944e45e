package backend

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/rihla-app/localbase/internal/query"
	"github.com/rihla-app/localbase/internal/row"
	"github.com/rihla-app/localbase/internal/store"
)

// Backend is the emulator's client handle: collection queries, mutations,
// and the shared lock that serializes all store access.
//
// Thread-safety model:
//   - all exported methods are safe from any goroutine
//   - one sync.Mutex guards the store and the session slot; internal/auth
//     shares it via WithLock
//   - query.Builder instances returned by From are NOT safe for concurrent
//     use; build and execute them on one goroutine
type Backend struct {
	store  *store.Store
	mu     sync.Mutex
	ids    IDGenerator
	logger *slog.Logger
}

// Option allows configuration of backend parameters.
type Option func(*Backend)

// WithIDGenerator overrides the surrogate id generator.
// Tests use this with a deterministic sequence generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(b *Backend) {
		b.ids = g
	}
}

// WithLogger sets the structured logger. Defaults to a discard logger; the
// CLI installs a text handler when verbose output is requested.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// New creates a Backend over an opened store.
func New(s *store.Store, opts ...Option) *Backend {
	b := &Backend{
		store:  s,
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// From returns a query builder scoped to a collection.
func (b *Backend) From(collection string) *query.Builder {
	return query.NewBuilder(collection, b.runQuery)
}

// Reset destructively clears every collection and slot.
func (b *Backend) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Info("resetting store")
	if err := b.store.Reset(ctx); err != nil {
		return StorageFault(err)
	}
	return nil
}

// WithLock runs fn while holding the backend's lock. It exists for
// internal/auth, whose session transitions must be atomic with respect to
// every other store operation. fn must not call back into Backend methods.
func (b *Backend) WithLock(fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn()
}

// Store returns the underlying store for use inside a WithLock callback.
func (b *Backend) Store() *store.Store {
	return b.store
}

// IDs returns the configured id generator.
func (b *Backend) IDs() IDGenerator {
	return b.ids
}

// Logger returns the configured logger.
func (b *Backend) Logger() *slog.Logger {
	return b.logger
}

// runQuery executes a finished query spec under the backend lock. The whole
// execution - scan, filter, sort, limit, expansion lookups - happens inside
// one critical section, so results are never partial with respect to a
// concurrent mutation.
func (b *Backend) runQuery(ctx context.Context, spec query.Spec) (query.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rows, err := b.store.ReadCollection(ctx, spec.Collection)
	if err != nil {
		return query.Result{}, StorageFault(err)
	}

	matched := query.Apply(rows, spec)

	b.logger.Debug("query executed",
		"collection", spec.Collection,
		"predicates", len(spec.Predicates),
		"matched", len(matched))

	// Expansion lookups read sibling collections under the same lock.
	// Read errors degrade to an empty snapshot: expansion is best-effort
	// by contract, and a genuinely broken store will surface on the next
	// direct operation anyway.
	var lookup query.Lookup
	if len(spec.Expansions) > 0 {
		cache := map[string][]row.Row{}
		lookup = func(collection string) []row.Row {
			if cached, ok := cache[collection]; ok {
				return cached
			}
			related, err := b.store.ReadCollection(ctx, collection)
			if err != nil {
				b.logger.Debug("expansion read failed", "collection", collection, "error", err)
				related = nil
			}
			cache[collection] = related
			return related
		}
	}

	if spec.Single {
		if len(matched) == 0 {
			return query.Result{}, NotFound(spec.Collection)
		}
		first := matched[0]
		if lookup != nil {
			first = query.Resolve(first, spec.Expansions, lookup)
		}
		return query.Result{Row: first}, nil
	}

	out := make([]row.Row, len(matched))
	for i, r := range matched {
		if lookup != nil {
			out[i] = query.Resolve(r, spec.Expansions, lookup)
		} else {
			out[i] = r
		}
	}
	return query.Result{Rows: out}, nil
}
