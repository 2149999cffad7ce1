// Package storage implements the entity registry: an ordered in-memory map
// from composite key to entity, persisted in full through a types.Persister
// on every save.
//
// The engine is not safe for concurrent use. The console drives it from a
// single goroutine and every command runs to completion before the next.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Engine implements types.Storage.
type Engine struct {
	persister types.Persister
	logger    *slog.Logger

	keys    []string
	objects map[string]types.Entity
}

var _ types.Storage = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for load warnings and debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an empty engine over persister. Call Reload to load
// previously saved state.
func NewEngine(persister types.Persister, opts ...Option) *Engine {
	e := &Engine{
		persister: persister,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		objects:   make(map[string]types.Entity),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// All returns every entity in registration order.
func (e *Engine) All() []types.Entity {
	out := make([]types.Entity, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, e.objects[k])
	}
	return out
}

// Keys returns the composite keys in registration order.
func (e *Engine) Keys() []string {
	return slices.Clone(e.keys)
}

// Len returns the number of registered entities.
func (e *Engine) Len() int {
	return len(e.keys)
}

// Get returns the entity registered under class and id.
func (e *Engine) Get(class, id string) (types.Entity, error) {
	obj, ok := e.objects[types.Key(class, id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, types.Key(class, id))
	}
	return obj, nil
}

// New registers ent under its composite key.
func (e *Engine) New(ent types.Entity) error {
	return e.insert(ent.Key(), ent)
}

func (e *Engine) insert(key string, ent types.Entity) error {
	if _, ok := e.objects[key]; ok {
		return fmt.Errorf("%w: %s", types.ErrDuplicateKey, key)
	}
	e.keys = append(e.keys, key)
	e.objects[key] = ent
	return nil
}

// Create constructs a new entity of the named class and registers it.
// The registry is not persisted until Save.
func (e *Engine) Create(class string) (types.Entity, error) {
	ent, err := types.New(class)
	if err != nil {
		return nil, err
	}
	if err := e.New(ent); err != nil {
		return nil, err
	}
	e.logger.Debug("created entity", "key", ent.Key())
	return ent, nil
}

// Delete removes the entity registered under class and id.
func (e *Engine) Delete(class, id string) error {
	key := types.Key(class, id)
	if _, ok := e.objects[key]; !ok {
		return fmt.Errorf("%w: %s", types.ErrNotFound, key)
	}
	delete(e.objects, key)
	e.keys = slices.DeleteFunc(e.keys, func(k string) bool { return k == key })
	e.logger.Debug("deleted entity", "key", key)
	return nil
}

// Count returns the number of registered entities of the named class.
func (e *Engine) Count(class string) int {
	n := 0
	for _, obj := range e.objects {
		if obj.ClassName() == class {
			n++
		}
	}
	return n
}

// Save hands the record form of every entity, in registration order, to the
// persister, replacing whatever it stored before.
func (e *Engine) Save() error {
	entries := make([]types.Entry, 0, len(e.keys))
	for _, k := range e.keys {
		entries = append(entries, types.Entry{Key: k, Record: e.objects[k].ToRecord()})
	}
	if err := e.persister.Store(entries); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	e.logger.Debug("saved registry", "entities", len(entries))
	return nil
}

// SaveEntity refreshes ent's updated_at and persists the registry.
func (e *Engine) SaveEntity(ent types.Entity) error {
	ent.Base().Touch()
	return e.Save()
}

// Reload replaces the registry with the persisted entries. Missing or
// malformed backing data leaves the registry empty and is not an error;
// entries that cannot be rebuilt are skipped.
func (e *Engine) Reload() error {
	e.keys = nil
	e.objects = make(map[string]types.Entity)

	entries, err := e.persister.Load()
	if err != nil {
		if errors.Is(err, types.ErrMalformedData) {
			e.logger.Warn("ignoring malformed storage data", "error", err)
			return nil
		}
		return fmt.Errorf("reload registry: %w", err)
	}

	for _, entry := range entries {
		ent, err := types.FromRecord(entry.Record)
		if err != nil {
			e.logger.Warn("skipping unreadable record", "key", entry.Key, "error", err)
			continue
		}
		if _, ok := e.objects[entry.Key]; ok {
			// Later duplicates replace earlier ones in place.
			e.objects[entry.Key] = ent
			continue
		}
		_ = e.insert(entry.Key, ent)
	}
	e.logger.Debug("reloaded registry", "entities", len(e.keys))
	return nil
}

// Close releases the persister.
func (e *Engine) Close() error {
	return e.persister.Close()
}
