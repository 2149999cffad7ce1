package types

import "errors"

// Storage is the registry of live entities the console operates on.
// Entities are keyed by their composite key "<Class>.<id>". Mutations are
// kept in memory until Save or SaveEntity persists the whole registry.
type Storage interface {
	// All returns every entity in registration order.
	All() []Entity

	// Get returns the entity registered under class and id.
	// Returns ErrNotFound if there is none.
	Get(class, id string) (Entity, error)

	// New registers an entity. Returns ErrDuplicateKey if its composite key
	// is already present.
	New(e Entity) error

	// Create constructs a fresh entity of the named class and registers it.
	// Returns ErrUnknownClass for a name missing from the class table.
	Create(class string) (Entity, error)

	// Delete removes the entity registered under class and id.
	// Returns ErrNotFound if there is none.
	Delete(class, id string) error

	// Count returns the number of registered entities of the named class.
	Count(class string) int

	// Save writes the full registry to the backing store.
	Save() error

	// SaveEntity refreshes the entity's updated_at and then calls Save.
	SaveEntity(e Entity) error

	// Reload replaces the registry with the contents of the backing store.
	// Missing or malformed backing data leaves the registry empty.
	Reload() error
}

// Entry is one persisted registry slot: the composite key and the record
// stored under it.
type Entry struct {
	Key    string
	Record Record
}

// Persister moves registry records to and from a backing store. Store
// fully replaces whatever was stored before. Load returns entries in the
// order the backend keeps them; a backend with nothing stored yet returns
// no entries and no error.
type Persister interface {
	Load() ([]Entry, error)
	Store(entries []Entry) error
	Close() error
}

// Registry errors.
var (
	ErrNotFound     = errors.New("instance not found")
	ErrDuplicateKey = errors.New("composite key already registered")
	ErrUnknownClass = errors.New("unknown class")
)

// Entity attribute and record errors.
var (
	ErrReadOnlyAttribute = errors.New("attribute is read-only")
	ErrTypeMismatch      = errors.New("value does not fit attribute type")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrMalformedData     = errors.New("malformed backing data")
)
