// Package badgerdb persists registry records in a BadgerDB directory, one
// key per entity ("<Class>.<id>") holding the record as JSON.
package badgerdb

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// keyPrefix namespaces registry keys inside the database.
var keyPrefix = []byte("obj:")

// Persister implements types.Persister on a BadgerDB directory.
type Persister struct {
	db *badger.DB
}

var _ types.Persister = (*Persister)(nil)

// Options configures Open.
type Options struct {
	// InMemory keeps the database off disk; dir is ignored.
	InMemory bool
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger badger.Logger
}

// Open opens (creating if needed) the database in dir.
func Open(dir string) (*Persister, error) {
	return OpenWithOptions(dir, Options{})
}

// OpenWithOptions opens the database in dir with opts applied.
func OpenWithOptions(dir string, opts Options) (*Persister, error) {
	badgerOpts := badger.DefaultOptions(dir)
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	badgerOpts = badgerOpts.WithLogger(opts.Logger)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Persister{db: db}, nil
}

func encodeKey(key string) []byte {
	return append(append([]byte{}, keyPrefix...), key...)
}

func decodeKey(raw []byte) string {
	return string(raw[len(keyPrefix):])
}

// Load returns every stored entry in key order. Values that are not a JSON
// object are skipped.
func (p *Persister) Load() ([]types.Entry, error) {
	var entries []types.Entry
	err := p.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			item := it.Item()
			key := decodeKey(item.KeyCopy(nil))
			var rec types.Record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil || rec == nil {
				continue
			}
			entries = append(entries, types.Entry{Key: key, Record: rec})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan objects: %w", err)
	}
	return entries, nil
}

// Store replaces the stored key set with entries in one update transaction.
func (p *Persister) Store(entries []types.Entry) error {
	keep := make(map[string]bool, len(entries))
	for _, entry := range entries {
		keep[entry.Key] = true
	}

	err := p.db.Update(func(txn *badger.Txn) error {
		stale, err := staleKeys(txn, keep)
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := txn.Delete(k); err != nil && err != badger.ErrKeyNotFound {
				return fmt.Errorf("delete %s: %w", decodeKey(k), err)
			}
		}
		for _, entry := range entries {
			val, err := json.Marshal(entry.Record)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", entry.Key, err)
			}
			if err := txn.Set(encodeKey(entry.Key), val); err != nil {
				return fmt.Errorf("set %s: %w", entry.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store objects: %w", err)
	}
	return nil
}

// staleKeys lists stored keys that are not in keep.
func staleKeys(txn *badger.Txn, keep map[string]bool) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = keyPrefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var stale [][]byte
	for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
		k := it.Item().KeyCopy(nil)
		if !keep[decodeKey(k)] {
			stale = append(stale, k)
		}
	}
	return stale, nil
}

// Close closes the database.
func (p *Persister) Close() error {
	return p.db.Close()
}
