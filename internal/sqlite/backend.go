// Package sqlite persists registry records in a SQLite database, one row
// per composite key with the record stored as JSON text.
package sqlite

import (
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Persister implements types.Persister on a SQLite database file.
type Persister struct {
	db   *sql.DB
	path string
}

var _ types.Persister = (*Persister)(nil)

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Persister, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	return &Persister{db: db, path: path}, nil
}

// Path returns the database file location.
func (p *Persister) Path() string { return p.path }

// Store replaces every row with entries inside one transaction.
func (p *Persister) Store(entries []types.Entry) error {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning store transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM objects"); err != nil {
		return fmt.Errorf("clearing objects: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO objects (key, class, position, record) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range entries {
		rec, err := json.Marshal(entry.Record)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", entry.Key, err)
		}
		if _, err := stmt.Exec(entry.Key, entry.Record.Class(), i, string(rec)); err != nil {
			return fmt.Errorf("inserting %s: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing store transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (p *Persister) Close() error {
	return p.db.Close()
}
