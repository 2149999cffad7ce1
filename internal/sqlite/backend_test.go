// Tests for the SQLite persister.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func openTemp(t *testing.T) (*Persister, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hbnb.db")
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p, path
}

func record(class, id string, extra map[string]any) types.Record {
	rec := types.Record{
		types.KeyClass:     class,
		types.KeyID:        id,
		types.KeyCreatedAt: "2026-10-19T08:30:00.000000",
		types.KeyUpdatedAt: "2026-10-19T08:30:00.000000",
	}
	for k, v := range extra {
		rec[k] = v
	}
	return rec
}

func TestOpenCreatesDatabase(t *testing.T) {
	_, path := openTemp(t)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file not created")
	}
}

func TestLoadEmpty(t *testing.T) {
	p, _ := openTemp(t)
	entries, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestStoreLoadPreservesOrder(t *testing.T) {
	p, _ := openTemp(t)

	entries := []types.Entry{
		{Key: "User.b", Record: record("User", "b", map[string]any{"email": "b@example.com"})},
		{Key: "City.a", Record: record("City", "a", map[string]any{"name": "Austin"})},
		{Key: "Place.c", Record: record("Place", "c", map[string]any{"max_guest": int64(4)})},
	}
	if err := p.Store(entries); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
	for i := range entries {
		if got[i].Key != entries[i].Key {
			t.Errorf("entry %d: key %q, want %q", i, got[i].Key, entries[i].Key)
		}
	}
	if got[2].Record["max_guest"] != int64(4) {
		t.Errorf("max_guest = %v, want 4", got[2].Record["max_guest"])
	}
}

func TestStoreReplacesPreviousRows(t *testing.T) {
	p, _ := openTemp(t)

	first := []types.Entry{
		{Key: "User.a", Record: record("User", "a", nil)},
		{Key: "User.b", Record: record("User", "b", nil)},
	}
	if err := p.Store(first); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := p.Store(first[1:]); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0].Key != "User.b" {
		t.Errorf("expected only User.b after replace, got %+v", got)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	p, _ := openTemp(t)
	if err := p.Store([]types.Entry{{Key: "User.a", Record: record("User", "a", nil)}}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, err := p.db.Exec("INSERT INTO objects (key, class, position, record) VALUES ('User.z', 'User', 1, 'not json')"); err != nil {
		t.Fatalf("insert malformed row: %v", err)
	}

	got, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected malformed row to be skipped, got %d entries", len(got))
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hbnb.db")
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := p.Store([]types.Entry{{Key: "State.s", Record: record("State", "s", map[string]any{"name": "Texas"})}}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	p2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer p2.Close()
	got, err := p2.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0].Record["name"] != "Texas" {
		t.Errorf("unexpected entries after reopen: %+v", got)
	}
}
