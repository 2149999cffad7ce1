package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// JSONFile persists the registry as a single JSON object keyed by composite
// key. Keys are written and read back in registry order.
type JSONFile struct {
	path string
}

var _ types.Persister = (*JSONFile)(nil)

// NewJSONFile returns a persister for the document at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the document location.
func (j *JSONFile) Path() string { return j.path }

// Load reads the document. A missing file yields no entries; a file that is
// not a JSON object of records yields an error wrapping ErrMalformedData.
func (j *JSONFile) Load() ([]types.Entry, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", j.path, err)
	}
	defer f.Close()

	entries, err := decodeDocument(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedData, j.path, err)
	}
	return entries, nil
}

// decodeDocument streams the top-level object so that key order survives.
func decodeDocument(r io.Reader) ([]types.Entry, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("top-level value is not an object")
	}

	var entries []types.Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var rec types.Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		entries = append(entries, types.Entry{Key: key, Record: rec})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Store writes the entries as one JSON object, replacing the file.
func (j *JSONFile) Store(entries []types.Entry) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			buf.WriteString(", ")
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return fmt.Errorf("encoding key %s: %w", entry.Key, err)
		}
		rec, err := json.Marshal(entry.Record)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", entry.Key, err)
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return writeFileAtomic(j.path, buf.Bytes())
}

// Close is a no-op; the file is opened per operation.
func (j *JSONFile) Close() error { return nil }

// writeFileAtomic writes data using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".hbnb-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
