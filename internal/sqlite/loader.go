package sqlite

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Load returns every stored entry in registry order. Rows whose record is
// not a JSON object are skipped.
func (p *Persister) Load() ([]types.Entry, error) {
	rows, err := p.db.Query("SELECT key, record FROM objects ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scanning object row: %w", err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec == nil {
			continue
		}
		entries = append(entries, types.Entry{Key: key, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return entries, nil
}
