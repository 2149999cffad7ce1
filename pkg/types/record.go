package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record keys shared by every class.
const (
	KeyID        = "id"
	KeyCreatedAt = "created_at"
	KeyUpdatedAt = "updated_at"
	KeyClass     = "__class__"
)

// TimeFormat renders timestamps in records: ISO-8601, UTC, microseconds.
const TimeFormat = "2006-01-02T15:04:05.000000"

// Record is the plain serializable form of an entity: every attribute,
// timestamps as ISO-8601 strings, and the class discriminator.
type Record map[string]any

// Class returns the discriminator carried by the record, or "".
func (r Record) Class() string {
	s, _ := r[KeyClass].(string)
	return s
}

// Key builds the composite registry key for a class and id.
func Key(class, id string) string {
	return class + "." + id
}

// SplitKey splits a composite key into class and id.
func SplitKey(key string) (class, id string, ok bool) {
	return strings.Cut(key, ".")
}

// FormatTime renders t in the record timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime accepts the record timestamp format (with or without the
// fractional part) and RFC 3339 timestamps carrying a zone offset.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// MarshalJSON encodes the record with whole floats written as 3.0, so a
// float attribute is still a float after a reload.
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return json.Marshal(encodable(map[string]any(r)))
}

// UnmarshalJSON decodes a record, keeping integers exact.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	if m == nil {
		*r = nil
		return nil
	}
	*r = Record(plainValue(m).(map[string]any))
	return nil
}

// jsonFloat marshals in the same form reprValue prints.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return nil, fmt.Errorf("unsupported float value %v", float64(f))
	}
	return []byte(floatRepr(float64(f))), nil
}

func encodable(v any) any {
	switch x := v.(type) {
	case float64:
		return jsonFloat(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = encodable(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = encodable(item)
		}
		return out
	}
	return v
}

// normalize converts the record's values to the Go types they have after a
// reload: int64, float64, string, bool, nil, []any and map[string]any.
func normalize(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case json.Number:
		return numberValue(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plainValue(item)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = item
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = plainValue(item)
		}
		return out
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return v
	}
	return plainValue(out)
}

// numberValue keeps integer literals as int64 and everything else, including
// integers too large for int64, as float64.
func numberValue(n json.Number) any {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return f
}

// floatRepr renders f with a decimal point or exponent: 3.0, 0.25, 1e+16.
func floatRepr(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// reprValue renders v the way the shell prints attribute values: strings in
// single quotes, True/False, None, lists and mappings in brackets.
func reprValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return reprString(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return floatRepr(x)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = reprValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = reprString(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = reprString(k) + ": " + reprValue(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(x)
	}
}

func reprString(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\t", `\t`)
	return "'" + r.Replace(s) + "'"
}
