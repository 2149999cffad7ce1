package types

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every class in the class table. All methods come
// from the embedded BaseModel.
type Entity interface {
	// ClassName returns the discriminator, e.g. "User".
	ClassName() string

	// Base exposes identity and timestamps.
	Base() *BaseModel

	// Key returns the composite registry key "<Class>.<id>".
	Key() string

	// ToRecord returns the record form; FromRecord is its inverse.
	ToRecord() Record

	// SetAttr assigns a named attribute. Declared attributes are decoded
	// into their typed field; any other name goes to Extra.
	SetAttr(name string, value any) error

	// Describe renders "[<Class>] (<id>) {<attributes>}" for display.
	Describe() string
}

// clock is replaced in tests.
var clock = time.Now

// now returns the current time truncated to the resolution records keep,
// so a timestamp survives a round trip through a record unchanged.
func now() time.Time {
	return clock().UTC().Truncate(time.Microsecond)
}

// newID generates a UUID v7, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// BaseModel carries identity, timestamps and attributes outside the class's
// declared field set. Classes embed it and bind themselves so that the
// record helpers can reach the class's typed fields.
type BaseModel struct {
	ID        string         `json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	Extra     map[string]any `json:"-"`

	class  string
	fields []string
	self   any
}

// bind attaches the class name, declared fields and the enclosing struct.
func (b *BaseModel) bind(class string, fields []string, self any) {
	b.class = class
	b.fields = fields
	b.self = self
}

// initNew assigns a fresh id and sets both timestamps to now.
func (b *BaseModel) initNew() {
	t := now()
	b.ID = newID()
	b.CreatedAt = t
	b.UpdatedAt = t
}

// ClassName returns the discriminator.
func (b *BaseModel) ClassName() string { return b.class }

// Base returns b.
func (b *BaseModel) Base() *BaseModel { return b }

// Key returns the composite registry key.
func (b *BaseModel) Key() string { return Key(b.class, b.ID) }

// Fields returns the declared attribute names in declaration order.
func (b *BaseModel) Fields() []string { return slices.Clone(b.fields) }

// Touch moves UpdatedAt to the current time. UpdatedAt never moves
// backwards and never repeats, even when the clock has not advanced.
func (b *BaseModel) Touch() {
	t := now()
	if !t.After(b.UpdatedAt) {
		t = b.UpdatedAt.Add(time.Microsecond)
	}
	b.UpdatedAt = t
}

// isReadOnly reports whether name is managed by the base model.
func isReadOnly(name string) bool {
	switch name {
	case KeyID, KeyCreatedAt, KeyUpdatedAt, KeyClass:
		return true
	}
	return false
}

// ToRecord returns the record form of the entity.
func (b *BaseModel) ToRecord() Record {
	rec := make(Record, len(b.Extra)+len(b.fields)+4)
	for k, v := range b.Extra {
		rec[k] = v
	}
	for k, v := range b.declaredValues() {
		rec[k] = v
	}
	rec[KeyID] = b.ID
	rec[KeyCreatedAt] = FormatTime(b.CreatedAt)
	rec[KeyUpdatedAt] = FormatTime(b.UpdatedAt)
	rec[KeyClass] = b.class
	return normalize(rec)
}

// declaredValues returns the declared attributes that are currently set,
// read straight from the typed fields so ints and floats keep their kind.
func (b *BaseModel) declaredValues() map[string]any {
	if b.self == nil || len(b.fields) == 0 {
		return nil
	}
	v := reflect.ValueOf(b.self).Elem()
	t := v.Type()
	values := make(map[string]any, len(b.fields))
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if !slices.Contains(b.fields, name) {
			continue
		}
		f := v.Field(i)
		if f.Kind() != reflect.Pointer || f.IsNil() {
			continue
		}
		values[name] = plainValue(f.Elem().Interface())
	}
	return values
}

// SetAttr assigns a named attribute.
func (b *BaseModel) SetAttr(name string, value any) error {
	if isReadOnly(name) {
		return fmt.Errorf("%w: %s", ErrReadOnlyAttribute, name)
	}
	if slices.Contains(b.fields, name) {
		return b.setDeclared(name, value)
	}
	if b.Extra == nil {
		b.Extra = make(map[string]any)
	}
	b.Extra[name] = value
	return nil
}

// setDeclared decodes value into the typed field for name. String fields
// also accept the text form of a number or boolean, and numeric fields
// accept numeric text. A rejected value leaves the field as it was.
func (b *BaseModel) setDeclared(name string, value any) error {
	prev := b.declaredValues()[name]
	if err := b.decodeDeclared(map[string]any{name: value}); err == nil {
		return nil
	}
	if s, isString := value.(string); isString {
		if n, ok := numericText(s); ok {
			if err := b.decodeDeclared(map[string]any{name: n}); err == nil {
				return nil
			}
		}
	} else if text, ok := scalarText(value); ok {
		if err := b.decodeDeclared(map[string]any{name: text}); err == nil {
			return nil
		}
	}
	// encoding/json allocates the pointer before reporting a type error.
	_ = b.decodeDeclared(map[string]any{name: prev})
	return fmt.Errorf("%w: %s", ErrTypeMismatch, name)
}

// decodeDeclared unmarshals values into the enclosing struct. Only keys in
// the declared field set reach this point.
func (b *BaseModel) decodeDeclared(values map[string]any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, b.self)
}

func numericText(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return f, true
}

func scalarText(v any) (string, bool) {
	switch x := v.(type) {
	case bool, int, int64, float64:
		return reprValue(x), true
	}
	return "", false
}

// load fills the entity from a record. The discriminator is ignored; it has
// already selected the class.
func (b *BaseModel) load(rec Record) error {
	id, _ := rec[KeyID].(string)
	if id == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	createdAt, err := recordTime(rec, KeyCreatedAt)
	if err != nil {
		return err
	}
	updatedAt, err := recordTime(rec, KeyUpdatedAt)
	if err != nil {
		return err
	}
	b.ID = id
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt

	declared := make(map[string]any)
	for k, v := range rec {
		switch {
		case isReadOnly(k):
		case slices.Contains(b.fields, k):
			declared[k] = v
		default:
			if b.Extra == nil {
				b.Extra = make(map[string]any)
			}
			b.Extra[k] = v
		}
	}
	if len(declared) > 0 {
		if err := b.decodeDeclared(declared); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidRecord, b.class, id, err)
		}
	}
	return nil
}

func recordTime(rec Record, key string) (time.Time, error) {
	s, ok := rec[key].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing %s", ErrInvalidRecord, key)
	}
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return t, nil
}

// Describe renders "[<Class>] (<id>) {<attributes>}". Attributes are listed
// as id, created_at, updated_at, declared fields in order, then extras by
// name.
func (b *BaseModel) Describe() string {
	rec := b.ToRecord()
	delete(rec, KeyClass)

	keys := []string{KeyID, KeyCreatedAt, KeyUpdatedAt}
	for _, f := range b.fields {
		if _, ok := rec[f]; ok {
			keys = append(keys, f)
		}
	}
	extras := make([]string, 0, len(b.Extra))
	for k := range b.Extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	keys = append(keys, extras...)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = reprString(k) + ": " + reprValue(rec[k])
	}
	return fmt.Sprintf("[%s] (%s) {%s}", b.class, b.ID, strings.Join(parts, ", "))
}

// String implements fmt.Stringer.
func (b *BaseModel) String() string { return b.Describe() }
