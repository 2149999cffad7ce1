package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freezeClock pins the package clock to t for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := clock
	clock = func() time.Time { return at }
	t.Cleanup(func() { clock = prev })
}

func TestNewAssignsIdentity(t *testing.T) {
	for _, class := range ClassNames() {
		t.Run(class, func(t *testing.T) {
			e, err := New(class)
			require.NoError(t, err)

			b := e.Base()
			assert.NotEmpty(t, b.ID)
			assert.Equal(t, class, e.ClassName())
			assert.Equal(t, class+"."+b.ID, e.Key())
			assert.False(t, b.CreatedAt.IsZero())
			assert.True(t, b.CreatedAt.Equal(b.UpdatedAt))
		})
	}
}

func TestNewUnknownClass(t *testing.T) {
	_, err := New("Spaceship")
	assert.True(t, errors.Is(err, ErrUnknownClass))
}

func TestIDsAreDistinct(t *testing.T) {
	const samples = 1000
	seen := make(map[string]bool, samples)
	for i := 0; i < samples; i++ {
		id := NewCity().ID
		require.False(t, seen[id], "duplicate id %s after %d samples", id, i)
		seen[id] = true
	}
}

func TestTouch(t *testing.T) {
	t.Run("updated_at moves forward after a gap", func(t *testing.T) {
		u := NewUser()
		first := u.UpdatedAt
		time.Sleep(5 * time.Millisecond)
		u.Touch()
		assert.True(t, u.UpdatedAt.After(first))
		assert.False(t, u.UpdatedAt.Before(u.CreatedAt))
	})

	t.Run("updated_at strictly increases with a frozen clock", func(t *testing.T) {
		freezeClock(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
		u := NewUser()
		u.Touch()
		second := u.UpdatedAt
		u.Touch()
		assert.True(t, u.UpdatedAt.After(second))
		assert.True(t, second.After(u.CreatedAt))
	})
}

func TestRecordRoundTrip(t *testing.T) {
	place := NewPlace()
	require.NoError(t, place.SetAttr("name", "Loft"))
	require.NoError(t, place.SetAttr("number_rooms", int64(3)))
	require.NoError(t, place.SetAttr("latitude", 37.77))
	require.NoError(t, place.SetAttr("amenity_ids", []any{"a-1", "a-2"}))
	require.NoError(t, place.SetAttr("nickname", "the loft"))
	require.NoError(t, place.SetAttr("pets", true))
	require.NoError(t, place.SetAttr("floor", int64(2)))

	user := NewUser()
	require.NoError(t, user.SetAttr("email", "a@example.com"))

	for _, e := range []Entity{place, user, NewBaseModel(), NewReview(), NewState()} {
		t.Run(e.ClassName(), func(t *testing.T) {
			rec := e.ToRecord()
			rebuilt, err := FromRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, rec, rebuilt.ToRecord())
			assert.Equal(t, e.Key(), rebuilt.Key())
			assert.True(t, e.Base().CreatedAt.Equal(rebuilt.Base().CreatedAt))
			assert.True(t, e.Base().UpdatedAt.Equal(rebuilt.Base().UpdatedAt))
		})
	}
}

func TestToRecord(t *testing.T) {
	at := time.Date(2026, 10, 19, 8, 30, 0, 123456000, time.UTC)
	freezeClock(t, at)

	u := NewUser()
	require.NoError(t, u.SetAttr("first_name", "Alice"))

	rec := u.ToRecord()
	assert.Equal(t, "User", rec[KeyClass])
	assert.Equal(t, u.ID, rec[KeyID])
	assert.Equal(t, "2026-10-19T08:30:00.123456", rec[KeyCreatedAt])
	assert.Equal(t, "2026-10-19T08:30:00.123456", rec[KeyUpdatedAt])
	assert.Equal(t, "Alice", rec["first_name"])
	assert.NotContains(t, rec, "email", "unset attributes are not part of the record")
}

func TestFromRecord(t *testing.T) {
	t.Run("accepts timestamps without fraction or with offset", func(t *testing.T) {
		e, err := FromRecord(Record{
			KeyClass:     "City",
			KeyID:        "c-1",
			KeyCreatedAt: "2017-09-28T21:03:54",
			KeyUpdatedAt: "2017-09-28T23:03:54+02:00",
			"name":       "San Francisco",
		})
		require.NoError(t, err)
		c, ok := e.(*City)
		require.True(t, ok, "expected *City, got %T", e)
		assert.Equal(t, "San Francisco", *c.Name)
		assert.True(t, c.CreatedAt.Equal(c.UpdatedAt))
	})

	t.Run("unknown attributes land in Extra", func(t *testing.T) {
		e, err := FromRecord(Record{
			KeyClass:     "State",
			KeyID:        "s-1",
			KeyCreatedAt: "2017-09-28T21:03:54.000001",
			KeyUpdatedAt: "2017-09-28T21:03:54.000002",
			"motto":      "Eureka",
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"motto": "Eureka"}, e.Base().Extra)
	})

	tests := []struct {
		name    string
		rec     Record
		wantErr error
	}{
		{
			name:    "unknown discriminator",
			rec:     Record{KeyClass: "Boat", KeyID: "x"},
			wantErr: ErrUnknownClass,
		},
		{
			name:    "missing id",
			rec:     Record{KeyClass: "User", KeyCreatedAt: "2017-09-28T21:03:54", KeyUpdatedAt: "2017-09-28T21:03:54"},
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "bad timestamp",
			rec:     Record{KeyClass: "User", KeyID: "u", KeyCreatedAt: "yesterday", KeyUpdatedAt: "2017-09-28T21:03:54"},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "declared attribute of the wrong type",
			rec: Record{
				KeyClass: "Place", KeyID: "p",
				KeyCreatedAt: "2017-09-28T21:03:54", KeyUpdatedAt: "2017-09-28T21:03:54",
				"number_rooms": "many",
			},
			wantErr: ErrInvalidRecord,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRecord(tt.rec)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestSetAttr(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		value   any
		wantErr error
		want    any // value in the record after the update
	}{
		{name: "string field", attr: "name", value: "Loft", want: "Loft"},
		{name: "string field from number", attr: "description", value: int64(42), want: "42"},
		{name: "int field", attr: "max_guest", value: int64(4), want: int64(4)},
		{name: "int field from integral float", attr: "price_by_night", value: float64(120), want: int64(120)},
		{name: "float field", attr: "longitude", value: -122.41, want: -122.41},
		{name: "int field from numeric text", attr: "number_bathrooms", value: "2", want: int64(2)},
		{name: "float field from numeric text", attr: "latitude", value: "37.5", want: 37.5},
		{name: "int field rejects text", attr: "number_rooms", value: "many", wantErr: ErrTypeMismatch},
		{name: "int field rejects fraction", attr: "number_rooms", value: 2.5, wantErr: ErrTypeMismatch},
		{name: "list field", attr: "amenity_ids", value: []any{"x"}, want: []any{"x"}},
		{name: "extra attribute", attr: "wifi", value: true, want: true},
		{name: "id is read-only", attr: "id", value: "other", wantErr: ErrReadOnlyAttribute},
		{name: "created_at is read-only", attr: "created_at", value: "now", wantErr: ErrReadOnlyAttribute},
		{name: "discriminator is read-only", attr: "__class__", value: "User", wantErr: ErrReadOnlyAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlace()
			err := p.SetAttr(tt.attr, tt.value)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ToRecord()[tt.attr])
		})
	}
}

func TestSetAttrMismatchKeepsPreviousValue(t *testing.T) {
	p := NewPlace()
	err := p.SetAttr("number_rooms", "many")
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Nil(t, p.NumberRooms)

	require.NoError(t, p.SetAttr("number_rooms", int64(2)))
	require.ErrorIs(t, p.SetAttr("number_rooms", "lots"), ErrTypeMismatch)
	require.NotNil(t, p.NumberRooms)
	assert.Equal(t, 2, *p.NumberRooms)
}

func TestSetAttrNilUnsetsDeclaredField(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetAttr("name", "California"))
	require.NoError(t, s.SetAttr("name", nil))
	assert.Nil(t, s.Name)
	assert.NotContains(t, s.ToRecord(), "name")
}

func TestDescribe(t *testing.T) {
	freezeClock(t, time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC))

	u := NewUser()
	require.NoError(t, u.SetAttr("last_name", "Liddell"))
	require.NoError(t, u.SetAttr("first_name", "Alice"))
	require.NoError(t, u.SetAttr("age", int64(7)))
	require.NoError(t, u.SetAttr("curious", true))

	want := "[User] (" + u.ID + ") {'id': '" + u.ID + "', " +
		"'created_at': '2026-10-19T08:30:00.000000', " +
		"'updated_at': '2026-10-19T08:30:00.000000', " +
		"'first_name': 'Alice', 'last_name': 'Liddell', " +
		"'age': 7, 'curious': True}"
	assert.Equal(t, want, u.Describe())
	assert.Equal(t, want, u.String())
}

func TestReprValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{"plain", "'plain'"},
		{"it's", `"it's"`},
		{`say "it's"`, `'say "it\'s"'`},
		{false, "False"},
		{float64(3), "3.0"},
		{int64(3), "3"},
		{int64(9007199254740993), "9007199254740993"},
		{1e16, "1e+16"},
		{0.00001, "1e-05"},
		{2.5, "2.5"},
		{[]any{"a", int64(1), 1.0}, "['a', 1, 1.0]"},
		{map[string]any{"b": "x", "a": nil}, "{'a': None, 'b': 'x'}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reprValue(tt.in))
	}
}

func TestRecordJSONKeepsNumberKinds(t *testing.T) {
	rec := Record{
		"big":    int64(9007199254740993),
		"ratio":  3.0,
		"tiny":   0.00001,
		"nested": map[string]any{"n": int64(2), "f": 2.0},
		"list":   []any{int64(1), 1.0},
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ratio":3.0`)

	var got Record
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rec, got)
}

func TestRecordJSONHugeIntegerFallsBackToFloat(t *testing.T) {
	var got Record
	require.NoError(t, json.Unmarshal([]byte(`{"n": 123456789012345678901234567890}`), &got))
	assert.IsType(t, float64(0), got["n"])
}

func TestDescribeKeepsLargeIntsAndWholeFloats(t *testing.T) {
	p := NewPlace()
	require.NoError(t, p.SetAttr("latitude", "3.0"))
	require.NoError(t, p.SetAttr("big", int64(9007199254740993)))

	out := p.Describe()
	assert.Contains(t, out, "'latitude': 3.0")
	assert.Contains(t, out, "'big': 9007199254740993")
}
