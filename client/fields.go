package client

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/drydotai/dry-go/client/internal/types"
)

// ValueKind tags the JSON shape of a field value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueList
	ValueObject
)

// String returns the kind name used in diagnostics.
func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	case ValueObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one field of an entity as the server returned it. Field sets are
// dynamic (a record's fields are whatever its Type declares), so values are
// tagged by JSON shape and read through typed accessors instead of being
// bound to a struct. The zero Value is null.
type Value struct {
	raw json.RawMessage
}

func newValue(raw json.RawMessage) Value { return Value{raw: raw} }

// Kind reports the JSON shape of the value.
func (v Value) Kind() ValueKind {
	for _, b := range v.raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '"':
			return ValueString
		case '{':
			return ValueObject
		case '[':
			return ValueList
		case 't', 'f':
			return ValueBool
		case 'n':
			return ValueNull
		default:
			return ValueNumber
		}
	}
	return ValueNull
}

// IsNull reports whether the value is JSON null or absent.
func (v Value) IsNull() bool { return v.Kind() == ValueNull }

// Raw returns the undecoded JSON.
func (v Value) Raw() json.RawMessage { return v.raw }

// AsString returns the value when it is a JSON string.
func (v Value) AsString() (string, bool) {
	if v.Kind() != ValueString {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsFloat returns the value as a float64. Numeric strings also qualify,
// since the service is free to render numbers either way.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind() {
	case ValueNumber:
		var f float64
		if err := json.Unmarshal(v.raw, &f); err != nil {
			return 0, false
		}
		return f, true
	case ValueString:
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// AsInt returns the value as an int64 when it is integral.
func (v Value) AsInt() (int64, bool) {
	f, ok := v.AsFloat()
	if !ok || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// AsBool returns the value as a bool; the usual string renderings of truth
// also qualify.
func (v Value) AsBool() (bool, bool) {
	switch v.Kind() {
	case ValueBool:
		var b bool
		if err := json.Unmarshal(v.raw, &b); err != nil {
			return false, false
		}
		return b, true
	case ValueString:
		s, _ := v.AsString()
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

// timeFormats are the wire shapes datetime fields arrive in.
var timeFormats = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// AsTime parses a datetime field.
func (v Value) AsTime() (time.Time, bool) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List returns the elements of a list value.
func (v Value) List() ([]Value, bool) {
	if v.Kind() != ValueList {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v.raw, &elems); err != nil {
		return nil, false
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = newValue(e)
	}
	return out, true
}

// AsStringSlice flattens a list value to display strings.
func (v Value) AsStringSlice() ([]string, bool) {
	elems, ok := v.List()
	if !ok {
		return nil, false
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Text()
	}
	return out, true
}

// Object returns a nested object value as Fields.
func (v Value) Object() (Fields, bool) {
	if v.Kind() != ValueObject {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v.raw, &m); err != nil {
		return nil, false
	}
	return fieldsFromRaw(m), true
}

// Text renders the value for display: strings verbatim, numbers and bools
// in canonical form, null as empty, composites as compact JSON.
func (v Value) Text() string {
	switch v.Kind() {
	case ValueString:
		s, _ := v.AsString()
		return s
	case ValueNumber:
		f, ok := v.AsFloat()
		if !ok {
			return string(v.raw)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case ValueBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case ValueNull:
		return ""
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, v.raw); err != nil {
			return string(v.raw)
		}
		return buf.String()
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// MarshalJSON writes the value exactly as the server sent it.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON stores the raw JSON without interpreting it.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	return nil
}

// Fields is an entity's field set keyed exactly as the server returned it.
// The API's canonical keys are Title-case (ID, Name, Description, URL, ...);
// Get tolerates any casing so callers can use natural names.
type Fields map[string]Value

func fieldsFromRaw(raw types.RawItem) Fields {
	f := make(Fields, len(raw))
	for k, v := range raw {
		f[k] = newValue(v)
	}
	return f
}

// Get looks up a field by name: exact key first, then the Title-case and
// upper-case forms the API favors, then a case-insensitive scan. When
// several keys differ only by case the smallest one wins, so repeated
// lookups are deterministic.
func (f Fields) Get(name string) (Value, bool) {
	if v, ok := f[name]; ok {
		return v, true
	}
	if name != "" {
		if v, ok := f[strings.ToUpper(name[:1])+name[1:]]; ok {
			return v, true
		}
		if v, ok := f[strings.ToUpper(name)]; ok {
			return v, true
		}
	}
	best := ""
	found := false
	for k := range f {
		if strings.EqualFold(k, name) && (!found || k < best) {
			best, found = k, true
		}
	}
	if found {
		return f[best], true
	}
	return Value{}, false
}

// Has reports whether the field exists under any casing.
func (f Fields) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Names returns the field names, sorted.
func (f Fields) Names() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// text is the display shortcut behind the handle accessors.
func (f Fields) text(name string) string {
	v, ok := f.Get(name)
	if !ok {
		return ""
	}
	return v.Text()
}
