package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/drydotai/dry-go/client/internal/types"
)

func valueOf(raw string) Value { return newValue(json.RawMessage(raw)) }

func parseFields(t *testing.T, raw string) Fields {
	t.Helper()
	var m types.RawItem
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("parse fields: %v", err)
	}
	return fieldsFromRaw(m)
}

func TestValueKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want ValueKind
	}{
		{`"text"`, ValueString},
		{`3.5`, ValueNumber},
		{`-2`, ValueNumber},
		{` 42`, ValueNumber},
		{`true`, ValueBool},
		{`false`, ValueBool},
		{`null`, ValueNull},
		{``, ValueNull},
		{`[1,2]`, ValueList},
		{`{"a":1}`, ValueObject},
	}
	for _, tc := range cases {
		if got := valueOf(tc.raw).Kind(); got != tc.want {
			t.Fatalf("Kind(%q): got=%v want=%v", tc.raw, got, tc.want)
		}
	}
	var zero Value
	if !zero.IsNull() {
		t.Fatalf("zero Value should be null")
	}
}

func TestValueNumericAccessors(t *testing.T) {
	t.Parallel()

	if f, ok := valueOf(`3.5`).AsFloat(); !ok || f != 3.5 {
		t.Fatalf("AsFloat(3.5): got=%v ok=%v", f, ok)
	}
	if f, ok := valueOf(`"42"`).AsFloat(); !ok || f != 42 {
		t.Fatalf("AsFloat(\"42\"): got=%v ok=%v", f, ok)
	}
	if _, ok := valueOf(`"not a number"`).AsFloat(); ok {
		t.Fatalf("AsFloat should reject non-numeric text")
	}
	if n, ok := valueOf(`42`).AsInt(); !ok || n != 42 {
		t.Fatalf("AsInt(42): got=%v ok=%v", n, ok)
	}
	if n, ok := valueOf(`"7"`).AsInt(); !ok || n != 7 {
		t.Fatalf("AsInt(\"7\"): got=%v ok=%v", n, ok)
	}
	if _, ok := valueOf(`3.5`).AsInt(); ok {
		t.Fatalf("AsInt should reject fractional values")
	}
}

func TestValueBoolAccessor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw    string
		want   bool
		wantOK bool
	}{
		{`true`, true, true},
		{`false`, false, true},
		{`"yes"`, true, true},
		{`"1"`, true, true},
		{`"No"`, false, true},
		{`"maybe"`, false, false},
		{`3`, false, false},
	}
	for _, tc := range cases {
		got, ok := valueOf(tc.raw).AsBool()
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("AsBool(%s): got=%v ok=%v want=%v wantOK=%v", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestValueTimeAccessor(t *testing.T) {
	t.Parallel()

	cases := []string{
		`"2026-09-30T12:00:00Z"`,
		`"2026-09-30 08:15:00"`,
		`"2026-09-30"`,
	}
	for _, raw := range cases {
		ts, ok := valueOf(raw).AsTime()
		if !ok || ts.Year() != 2026 || ts.Month() != time.September {
			t.Fatalf("AsTime(%s): got=%v ok=%v", raw, ts, ok)
		}
	}
	if _, ok := valueOf(`"next Tuesday"`).AsTime(); ok {
		t.Fatalf("AsTime should reject unparseable text")
	}
}

func TestValueText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{`"hello"`, "hello"},
		{`3.50`, "3.5"},
		{`42`, "42"},
		{`true`, "true"},
		{`null`, ""},
		{`[1, 2]`, "[1,2]"},
		{`{"a": 1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := valueOf(tc.raw).Text(); got != tc.want {
			t.Fatalf("Text(%s): got=%q want=%q", tc.raw, got, tc.want)
		}
	}
}

func TestValueCompositeAccessors(t *testing.T) {
	t.Parallel()

	elems, ok := valueOf(`["a", 1, true]`).List()
	if !ok || len(elems) != 3 || elems[1].Kind() != ValueNumber {
		t.Fatalf("List unexpected: %v ok=%v", elems, ok)
	}
	strs, ok := valueOf(`["a", 1, true]`).AsStringSlice()
	if !ok || strs[0] != "a" || strs[1] != "1" || strs[2] != "true" {
		t.Fatalf("AsStringSlice unexpected: %v ok=%v", strs, ok)
	}
	obj, ok := valueOf(`{"Name": "title", "Kind": "text"}`).Object()
	if !ok {
		t.Fatalf("Object conversion failed")
	}
	if v, found := obj.Get("name"); !found || v.Text() != "title" {
		t.Fatalf("nested lookup unexpected: %v found=%v", v, found)
	}
	if _, ok := valueOf(`"plain"`).List(); ok {
		t.Fatalf("List should reject non-list values")
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	t.Parallel()

	f := parseFields(t, `{"Name":"widget","Count":3,"Tags":["a","b"]}`)
	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-parse fields: %v", err)
	}
	if back["Name"] != "widget" || back["Count"] != float64(3) {
		t.Fatalf("round trip unexpected: %v", back)
	}
	var zero Value
	if b, err := json.Marshal(zero); err != nil || string(b) != "null" {
		t.Fatalf("zero value marshal: %s err=%v", b, err)
	}
}

func TestFieldsGet_ToleratesCasing(t *testing.T) {
	t.Parallel()

	f := parseFields(t, `{"ID":"x-1","Name":"widget","dueDate":"2026-01-01","Status":"open"}`)

	if v, ok := f.Get("id"); !ok || v.Text() != "x-1" {
		t.Fatalf("Get(id): got=%v ok=%v", v, ok)
	}
	if v, ok := f.Get("name"); !ok || v.Text() != "widget" {
		t.Fatalf("Get(name): got=%v ok=%v", v, ok)
	}
	if v, ok := f.Get("DUEDATE"); !ok || v.Text() != "2026-01-01" {
		t.Fatalf("Get(DUEDATE): got=%v ok=%v", v, ok)
	}
	if _, ok := f.Get("priority"); ok {
		t.Fatalf("Get should miss absent fields")
	}
	if !f.Has("status") || f.Has("missing") {
		t.Fatalf("Has unexpected")
	}
}

func TestFieldsGet_DeterministicOnCaseCollision(t *testing.T) {
	t.Parallel()

	f := parseFields(t, `{"Ab":"first","aB":"second"}`)
	for i := 0; i < 10; i++ {
		v, ok := f.Get("AB")
		if !ok || v.Text() != "first" {
			t.Fatalf("collision lookup not deterministic: got=%q ok=%v", v.Text(), ok)
		}
	}
}

func TestFieldsNames_Sorted(t *testing.T) {
	t.Parallel()

	f := parseFields(t, `{"Zeta":1,"Alpha":2,"Mid":3}`)
	names := f.Names()
	if len(names) != 3 || names[0] != "Alpha" || names[2] != "Zeta" {
		t.Fatalf("names unexpected: %v", names)
	}
}

func TestFieldsZeroValueSafe(t *testing.T) {
	t.Parallel()

	var f Fields
	if _, ok := f.Get("anything"); ok {
		t.Fatalf("nil Fields lookup should miss")
	}
	if f.Has("anything") || len(f.Names()) != 0 {
		t.Fatalf("nil Fields should behave empty")
	}
}
