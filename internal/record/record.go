// Package record provides read-only, path based access to loosely structured
// catalog responses. Every lookup is total: missing or mistyped fields yield an
// absent Value instead of an error or a panic.
package record

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Record is an immutable view over one JSON value returned by the catalog.
// The zero Record is valid and behaves like an empty document.
type Record struct {
	res gjson.Result
}

// Parse validates raw JSON and wraps it in a Record.
func Parse(raw []byte) (Record, error) {
	if !gjson.ValidBytes(raw) {
		return Record{}, fmt.Errorf("invalid JSON document")
	}
	return Record{res: gjson.ParseBytes(raw)}, nil
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(raw string) Record {
	r, err := Parse([]byte(raw))
	if err != nil {
		panic(err)
	}
	return r
}

// Get descends into the record one field name at a time and returns the value
// found at the end of the path. An empty path returns the record itself.
// Field names are matched literally, so "a.b" names a single field.
func (r Record) Get(path ...string) Value {
	cur := r.res
	for _, field := range path {
		if !cur.IsObject() {
			return Value{}
		}
		cur = cur.Get(gjson.Escape(field))
		if !cur.Exists() {
			return Value{}
		}
	}
	return Value{res: cur}
}

// Exists reports whether the record holds any JSON value at all.
func (r Record) Exists() bool {
	return r.res.Exists()
}

// Raw returns the record's original JSON text, or "" for the zero Record.
func (r Record) Raw() string {
	return r.res.Raw
}

// Value is the result of a lookup. It is either present, carrying a JSON
// value, or absent.
type Value struct {
	res gjson.Result
}

// Present reports whether the lookup found something.
func (v Value) Present() bool {
	return v.res.Exists()
}

// String returns the value as text. Absent and null values give "".
func (v Value) String() string {
	if !v.Present() {
		return ""
	}
	return v.res.String()
}

// Int returns the value as an integer, or 0 when absent or not numeric.
func (v Value) Int() int64 {
	if !v.Present() {
		return 0
	}
	return v.res.Int()
}

// Record returns the value as a Record so that lookups can continue from it.
func (v Value) Record() Record {
	return Record(v)
}

// Records returns the elements of an array value. ok is false when the value
// is absent or is not an array.
func (v Value) Records() (items []Record, ok bool) {
	if !v.Present() || !v.res.IsArray() {
		return nil, false
	}
	arr := v.res.Array()
	items = make([]Record, len(arr))
	for i := range arr {
		items[i] = Record{res: arr[i]}
	}
	return items, true
}

// Strings collects String() of field on every element of an array value,
// keeping the array order. Elements missing the field contribute "".
func (v Value) Strings(field string) []string {
	items, ok := v.Records()
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Get(field).String()
	}
	return out
}
