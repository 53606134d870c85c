package cbprofile

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Key identifies an entry in Fields. A key is either a text label taken from
// the page or a positional index for layouts whose entries have no label.
type Key struct {
	label      string
	index      int
	positional bool
}

// Label returns a key for a text label.
func Label(s string) Key {
	return Key{label: s}
}

// Index returns a positional key.
func Index(i int) Key {
	return Key{index: i, positional: true}
}

// IsPositional reports whether the key is a positional index.
func (k Key) IsPositional() bool {
	return k.positional
}

// String returns the label, or the decimal index for positional keys.
func (k Key) String() string {
	if k.positional {
		return strconv.Itoa(k.index)
	}
	return k.label
}

// Value is either a text value or a nested Fields mapping.
type Value struct {
	text   string
	nested *Fields
}

// Text returns a text value.
func Text(s string) Value {
	return Value{text: s}
}

// Nested returns a value holding a nested mapping.
func Nested(f *Fields) Value {
	return Value{nested: f}
}

// IsNested reports whether the value holds a nested mapping.
func (v Value) IsNested() bool {
	return v.nested != nil
}

// String returns the text of a text value. Nested values return "".
func (v Value) String() string {
	return v.text
}

// Fields returns the nested mapping, or nil for text values.
func (v Value) Fields() *Fields {
	return v.nested
}

// MarshalJSON encodes text values as JSON strings and nested values as objects.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.nested != nil {
		return v.nested.MarshalJSON()
	}
	return json.Marshal(v.text)
}

// Fields is an ordered mapping from Key to Value. Keys keep the position of
// their first insertion; setting an existing key replaces its value in place.
// The zero value is an empty mapping ready to use.
type Fields struct {
	keys   []Key
	values map[Key]Value
}

// NewFields returns an empty mapping.
func NewFields() *Fields {
	return &Fields{}
}

// Set stores v under k, replacing any previous value.
func (f *Fields) Set(k Key, v Value) {
	if f.values == nil {
		f.values = make(map[Key]Value)
	}
	if _, ok := f.values[k]; !ok {
		f.keys = append(f.keys, k)
	}
	f.values[k] = v
}

// SetText stores a text value under a label.
func (f *Fields) SetText(label, text string) {
	f.Set(Label(label), Text(text))
}

// Get returns the value stored under k.
func (f *Fields) Get(k Key) (Value, bool) {
	if f == nil {
		return Value{}, false
	}
	v, ok := f.values[k]
	return v, ok
}

// Len returns the number of entries.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []Key {
	if f == nil {
		return nil
	}
	keys := make([]Key, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Merge copies every entry of other into f in other's order.
// Entries of other win on key collision.
func (f *Fields) Merge(other *Fields) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		f.Set(k, other.values[k])
	}
}

// MarshalJSON encodes the mapping as a JSON object preserving key order.
// Positional keys are written as their decimal index.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if f != nil {
		for i, k := range f.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(k.String())
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			value, err := f.values[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
