package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var errNotObject = errors.New("not a JSON object")

// FieldSet is an insertion-ordered name -> display value map.
//
// The remote service ships field sets in three shapes: a plain JSON object,
// an array of (usually single-key) objects, or a string holding either of
// the former. UnmarshalJSON resolves all three once, at the boundary, and
// never fails: a malformed payload decodes to an empty set.
type FieldSet struct {
	keys   []string
	values map[string]string
}

// FieldsOf builds a FieldSet from alternating name/value pairs. A trailing
// name without a value is ignored.
func FieldsOf(pairs ...string) FieldSet {
	var f FieldSet
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Set inserts or replaces a value. Replacing keeps the original position.
func (f *FieldSet) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f FieldSet) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Value returns the value stored under key or "" when absent.
func (f FieldSet) Value(key string) string {
	return f.values[key]
}

// Has reports whether key is present, even with an empty value.
func (f FieldSet) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Delete removes key if present.
func (f *FieldSet) Delete(key string) {
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i:i], f.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (f FieldSet) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of fields.
func (f FieldSet) Len() int {
	return len(f.keys)
}

// Clone returns an independent copy.
func (f FieldSet) Clone() FieldSet {
	var out FieldSet
	for _, k := range f.keys {
		out.Set(k, f.values[k])
	}
	return out
}

// MarshalJSON writes the set as a JSON object in insertion order.
func (f FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (f *FieldSet) UnmarshalJSON(b []byte) error {
	*f = ParseFieldSet(b)
	return nil
}

// ParseFieldSet decodes any of the supported shapes. Anything it cannot
// make sense of yields an empty set.
func ParseFieldSet(b []byte) FieldSet {
	return parseFieldSet(b, false)
}

func parseFieldSet(b []byte, unwrapped bool) FieldSet {
	var out FieldSet
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return out
	}

	switch b[0] {
	case '{':
		if err := out.mergeObject(b); err != nil {
			return FieldSet{}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return FieldSet{}
		}
		for _, item := range items {
			if err := out.mergeObject(item); err != nil {
				return FieldSet{}
			}
		}
	case '"':
		// A string carries an encoded document; only one level is unwrapped.
		if unwrapped {
			return out
		}
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return FieldSet{}
		}
		return parseFieldSet([]byte(s), true)
	}
	return out
}

// mergeObject decodes a single JSON object token by token so key order is
// preserved, and merges it into f only if the whole object is well formed.
func (f *FieldSet) mergeObject(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}

	var staged FieldSet
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		staged.Set(key, stringify(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	for _, k := range staged.keys {
		f.Set(k, staged.values[k])
	}
	return nil
}

// stringify renders a raw JSON value the way it would be displayed.
func stringify(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return strings.TrimSpace(buf.String())
	}
	return string(raw)
}
