package data

import (
	"bytes"
	"encoding/json"
)

// Map is a string-keyed mapping that remembers insertion order. Value sets
// decoded from JSON, YAML and XML use it for nested mappings so that json and
// php substitutions render keys in the order they were written.
type Map struct {
	keys   []string
	values map[string]interface{}
}

// NewMap creates an empty ordered map
func NewMap() *Map {
	return &Map{values: make(map[string]interface{})}
}

// Set stores a value. Setting an existing key keeps its original position.
func (m *Map) Set(key string, value interface{}) {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key
func (m *Map) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key from the map
func (m *Map) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of entries
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every entry in insertion order
func (m *Map) Each(fn func(key string, value interface{})) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// ToMap returns an unordered copy of the top level entries
func (m *Map) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, m.Len())
	m.Each(func(k string, v interface{}) {
		out[k] = v
	})
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalNoEscape(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON renders v as compact JSON without HTML escaping
func MarshalJSON(v interface{}) ([]byte, error) {
	return marshalNoEscape(v)
}

func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
