package data

import (
	"io"

	"github.com/pelletier/go-toml/v2"
)

// TOML tables carry no reliable order once decoded; nested tables become
// ordered maps with sorted keys so output stays deterministic.
func decodeTOML(r io.Reader) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return map[string]interface{}{}, nil
	}

	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[k] = orderTOMLValue(v)
	}
	return out, nil
}

func orderTOMLValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := NewMap()
		for _, k := range sortedKeys(t) {
			m.Set(k, orderTOMLValue(t[k]))
		}
		return m
	case []interface{}:
		for i, item := range t {
			t[i] = orderTOMLValue(item)
		}
		return t
	default:
		return v
	}
}
