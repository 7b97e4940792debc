// Package data loads template value sets from JSON, YAML, TOML and XML
// documents. Nested mappings are decoded into ordered *Map values.
package data

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Format identifies the encoding of a value set document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatXML  Format = "xml"
)

// ParseFormat converts a format name (or file extension) into a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unsupported value format: %q", name)
	}
}

// FormatFromPath determines the format of a values file from its extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot determine value format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}

// Decode reads a value set document in the given format
func Decode(r io.Reader, format Format) (map[string]interface{}, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatTOML:
		return decodeTOML(r)
	case FormatXML:
		return decodeXML(r)
	default:
		return nil, fmt.Errorf("unsupported value format: %q", format)
	}
}

// LoadFile reads a value set from a file, choosing the decoder by extension
func LoadFile(path string) (map[string]interface{}, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open values file: %w", err)
	}
	defer f.Close()

	values, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return values, nil
}

// Merge deep-merges src into dst. Mappings present on both sides are merged
// recursively, any other value in src replaces the one in dst.
func Merge(dst, src map[string]interface{}) {
	for k, sv := range src {
		dv, exists := dst[k]
		if !exists {
			dst[k] = sv
			continue
		}
		dst[k] = mergeValue(dv, sv)
	}
}

func mergeValue(dst, src interface{}) interface{} {
	switch d := dst.(type) {
	case *Map:
		s, ok := src.(*Map)
		if !ok {
			return src
		}
		s.Each(func(k string, sv interface{}) {
			if dv, exists := d.Get(k); exists {
				d.Set(k, mergeValue(dv, sv))
			} else {
				d.Set(k, sv)
			}
		})
		return d
	case map[string]interface{}:
		s, ok := src.(map[string]interface{})
		if !ok {
			return src
		}
		Merge(d, s)
		return d
	default:
		return src
	}
}

// SetPath stores value at name[indexes...] inside root. Missing mapping
// levels are created as ordered maps; sequence indexes must address an
// existing element.
func SetPath(root map[string]interface{}, name string, indexes []string, value interface{}) error {
	if len(indexes) == 0 {
		root[name] = value
		return nil
	}

	updated, err := setIn(root[name], indexes, value)
	if err != nil {
		return fmt.Errorf("cannot set %s[%s]: %w", name, strings.Join(indexes, "]["), err)
	}
	root[name] = updated
	return nil
}

func setIn(container interface{}, indexes []string, value interface{}) (interface{}, error) {
	idx, rest := indexes[0], indexes[1:]

	switch c := container.(type) {
	case nil:
		return setIn(NewMap(), indexes, value)
	case map[string]interface{}:
		return setIn(fromAnyMap(c), indexes, value)
	case *Map:
		if len(rest) == 0 {
			c.Set(idx, value)
			return c, nil
		}
		child, _ := c.Get(idx)
		updated, err := setIn(child, rest, value)
		if err != nil {
			return nil, err
		}
		c.Set(idx, updated)
		return c, nil
	case []interface{}:
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 || i >= len(c) {
			return nil, fmt.Errorf("index %s is out of range for a sequence of %d", idx, len(c))
		}
		if len(rest) == 0 {
			c[i] = value
			return c, nil
		}
		updated, err := setIn(c[i], rest, value)
		if err != nil {
			return nil, err
		}
		c[i] = updated
		return c, nil
	default:
		return nil, fmt.Errorf("index %s applied to a %T", idx, container)
	}
}

func fromAnyMap(v interface{}) *Map {
	m := NewMap()
	if plain, ok := v.(map[string]interface{}); ok {
		for _, k := range sortedKeys(plain) {
			m.Set(k, plain[k])
		}
	}
	return m
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
