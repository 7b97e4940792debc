// Package literal renders Go values as PHP source literals, the output
// dialect of the php and join-php substitution tags.
package literal

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

const (
	arrayOpen  = "array("
	arrayClose = ")"
)

// Export renders v as a literal expression. Sequences and mappings become
// array(key => value,...) with sequence keys numbered from 0. Ordered maps
// keep their insertion order and Go maps are rendered with sorted keys.
func Export(v interface{}) string {
	var sb strings.Builder
	export(&sb, v)
	return sb.String()
}

func export(sb *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case string:
		sb.WriteString(Quote(val))
	case int:
		sb.WriteString(strconv.Itoa(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case float64:
		sb.WriteString(formatFloat(val))
	case float32:
		sb.WriteString(formatFloat(float64(val)))
	case *data.Map:
		if val == nil {
			sb.WriteString("null")
			return
		}
		sb.WriteString(arrayOpen)
		i := 0
		val.Each(func(k string, item interface{}) {
			writeEntry(sb, i, Quote(k), item)
			i++
		})
		sb.WriteString(arrayClose)
	case []interface{}:
		sb.WriteString(arrayOpen)
		for i, item := range val {
			writeEntry(sb, i, strconv.Itoa(i), item)
		}
		sb.WriteString(arrayClose)
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(arrayOpen)
		for i, k := range keys {
			writeEntry(sb, i, Quote(k), val[k])
		}
		sb.WriteString(arrayClose)
	case fmt.Stringer:
		sb.WriteString(Quote(val.String()))
	default:
		exportReflect(sb, reflect.ValueOf(v))
	}
}

func exportReflect(sb *strings.Builder, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			sb.WriteString("null")
			return
		}
		export(sb, rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sb.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sb.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		sb.WriteString(formatFloat(rv.Float()))
	case reflect.Bool:
		sb.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.String:
		sb.WriteString(Quote(rv.String()))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			sb.WriteString("null")
			return
		}
		sb.WriteString(arrayOpen)
		for i := 0; i < rv.Len(); i++ {
			writeEntry(sb, i, strconv.Itoa(i), rv.Index(i).Interface())
		}
		sb.WriteString(arrayClose)
	case reflect.Map:
		if rv.IsNil() {
			sb.WriteString("null")
			return
		}
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for i, k := range keys {
			names[i] = fmt.Sprint(k.Interface())
			byName[names[i]] = k
		}
		sort.Strings(names)
		sb.WriteString(arrayOpen)
		for i, name := range names {
			k := byName[name]
			key := Quote(name)
			if isIntKind(k.Kind()) {
				key = name
			}
			writeEntry(sb, i, key, rv.MapIndex(k).Interface())
		}
		sb.WriteString(arrayClose)
	case reflect.Invalid:
		sb.WriteString("null")
	default:
		sb.WriteString(Quote(fmt.Sprint(rv.Interface())))
	}
}

func writeEntry(sb *strings.Builder, i int, key string, value interface{}) {
	if i > 0 {
		sb.WriteByte(',')
	}
	sb.WriteString(key)
	sb.WriteString(" => ")
	export(sb, value)
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// Quote renders s as a single quoted string literal
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// formatFloat always keeps a decimal point or exponent so the literal reads
// back as a float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if !strings.ContainsAny(s, ".E") {
		s += ".0"
	}
	return s
}

// Reindent continues an exported array across lines: every newline embedded
// in the array's contents is followed by indent. Non-array literals are
// returned unchanged.
func Reindent(s, indent string) string {
	if indent == "" || !strings.HasPrefix(s, arrayOpen) || !strings.HasSuffix(s, arrayClose) {
		return s
	}
	inner := s[len(arrayOpen) : len(s)-len(arrayClose)]
	return arrayOpen + strings.ReplaceAll(inner, "\n", "\n"+indent) + arrayClose
}
