package codetmpl

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

// FormatValue converts a resolved value to the text inserted by a plain tag.
// nil renders as the empty string; mappings and sequences render as compact
// JSON.
func FormatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', 10, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', 15, 64)
	case bool:
		return strconv.FormatBool(v)
	case *data.Map, []interface{}, map[string]interface{}, TemplateData:
		return formatJSON(v)
	case fmt.Stringer:
		return v.String()
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return formatJSON(value)
	}
	return fmt.Sprintf("%v", value)
}

func formatJSON(v interface{}) string {
	out, err := data.MarshalJSON(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}

// isTruthy decides the outcome of a condition with no operator
func isTruthy(val interface{}) bool {
	if val == nil {
		return false
	}

	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	case *data.Map:
		return v.Len() > 0
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	case TemplateData:
		return len(v) > 0
	}

	if f, ok := toFloat64(val); ok {
		return f != 0
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// toFloat64 converts Go numeric kinds. Strings are never numbers here.
func toFloat64(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// toInt64 reports integer kinds exactly so large values compare without
// float rounding.
func toInt64(val interface{}) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	}
	return 0, false
}

// numericValue is the loose conversion used by ordered comparisons: numeric
// strings, as produced by XML value sets, count as numbers.
func numericValue(val interface{}) (float64, bool) {
	if f, ok := toFloat64(val); ok {
		return f, true
	}
	if s, ok := val.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsNaN(f) {
			return f, true
		}
	}
	return 0, false
}

// strictEqual compares type and value. Numbers of any Go kind compare by
// value with each other; no other cross-kind coercion happens.
func strictEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ai, ok := toInt64(a); ok {
		if bi, ok := toInt64(b); ok {
			return ai == bi
		}
	}
	if af, ok := toFloat64(a); ok {
		bf, ok := toFloat64(b)
		return ok && af == bf
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

// compareOrdered returns -1, 0 or 1. ok is false when either side is nil.
func compareOrdered(a, b interface{}) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	if ai, ok := toInt64(a); ok {
		if bi, ok := toInt64(b); ok {
			return compareInts(ai, bi), true
		}
	}
	if af, ok := numericValue(a); ok {
		if bf, ok := numericValue(b); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
	}
	return strings.Compare(FormatValue(a), FormatValue(b)), true
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// toSlice returns the elements of a sequence value. Mappings and strings are
// not sequences.
func toSlice(val interface{}) ([]interface{}, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false
	case []interface{}:
		return v, true
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
