package codetmpl

import (
	"reflect"
	"strconv"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

// TemplateData is the root value set a template is resolved against
type TemplateData map[string]interface{}

// binding is one link of the persistent scope chain pushed by each loops
type binding struct {
	name   string
	value  interface{}
	parent *binding
}

// Values resolves variable references against a value set plus any loop
// bindings in scope. A Values is never modified after creation, so a single
// instance may be shared between concurrent resolves.
type Values struct {
	data     TemplateData
	bindings *binding
}

// NewValues wraps a value set for resolution
func NewValues(data TemplateData) *Values {
	if data == nil {
		data = TemplateData{}
	}
	return &Values{data: data}
}

// With returns a view in which name resolves to value, shadowing any earlier
// binding or root value of the same name. The receiver is left unchanged.
func (v *Values) With(name string, value interface{}) *Values {
	next := &Values{bindings: &binding{name: name, value: value}}
	if v != nil {
		next.data = v.data
		next.bindings.parent = v.bindings
	}
	return next
}

// Get looks up a top level name. The bool result is false when the name is
// undefined, which is distinct from a present nil value.
func (v *Values) Get(name string) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	for b := v.bindings; b != nil; b = b.parent {
		if b.name == name {
			return b.value, true
		}
	}
	val, ok := v.data[name]
	return val, ok
}

// Resolve walks ref through the value set. Any missing name or index at any
// depth yields undefined rather than an error.
func (v *Values) Resolve(ref VarRef) (interface{}, bool) {
	cur, ok := v.Get(ref.Name)
	if !ok {
		return nil, false
	}
	for _, idx := range ref.Indexes {
		cur, ok = indexValue(cur, idx)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Data returns the root value set without loop bindings
func (v *Values) Data() TemplateData {
	if v == nil {
		return nil
	}
	return v.data
}

// indexValue performs one index step. Mapping keys match exactly; sequence
// indexes must be canonical non-negative decimal integers.
func indexValue(container interface{}, key string) (interface{}, bool) {
	switch c := container.(type) {
	case nil:
		return nil, false
	case *data.Map:
		return c.Get(key)
	case map[string]interface{}:
		val, ok := c[key]
		return val, ok
	case TemplateData:
		val, ok := c[key]
		return val, ok
	case []interface{}:
		i, ok := sequenceIndex(key, len(c))
		if !ok {
			return nil, false
		}
		return c[i], true
	}

	rv := reflect.ValueOf(container)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		var k reflect.Value
		switch {
		case kt.Kind() == reflect.String:
			k = reflect.ValueOf(key).Convert(kt)
		case isIntKind(kt.Kind()):
			n, err := strconv.ParseInt(key, 10, 64)
			if err != nil || strconv.FormatInt(n, 10) != key {
				return nil, false
			}
			k = reflect.ValueOf(n).Convert(kt)
		default:
			return nil, false
		}
		val := rv.MapIndex(k)
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := sequenceIndex(key, rv.Len())
		if !ok {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		field := rv.FieldByName(key)
		if !field.IsValid() || !field.CanInterface() {
			return nil, false
		}
		return field.Interface(), true
	}
	return nil, false
}

func sequenceIndex(key string, length int) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= length || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
