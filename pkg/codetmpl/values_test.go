package codetmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

type column struct {
	Name string
	Type string
}

func TestValues_Resolve(t *testing.T) {
	ordered := data.NewMap()
	ordered.Set("host", "localhost")

	values := NewValues(TemplateData{
		"plain":   "v",
		"nested":  map[string]interface{}{"k1": map[string]interface{}{"k2": "deep"}},
		"ordered": ordered,
		"list":    []interface{}{"a", "b"},
		"strs":    []string{"x", "y"},
		"typed":   map[string]string{"key": "value"},
		"byID":    map[int]string{7: "seven"},
		"col":     column{Name: "id", Type: "int"},
		"colPtr":  &column{Name: "email"},
		"null":    nil,
	})

	tests := []struct {
		ref     string
		want    interface{}
		defined bool
	}{
		{"plain", "v", true},
		{"nested[k1][k2]", "deep", true},
		{"ordered[host]", "localhost", true},
		{"list[1]", "b", true},
		{"strs[0]", "x", true},
		{"typed[key]", "value", true},
		{"byID[7]", "seven", true},
		{"col[Type]", "int", true},
		{"colPtr[Name]", "email", true},
		{"null", nil, true},

		{"missing", nil, false},
		{"plain[0]", nil, false},
		{"nested[k1][nope]", nil, false},
		{"list[2]", nil, false},
		{"list[01]", nil, false},
		{"list[-1]", nil, false},
		{"byID[07]", nil, false},
		{"col[missing]", nil, false},
		{"null[x]", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := values.Resolve(MustParseVarRef(tt.ref))
			assert.Equal(t, tt.defined, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValues_WithShadowsWithoutMutating(t *testing.T) {
	root := NewValues(TemplateData{"item": "root", "other": 1})

	inner := root.With("item", "bound")
	innermost := inner.With("item", "again").With("extra", true)

	v, _ := root.Get("item")
	assert.Equal(t, "root", v)
	v, _ = inner.Get("item")
	assert.Equal(t, "bound", v)
	v, _ = innermost.Get("item")
	assert.Equal(t, "again", v)

	_, ok := inner.Get("extra")
	assert.False(t, ok)

	v, ok = innermost.Get("other")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.Equal(t, root.Data(), innermost.Data())
}

func TestValues_NilSafe(t *testing.T) {
	var values *Values
	_, ok := values.Get("x")
	assert.False(t, ok)
	assert.Nil(t, values.Data())

	bound := values.With("x", 1)
	v, ok := bound.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	empty := NewValues(nil)
	_, ok = empty.Resolve(MustParseVarRef("x[y]"))
	assert.False(t, ok)
}
