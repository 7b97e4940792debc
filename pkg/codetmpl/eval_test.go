package codetmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgraham/codetmpl/pkg/codetmpl/data"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func TestFormatValue(t *testing.T) {
	ordered := data.NewMap()
	ordered.Set("z", 1)
	ordered.Set("a", "<b>")

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"string", "text", "text"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint8", uint8(200), "200"},
		{"float", 1.5, "1.5"},
		{"whole float", 2.0, "2"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"sequence", []interface{}{"a", 1}, `["a",1]`},
		{"string slice", []string{"x", "y"}, `["x","y"]`},
		{"ordered map", ordered, `{"z":1,"a":"<b>"}`},
		{"plain map", map[string]interface{}{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"stringer", label("x"), "label:x"},
		{"struct", struct{ A int }{3}, "{3}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value interface{}
		want  bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"0", false},
		{"0.0", true},
		{"false", true},
		{0, false},
		{0.0, false},
		{-1, true},
		{[]interface{}{}, false},
		{[]interface{}{0}, true},
		{[]string{}, false},
		{map[string]interface{}{}, false},
		{data.NewMap(), false},
		{struct{}{}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isTruthy(tt.value), "isTruthy(%#v)", tt.value)
	}
}

func TestStrictEqual(t *testing.T) {
	tests := []struct {
		a, b interface{}
		want bool
	}{
		{1, int64(1), true},
		{1, 1.0, true},
		{uint8(3), int32(3), true},
		{1, "1", false},
		{"a", "a", true},
		{"a", "b", false},
		{true, true, true},
		{true, "true", false},
		{nil, nil, true},
		{nil, "", false},
		{"", nil, false},
		{int64(9007199254740993), int64(9007199254740992), false},
		{[]interface{}{1}, []interface{}{1}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, strictEqual(tt.a, tt.b), "strictEqual(%#v, %#v)", tt.a, tt.b)
	}
}

func TestCompareOrdered(t *testing.T) {
	tests := []struct {
		a, b   interface{}
		want   int
		wantOK bool
	}{
		{1, 2, -1, true},
		{2.5, 2, 1, true},
		{"10", 9, 1, true},
		{"10", "9", 1, true},
		{"abc", "abd", -1, true},
		{"b", 1, 1, true},
		{3, 3.0, 0, true},
		{nil, 1, 0, false},
		{1, nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := compareOrdered(tt.a, tt.b)
		assert.Equal(t, tt.wantOK, ok, "compareOrdered(%#v, %#v) ok", tt.a, tt.b)
		assert.Equal(t, tt.want, got, "compareOrdered(%#v, %#v)", tt.a, tt.b)
	}
}

func TestToSlice(t *testing.T) {
	items, ok := toSlice([]interface{}{1, "a"})
	assert.True(t, ok)
	assert.Equal(t, []interface{}{1, "a"}, items)

	items, ok = toSlice([]string{"x"})
	assert.True(t, ok)
	assert.Equal(t, []interface{}{"x"}, items)

	items, ok = toSlice([2]int{4, 5})
	assert.True(t, ok)
	assert.Equal(t, []interface{}{4, 5}, items)

	items, ok = toSlice([]map[string]interface{}{{"a": 1}})
	assert.True(t, ok)
	assert.Len(t, items, 1)

	for _, notSeq := range []interface{}{nil, "abc", 3, map[string]interface{}{}, data.NewMap()} {
		_, ok := toSlice(notSeq)
		assert.False(t, ok, "toSlice(%#v)", notSeq)
	}
}
